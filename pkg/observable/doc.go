/*
Package observable implements the change-observation engine: observer
storage, the per-key reentrancy guard, the notification pass, and the
lifecycle bookkeeping behind it.

Two wrappers share the same notification algorithm. Map observes key
assignments on a key/value container; Object observes field assignments on
a struct instance through an opt-in Set path. Both capture the previous
value (NoValue when absent), perform the write, then fire the key's
observers in registration order over a snapshot of the list, while the
guard flag suppresses notification for reentrant writes of the same key.

Most callers use the root package github.com/ravegoth/obj-observe, which
re-exports this one behind a smaller surface.
*/
package observable
