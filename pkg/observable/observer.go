package observable

import (
	"reflect"
	"weak"
)

// Observer is a callback invoked with the previous and new value of a
// tracked key or field. The previous value is NoValue when the key had
// never been set before.
type Observer func(old, new any)

// NoValue is passed as the old value for a first-ever assignment to a key
// that had no prior value. It is distinct from nil, which is a real value.
var NoValue = noValue{}

type noValue struct{}

func (noValue) String() string { return "<no value>" }

// entry is a single registration slot. Registration order defines
// invocation order, and duplicates fire once per registration.
type entry struct {
	fn Observer
	id uintptr
}

func newEntry(fn Observer) entry {
	return entry{fn: fn, id: funcID(fn)}
}

// funcID returns the code-pointer identity of an observer. Note that
// distinct closures created from the same func literal share a code
// pointer and therefore the same identity.
func funcID(fn Observer) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// Bind ties an observer to the lifetime of its owner. The returned
// observer holds the owner weakly: registering it does not keep the owner
// alive, and once the owner has been reclaimed the observer is silently
// skipped during notification.
//
// Pass the method as a method expression so the receiver is not captured:
//
//	observe.Bind(tracker, (*Tracker).OnChange)
func Bind[T any](owner *T, method func(owner *T, old, new any)) Observer {
	ref := weak.Make(owner)
	return func(old, new any) {
		if o := ref.Value(); o != nil {
			method(o, old, new)
		}
	}
}
