/*
Package observe implements generic change-observation for key/value
containers and struct fields: callers register callbacks that fire with
(old, new) whenever a tracked key or field is mutated.

Observation is opt-in through wrappers rather than interception. A plain
map is wrapped into an observer-aware Map; a struct instance is wrapped
into an Object whose Set path performs the write and the notification.
Both share one algorithm: look up the key's observers, skip if a
notification for that key is already in flight (reentrancy guard), capture
the old value, write, fire each observer in registration order, clear the
guard.

# Key Properties

  - Exactly-once delivery: one (old, new) callback per registration per
    tracked write, in registration order.
  - Reentrancy safe: an observer may write the key it was triggered by;
    the inner write applies without a second notification pass.
  - No hidden retention: wrappers hold their targets weakly, and Bind
    produces observers that hold their owners weakly, so observation never
    extends a lifetime.
  - Deterministic teardown: removing the last observer releases all
    bookkeeping; a reclaimed target releases it via a runtime cleanup.

# Usage

Observe a plain map (the input is copied; use the returned container):

	hero := observe.Observe(map[string]int{"hp": 100}, "hp", func(old, new any) {
		fmt.Printf("hp: %v -> %v\n", old, new)
	})
	hero.Set("hp", 150) // hp: 100 -> 150

Observe a struct field through its wrapper:

	p := &Player{HP: 100}
	o, err := observe.Field(p, "HP", func(old, new any) {
		fmt.Printf("HP: %v -> %v\n", old, new)
	})
	if err != nil {
		log.Fatal(err)
	}
	o.Set("HP", 150) // HP: 100 -> 150; p.HP is now 150

The first assignment to a key that never held a value reports the NoValue
sentinel as the old value.
*/
package observe
