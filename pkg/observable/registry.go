package observable

import (
	"reflect"
	"sync"
)

// Registry is the identity table behind Wrap: it maps a live target to its
// wrapper so repeated Wrap calls resolve to the same observer storage, and
// it keeps the per-type bookkeeping the observation contract requires (a
// counter of instances currently holding at least one observer, created
// lazily and torn down when it returns to zero).
//
// Entries hold their target weakly and are auto-evicted by a runtime
// cleanup once the target is reclaimed. Correctness never depends on that
// hook: explicit removal of the last observer performs the same teardown
// synchronously.
type Registry struct {
	mu      sync.Mutex
	objects map[uintptr]*Object
	types   map[reflect.Type]int
}

// DefaultRegistry backs Wrap. Hosts needing isolated scopes create their
// own with NewRegistry and use WrapIn.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[uintptr]*Object),
		types:   make(map[reflect.Type]int),
	}
}

// Observed returns how many instances of typ currently hold at least one
// observer.
func (r *Registry) Observed(typ reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.types[typ]
}

// Types returns how many struct types currently have observed instances.
func (r *Registry) Types() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.types)
}

// adopt resolves or creates the wrapper for the target identified by id.
// The second return reports whether a new record was created (and thus
// needs a cleanup hook armed by the caller, which still holds the typed
// target pointer).
func (r *Registry) adopt(id uintptr, typ reflect.Type, deref func() (reflect.Value, bool), opts []Option) (*Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.objects[id]; ok {
		if _, alive := existing.deref(); alive && existing.typ == typ {
			return existing, false
		}
		// The address was reused by a new allocation before the old
		// record's cleanup ran. Retire the stale record now.
		r.dropLocked(existing)
	}

	o := &Object{
		deref:     deref,
		typ:       typ,
		id:        id,
		reg:       r,
		notifying: make(map[string]bool),
		settings:  newSettings(opts),
	}
	r.objects[id] = o
	return o, true
}

// markObserved counts the instance into its type's live total. Idempotent.
func (r *Registry) markObserved(o *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.counted {
		return
	}
	o.counted = true
	r.types[o.typ]++
}

// unmarkObserved removes the instance from its type's live total, tearing
// the type's bookkeeping down when it was the last observed instance.
// Idempotent, so an explicit removal racing the reclamation cleanup
// decrements exactly once.
func (r *Registry) unmarkObserved(o *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uncountLocked(o)
}

// evict runs as the runtime cleanup for a reclaimed target. The record
// comparison guards against the address having been reused and re-adopted
// by a newer record.
func (r *Registry) evict(o *Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.objects[o.id] == o {
		r.dropLocked(o)
	}
}

func (r *Registry) dropLocked(o *Object) {
	delete(r.objects, o.id)
	r.uncountLocked(o)
}

func (r *Registry) uncountLocked(o *Object) {
	if !o.counted {
		return
	}
	o.counted = false
	if n := r.types[o.typ]; n <= 1 {
		delete(r.types, o.typ)
	} else {
		r.types[o.typ] = n - 1
	}
}
