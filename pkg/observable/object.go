package observable

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"weak"
)

// Object observes field assignments on a struct instance. It is the opt-in
// wrapper replacing ad-hoc interception of the assignment path: mutation
// goes through Set, which performs the guard check, writes the underlying
// field and notifies registered observers with (old, new).
//
// Field names that do not exist in the struct layout land in a dynamic
// attribute bag on the wrapper, so any instance can carry extra observed
// attributes. The first assignment to a bag attribute reports NoValue as
// the old value.
//
// The wrapper holds its target weakly: it never extends the target's
// lifetime, and a write after the target was reclaimed fails with
// ErrTargetReclaimed.
type Object struct {
	mu        sync.Mutex
	deref     func() (reflect.Value, bool)
	typ       reflect.Type
	id        uintptr
	reg       *Registry
	extra     map[string]any
	observers map[string][]entry
	notifying map[string]bool
	settings  settings

	// counted reports whether this instance is included in the registry's
	// live-instance count for its type. Guarded by reg.mu, not mu.
	counted bool
}

// Wrap returns the observer wrapper for target, creating it on first use.
// Repeated calls with the same live target return the same wrapper (from
// the default registry), so observers registered through either reference
// share one table. Target must be a non-nil pointer to a struct.
func Wrap[T any](target *T, opts ...Option) (*Object, error) {
	return WrapIn(DefaultRegistry, target, opts...)
}

// WrapIn is Wrap against an explicit registry. Useful for tests and hosts
// that want isolated observation scopes.
func WrapIn[T any](reg *Registry, target *T, opts ...Option) (*Object, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got *%s", ErrUnsupportedTarget, typ)
	}

	ref := weak.Make(target)
	deref := func() (reflect.Value, bool) {
		p := ref.Value()
		if p == nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(p).Elem(), true
	}

	id := reflect.ValueOf(target).Pointer()
	o, created := reg.adopt(id, typ, deref, opts)
	if created {
		// Evict the record once the target is collected. The record holds
		// the target weakly, so it never blocks collection itself.
		runtime.AddCleanup(target, reg.evict, o)
	}
	return o, nil
}

// Set assigns value to the named field (or dynamic attribute) and notifies
// the field's observers in registration order with (old, new). A reentrant
// set of the same field from within its own notification writes through
// without notifying again. Same-value assignment still notifies.
func (o *Object) Set(name string, value any) error {
	o.mu.Lock()
	target, alive := o.deref()
	if !alive {
		o.mu.Unlock()
		return ErrTargetReclaimed
	}

	if o.notifying[name] {
		err := o.write(target, name, value)
		o.mu.Unlock()
		if err == nil {
			o.settings.reentered(name)
		}
		return err
	}

	old := o.read(target, name)
	o.notifying[name] = true
	if err := o.write(target, name, value); err != nil {
		delete(o.notifying, name)
		o.mu.Unlock()
		return err
	}
	snapshot := append([]entry(nil), o.observers[name]...)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.notifying, name)
		o.mu.Unlock()
	}()

	o.settings.notified(name, old, value)
	for _, e := range snapshot {
		e.fn(old, value)
	}
	return nil
}

// Get reads the named field or dynamic attribute. The boolean reports
// whether the name resolved to anything: struct fields always do, bag
// attributes only after their first assignment.
func (o *Object) Get(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	target, alive := o.deref()
	if !alive {
		return nil, false
	}
	if field := target.FieldByName(name); field.IsValid() && field.CanInterface() {
		return field.Interface(), true
	}
	v, ok := o.extra[name]
	return v, ok
}

// read resolves the current value of name, NoValue if absent. Caller holds mu.
func (o *Object) read(target reflect.Value, name string) any {
	if field := target.FieldByName(name); field.IsValid() && field.CanInterface() {
		return field.Interface()
	}
	if v, ok := o.extra[name]; ok {
		return v
	}
	return NoValue
}

// write performs the underlying assignment. Caller holds mu.
func (o *Object) write(target reflect.Value, name string, value any) error {
	field := target.FieldByName(name)
	if !field.IsValid() {
		if o.extra == nil {
			o.extra = make(map[string]any)
		}
		o.extra[name] = value
		return nil
	}
	if !field.CanSet() {
		return fmt.Errorf("%w: %s.%s", ErrUnexportedField, o.typ, name)
	}
	if value == nil {
		switch field.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		return fmt.Errorf("%w: cannot assign nil to %s.%s (%s)", ErrIncompatibleType, o.typ, name, field.Type())
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case isNumeric(rv.Kind()) && isNumeric(field.Kind()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("%w: %s is not assignable to %s.%s (%s)", ErrIncompatibleType, rv.Type(), o.typ, name, field.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// On registers fn as an observer of the named field. The same function may
// be registered multiple times and fires once per registration. The first
// observer on an instance counts it into the registry's live-instance
// total for its type.
func (o *Object) On(name string, fn Observer) {
	o.mu.Lock()
	if o.observers == nil {
		o.observers = make(map[string][]entry)
	}
	first := len(o.observers) == 0
	o.observers[name] = append(o.observers[name], newEntry(fn))
	if first {
		o.reg.markObserved(o)
	}
	o.mu.Unlock()
	o.settings.observed(name)
}

// OnFunc returns a registration function for the named field; see
// Map.OnFunc.
func (o *Object) OnFunc(name string) func(Observer) Observer {
	return func(fn Observer) Observer {
		o.On(name, fn)
		return fn
	}
}

// RemoveObservers detaches all observers of the named field. Returns
// whether any observer was removed. When the instance's last observer
// goes, it is removed from the registry's live-instance count and, if it
// was the type's last observed instance, the type's bookkeeping is torn
// down entirely.
func (o *Object) RemoveObservers(name string) bool {
	o.mu.Lock()
	count := len(o.observers[name])
	delete(o.observers, name)
	if len(o.observers) == 0 {
		o.reg.unmarkObserved(o)
	}
	o.mu.Unlock()
	o.settings.removed(name, count)
	return count > 0
}

// RemoveAll detaches every observer from the instance. Returns whether any
// observer was removed.
func (o *Object) RemoveAll() bool {
	o.mu.Lock()
	count := 0
	for _, list := range o.observers {
		count += len(list)
	}
	o.observers = nil
	o.reg.unmarkObserved(o)
	o.mu.Unlock()
	o.settings.removed("*", count)
	return count > 0
}

// RemoveObserver detaches the first registration of fn for the named
// field, matched by function identity. Returns false if fn was never
// registered for that field.
func (o *Object) RemoveObserver(name string, fn Observer) bool {
	id := funcID(fn)
	o.mu.Lock()
	list := o.observers[name]
	removed := false
	for i, e := range list {
		if e.id == id {
			list = append(list[:i], list[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if len(list) == 0 {
			delete(o.observers, name)
		} else {
			o.observers[name] = list
		}
		if len(o.observers) == 0 {
			o.reg.unmarkObserved(o)
		}
	}
	o.mu.Unlock()
	if removed {
		o.settings.removed(name, 1)
	}
	return removed
}
