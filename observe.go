package observe

import (
	"github.com/ravegoth/obj-observe/pkg/observable"
)

// Observer is a callback invoked with the previous and new value of a
// tracked key or field.
type Observer = observable.Observer

// Map is an observer-aware key/value container. See the observable
// package for the full surface.
type Map[K comparable, V any] = observable.Map[K, V]

// Object observes field assignments on a struct instance through its Set
// path.
type Object = observable.Object

// Registry is the identity table and per-type bookkeeping behind Wrap.
type Registry = observable.Registry

// Hooks defines optional instrumentation callbacks.
type Hooks = observable.Hooks

// Option configures a Map or Object at construction time.
type Option = observable.Option

// NoValue is passed as the old value for a first-ever assignment to a key
// that had no prior value.
var NoValue = observable.NoValue

// Re-exported configuration and errors.
var (
	WithLogger = observable.WithLogger
	WithHooks  = observable.WithHooks

	ErrNilTarget         = observable.ErrNilTarget
	ErrUnsupportedTarget = observable.ErrUnsupportedTarget
	ErrTargetReclaimed   = observable.ErrTargetReclaimed
	ErrUnexportedField   = observable.ErrUnexportedField
	ErrIncompatibleType  = observable.ErrIncompatibleType
)

// Observe wraps a plain map into an observer-aware one and registers fn
// for key. The input map is copied, not mutated: callers must use the
// returned container from then on.
func Observe[K comparable, V any](src map[K]V, key K, fn Observer, opts ...Option) *Map[K, V] {
	m := observable.FromMap(src, opts...)
	m.On(key, fn)
	return m
}

// Field resolves (or creates) the observer wrapper for target and
// registers fn for the named field. Mutations through the wrapper's Set
// notify; the underlying struct is written through.
func Field[T any](target *T, name string, fn Observer, opts ...Option) (*Object, error) {
	o, err := observable.Wrap(target, opts...)
	if err != nil {
		return nil, err
	}
	o.On(name, fn)
	return o, nil
}

// NewMap creates an empty observable map.
func NewMap[K comparable, V any](opts ...Option) *Map[K, V] {
	return observable.NewMap[K, V](opts...)
}

// FromMap creates an observable map pre-populated with the entries of src.
func FromMap[K comparable, V any](src map[K]V, opts ...Option) *Map[K, V] {
	return observable.FromMap(src, opts...)
}

// Wrap returns the observer wrapper for target, creating it on first use.
// Target must be a non-nil pointer to a struct.
func Wrap[T any](target *T, opts ...Option) (*Object, error) {
	return observable.Wrap(target, opts...)
}

// NewRegistry creates an isolated observation registry for use with
// observable.WrapIn.
func NewRegistry() *Registry {
	return observable.NewRegistry()
}

// Bind ties an observer to the lifetime of its owner; see observable.Bind.
func Bind[T any](owner *T, method func(owner *T, old, new any)) Observer {
	return observable.Bind(owner, method)
}

// Clearable is any entity whose observers can be removed wholesale.
type Clearable interface {
	RemoveAll() bool
}

// ClearAll removes every observer from an entity. Returns whether any
// observer was removed.
func ClearAll(entity Clearable) bool {
	return entity.RemoveAll()
}
