package observable

import (
	"fmt"
	"sync"
)

// Map is a key/value container that notifies registered observers when a
// key's value changes. Observers receive (old, new); the old value is
// NoValue for a key that was never set. Safe for concurrent use.
//
// Notification for a single key is guarded against reentrancy: an observer
// that sets the key it was triggered by writes through immediately without
// a second notification pass.
type Map[K comparable, V any] struct {
	mu        sync.Mutex
	data      map[K]V
	observers map[K][]entry
	notifying map[K]bool
	settings  settings
}

// NewMap creates an empty observable map.
func NewMap[K comparable, V any](opts ...Option) *Map[K, V] {
	return &Map[K, V]{
		data:      make(map[K]V),
		observers: make(map[K][]entry),
		notifying: make(map[K]bool),
		settings:  newSettings(opts),
	}
}

// FromMap creates an observable map pre-populated with the entries of src.
// The source map is copied, never mutated: callers must use the returned
// value from then on.
func FromMap[K comparable, V any](src map[K]V, opts ...Option) *Map[K, V] {
	m := NewMap[K, V](opts...)
	for k, v := range src {
		m.data[k] = v
	}
	return m
}

// Set stores value under key and notifies the key's observers in
// registration order with (old, new). A reentrant set of the same key from
// within its own notification writes through without notifying again.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	if m.notifying[key] {
		m.data[key] = value
		m.mu.Unlock()
		m.settings.reentered(keyString(key))
		return
	}

	var old any = NoValue
	if prev, ok := m.data[key]; ok {
		old = prev
	}
	m.notifying[key] = true
	m.data[key] = value
	// Snapshot so observers registered or removed during notification only
	// affect future passes.
	snapshot := append([]entry(nil), m.observers[key]...)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.notifying, key)
		m.mu.Unlock()
	}()

	m.settings.notified(keyString(key), old, value)
	for _, e := range snapshot {
		e.fn(old, value)
	}
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Delete removes key from the map. Deletion is not a tracked mutation and
// does not notify; it also leaves the key's observers registered.
func (m *Map[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Len returns the number of stored entries.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Keys returns the stored keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a copy of the current contents.
func (m *Map[K, V]) Snapshot() map[K]V {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[K]V, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// On registers fn as an observer of key. The same function may be
// registered multiple times and fires once per registration.
func (m *Map[K, V]) On(key K, fn Observer) {
	m.mu.Lock()
	m.observers[key] = append(m.observers[key], newEntry(fn))
	m.mu.Unlock()
	m.settings.observed(keyString(key))
}

// OnFunc returns a registration function for key, enabling
// annotation-style setups where the observer is defined at the call site:
//
//	register := m.OnFunc("hp")
//	register(func(old, new any) { ... })
//
// The registration function registers its argument and returns it
// unchanged.
func (m *Map[K, V]) OnFunc(key K) func(Observer) Observer {
	return func(fn Observer) Observer {
		m.On(key, fn)
		return fn
	}
}

// RemoveObservers detaches all observers of key. Returns whether any
// observer was removed.
func (m *Map[K, V]) RemoveObservers(key K) bool {
	m.mu.Lock()
	count := len(m.observers[key])
	delete(m.observers, key)
	m.mu.Unlock()
	m.settings.removed(keyString(key), count)
	return count > 0
}

// RemoveAll detaches every observer from every key. Returns whether any
// observer was removed.
func (m *Map[K, V]) RemoveAll() bool {
	m.mu.Lock()
	count := 0
	for _, list := range m.observers {
		count += len(list)
	}
	m.observers = make(map[K][]entry)
	m.mu.Unlock()
	m.settings.removed("*", count)
	return count > 0
}

// RemoveObserver detaches the first registration of fn for key, matched by
// function identity. Returns false if fn was never registered for key.
func (m *Map[K, V]) RemoveObserver(key K, fn Observer) bool {
	id := funcID(fn)
	m.mu.Lock()
	list := m.observers[key]
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
			delete(m.observers, key)
		} else {
			m.observers[key] = list
		}
	}
	m.mu.Unlock()
	if removed {
		m.settings.removed(keyString(key), 1)
	}
	return removed
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}
