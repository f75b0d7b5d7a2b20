// Package observabletest provides a reusable contract suite for observable
// entities, so every wrapper kind proves the same notification semantics.
package observabletest

import (
	"testing"

	"github.com/ravegoth/obj-observe/pkg/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// KV abstracts a string-keyed observable entity for contract testing.
type KV interface {
	Set(key string, value any) error
	Get(key string) (any, bool)
	On(key string, fn observable.Observer)
	RemoveObservers(key string) bool
	RemoveAll() bool
	RemoveObserver(key string, fn observable.Observer) bool
}

// MapKV adapts an observable map to the KV contract surface.
func MapKV(m *observable.Map[string, any]) KV {
	return mapKV{m}
}

type mapKV struct {
	m *observable.Map[string, any]
}

func (a mapKV) Set(key string, value any) error { a.m.Set(key, value); return nil }
func (a mapKV) Get(key string) (any, bool)      { return a.m.Get(key) }
func (a mapKV) On(key string, fn observable.Observer) {
	a.m.On(key, fn)
}
func (a mapKV) RemoveObservers(key string) bool { return a.m.RemoveObservers(key) }
func (a mapKV) RemoveAll() bool                 { return a.m.RemoveAll() }
func (a mapKV) RemoveObserver(key string, fn observable.Observer) bool {
	return a.m.RemoveObserver(key, fn)
}

// RunObservableContract verifies the notification semantics every
// observable entity must provide. The factory must return a fresh entity
// with no prior value stored under the keys "alpha" and "beta".
func RunObservableContract(t *testing.T, factory func(t *testing.T) KV) {
	t.Helper()

	type change struct {
		old, new any
	}

	t.Run("ExactlyOncePerWrite", func(t *testing.T) {
		kv := factory(t)
		var calls []change
		kv.On("alpha", func(old, new any) { calls = append(calls, change{old, new}) })

		require.NoError(t, kv.Set("alpha", 1))
		require.Len(t, calls, 1)
		assert.Equal(t, change{observable.NoValue, 1}, calls[0])

		require.NoError(t, kv.Set("alpha", 2))
		require.Len(t, calls, 2)
		assert.Equal(t, change{1, 2}, calls[1])
	})

	t.Run("RegistrationOrder", func(t *testing.T) {
		kv := factory(t)
		var order []string
		kv.On("alpha", func(old, new any) { order = append(order, "A") })
		kv.On("alpha", func(old, new any) { order = append(order, "B") })

		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, []string{"A", "B"}, order)
	})

	t.Run("DuplicateRegistration", func(t *testing.T) {
		kv := factory(t)
		count := 0
		bump := func(old, new any) { count++ }
		kv.On("alpha", bump)
		kv.On("alpha", bump)

		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, 2, count)
	})

	t.Run("SameValueStillNotifies", func(t *testing.T) {
		kv := factory(t)
		count := 0
		kv.On("alpha", func(old, new any) { count++ })

		require.NoError(t, kv.Set("alpha", 1))
		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, 2, count)
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		kv := factory(t)
		var alpha, beta int
		kv.On("alpha", func(old, new any) { alpha++ })
		kv.On("beta", func(old, new any) { beta++ })

		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, 1, alpha)
		assert.Equal(t, 0, beta)
	})

	t.Run("ReentrantWriteShortCircuits", func(t *testing.T) {
		kv := factory(t)
		var calls []change
		kv.On("alpha", func(old, new any) {
			calls = append(calls, change{old, new})
			if n, ok := new.(int); ok && n > 10 {
				require.NoError(t, kv.Set("alpha", 10))
			}
		})

		require.NoError(t, kv.Set("alpha", 42))
		require.Len(t, calls, 1, "inner write must not recurse")
		got, ok := kv.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, 10, got, "last write wins")
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		kv := factory(t)
		late := 0
		kv.On("alpha", func(old, new any) {
			kv.On("alpha", func(old, new any) { late++ })
		})

		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, 0, late)
		require.NoError(t, kv.Set("alpha", 2))
		assert.Equal(t, 1, late)
	})

	t.Run("RemovalIsIdempotent", func(t *testing.T) {
		kv := factory(t)
		fn := func(old, new any) {}

		assert.False(t, kv.RemoveObserver("alpha", fn))
		assert.False(t, kv.RemoveObservers("alpha"))
		assert.False(t, kv.RemoveAll())

		kv.On("alpha", fn)
		assert.True(t, kv.RemoveObserver("alpha", fn))
		assert.False(t, kv.RemoveObserver("alpha", fn))

		kv.On("alpha", fn)
		kv.On("beta", fn)
		assert.True(t, kv.RemoveAll())
		assert.False(t, kv.RemoveAll())
	})

	t.Run("RemovedObserverStopsFiring", func(t *testing.T) {
		kv := factory(t)
		count := 0
		kv.On("alpha", func(old, new any) { count++ })

		require.True(t, kv.RemoveObservers("alpha"))
		require.NoError(t, kv.Set("alpha", 1))
		assert.Equal(t, 0, count)
	})
}
