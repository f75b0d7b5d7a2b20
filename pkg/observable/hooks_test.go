package observable_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/ravegoth/obj-observe/pkg/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_FireOnMapLifecycle(t *testing.T) {
	var observed, removed, notified, reentered int

	m := observable.NewMap[string, int](observable.WithHooks(observable.Hooks{
		OnObserve:        func(key string) { observed++ },
		OnRemove:         func(key string, count int) { removed += count },
		OnNotify:         func(key string, old, new any) { notified++ },
		OnReentrantWrite: func(key string) { reentered++ },
	}))

	m.On("hp", func(old, new any) {
		if new.(int) > 10 {
			m.Set("hp", 10)
		}
	})
	m.On("hp", func(old, new any) {})
	assert.Equal(t, 2, observed)

	m.Set("hp", 50)
	assert.Equal(t, 1, notified, "one notification pass per guarded write")
	assert.Equal(t, 1, reentered)

	m.RemoveAll()
	assert.Equal(t, 2, removed)
}

func TestHooks_NotifyFiresWithoutObservers(t *testing.T) {
	// The notify hook reports every guarded write, observed key or not, so
	// hosts can keep a full change log.
	var keys []string
	m := observable.NewMap[string, int](observable.WithHooks(observable.Hooks{
		OnNotify: func(key string, old, new any) { keys = append(keys, key) },
	}))

	m.Set("a", 1)
	m.Set("b", 2)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestWithLogger_EmitsDebugChanges(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := observable.NewMap[string, int](observable.WithLogger(logger))
	m.On("hp", func(old, new any) {})
	m.Set("hp", 7)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "observer registered")
	assert.Contains(t, out, "change")
	assert.Contains(t, out, "key=hp")
}
