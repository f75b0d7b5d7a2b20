package observe_test

import (
	"testing"

	observe "github.com/ravegoth/obj-observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	HP int
}

func TestObserveField(t *testing.T) {
	p := &player{HP: 100}

	changed := false
	o, err := observe.Field(p, "HP", func(old, new any) {
		changed = true
		assert.Equal(t, 100, old)
		assert.Equal(t, 150, new)
	})
	require.NoError(t, err)

	require.NoError(t, o.Set("HP", 150))
	assert.True(t, changed)
	assert.Equal(t, 150, p.HP)
}

func TestObserveMap(t *testing.T) {
	src := map[string]int{"a": 1}

	changed := false
	m := observe.Observe(src, "a", func(old, new any) {
		changed = true
		assert.Equal(t, 1, old)
		assert.Equal(t, 2, new)
	})

	m.Set("a", 2)
	assert.True(t, changed)
	assert.Equal(t, 1, src["a"], "the original map is unaffected")
}

func TestMultipleObservers(t *testing.T) {
	p := &player{HP: 100}

	first, second := false, false
	o, err := observe.Field(p, "HP", func(old, new any) { first = true })
	require.NoError(t, err)
	o.On("HP", func(old, new any) { second = true })

	require.NoError(t, o.Set("HP", 200))
	assert.True(t, first)
	assert.True(t, second)
}

func TestRemoveObservers(t *testing.T) {
	p := &player{HP: 100}

	changed := false
	o, err := observe.Field(p, "HP", func(old, new any) { changed = true })
	require.NoError(t, err)

	assert.True(t, o.RemoveObservers("HP"))
	require.NoError(t, o.Set("HP", 150))
	assert.False(t, changed)
	assert.Equal(t, 150, p.HP)
}

func TestRegistrationFunc(t *testing.T) {
	p := &player{HP: 100}

	o, err := observe.Wrap(p)
	require.NoError(t, err)

	called := false
	o.OnFunc("HP")(func(old, new any) { called = true })

	require.NoError(t, o.Set("HP", 150))
	assert.True(t, called)
}

func TestSameValueAssignmentTriggers(t *testing.T) {
	p := &player{HP: 10}

	var calls [][2]any
	o, err := observe.Field(p, "HP", func(old, new any) {
		calls = append(calls, [2]any{old, new})
	})
	require.NoError(t, err)

	require.NoError(t, o.Set("HP", 10))
	assert.Equal(t, [][2]any{{10, 10}}, calls)
}

func TestMultipleInstancesIndependent(t *testing.T) {
	p1, p2 := &player{HP: 1}, &player{HP: 2}

	var c1, c2 []any
	o1, err := observe.Field(p1, "HP", func(old, new any) { c1 = append(c1, new) })
	require.NoError(t, err)
	o2, err := observe.Field(p2, "HP", func(old, new any) { c2 = append(c2, new) })
	require.NoError(t, err)

	require.NoError(t, o1.Set("HP", 3))
	require.NoError(t, o2.Set("HP", 4))
	assert.Equal(t, []any{3}, c1)
	assert.Equal(t, []any{4}, c2)
}

func TestClearAllThenSet(t *testing.T) {
	p := &player{HP: 5}

	var called []any
	o, err := observe.Field(p, "HP", func(old, new any) { called = append(called, new) })
	require.NoError(t, err)

	assert.True(t, observe.ClearAll(o))
	require.NoError(t, o.Set("HP", 6))
	assert.Empty(t, called)
}

func TestRemoveSingleObserver(t *testing.T) {
	p := &player{HP: 5}

	var a, b []any
	oa := func(old, new any) { a = append(a, new) }
	ob := func(old, new any) { b = append(b, new) }

	o, err := observe.Field(p, "HP", oa)
	require.NoError(t, err)
	o.On("HP", ob)

	assert.True(t, o.RemoveObserver("HP", oa))
	require.NoError(t, o.Set("HP", 9))
	assert.Empty(t, a)
	assert.Equal(t, []any{9}, b)
}

func TestRemoveSingleObserverMissing(t *testing.T) {
	p := &player{HP: 5}

	o, err := observe.Wrap(p)
	require.NoError(t, err)
	assert.False(t, o.RemoveObserver("HP", func(old, new any) {}))
}

func TestObserveMapDecoratorViaOnFunc(t *testing.T) {
	m := observe.NewMap[string, int]()

	called := false
	m.OnFunc("hp")(func(old, new any) { called = true })

	m.Set("hp", 150)
	assert.True(t, called)
}
