package observable_test

import (
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/ravegoth/obj-observe/pkg/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	HP   int
	Name string
	Pet  *player

	secret int
}

func TestObject_NotifiesOnFieldChange(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{HP: 100}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	var calls []change
	o.On("HP", func(old, new any) {
		calls = append(calls, change{old, new})
	})

	require.NoError(t, o.Set("HP", 150))

	require.Len(t, calls, 1)
	assert.Equal(t, change{100, 150}, calls[0])
	assert.Equal(t, 150, p.HP, "the underlying struct is written through")
}

func TestObject_WrapResolvesToSameWrapper(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{}

	a, err := observable.WrapIn(reg, p)
	require.NoError(t, err)
	b, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	assert.Same(t, a, b, "one live target, one observer table")
}

func TestObject_DynamicAttributeReportsNoValue(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	var calls []change
	o.On("mood", func(old, new any) {
		calls = append(calls, change{old, new})
	})

	require.NoError(t, o.Set("mood", "grim"))
	require.NoError(t, o.Set("mood", "cheerful"))

	require.Len(t, calls, 2)
	assert.Equal(t, change{observable.NoValue, "grim"}, calls[0])
	assert.Equal(t, change{"grim", "cheerful"}, calls[1])

	got, ok := o.Get("mood")
	require.True(t, ok)
	assert.Equal(t, "cheerful", got)
}

func TestObject_SameValueStillNotifies(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{HP: 10}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	var calls []change
	o.On("HP", func(old, new any) {
		calls = append(calls, change{old, new})
	})

	require.NoError(t, o.Set("HP", 10))
	require.Len(t, calls, 1)
	assert.Equal(t, change{10, 10}, calls[0])
}

func TestObject_InstancesAreIndependent(t *testing.T) {
	reg := observable.NewRegistry()
	p1, p2 := &player{HP: 1}, &player{HP: 2}

	o1, err := observable.WrapIn(reg, p1)
	require.NoError(t, err)
	o2, err := observable.WrapIn(reg, p2)
	require.NoError(t, err)

	var c1, c2 []any
	o1.On("HP", func(old, new any) { c1 = append(c1, new) })
	o2.On("HP", func(old, new any) { c2 = append(c2, new) })

	require.NoError(t, o1.Set("HP", 3))
	require.NoError(t, o2.Set("HP", 4))

	assert.Equal(t, []any{3}, c1, "mutating one instance never fires the other's observers")
	assert.Equal(t, []any{4}, c2)
}

func TestObject_WrapErrors(t *testing.T) {
	reg := observable.NewRegistry()

	t.Run("nil target", func(t *testing.T) {
		_, err := observable.WrapIn[player](reg, nil)
		assert.ErrorIs(t, err, observable.ErrNilTarget)
	})

	t.Run("non-struct target", func(t *testing.T) {
		n := 7
		_, err := observable.WrapIn(reg, &n)
		assert.ErrorIs(t, err, observable.ErrUnsupportedTarget)
	})
}

func TestObject_UnexportedField(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{secret: 1}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	err = o.Set("secret", 2)
	assert.ErrorIs(t, err, observable.ErrUnexportedField)
	assert.Equal(t, 1, p.secret)
}

func TestObject_SetValueConversion(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	t.Run("numeric widening", func(t *testing.T) {
		require.NoError(t, o.Set("HP", int8(7)))
		assert.Equal(t, 7, p.HP)
	})

	t.Run("incompatible value", func(t *testing.T) {
		err := o.Set("HP", "full")
		assert.ErrorIs(t, err, observable.ErrIncompatibleType)
		assert.Equal(t, 7, p.HP, "failed write leaves the field untouched")
	})

	t.Run("nil into pointer field", func(t *testing.T) {
		p.Pet = &player{}
		require.NoError(t, o.Set("Pet", nil))
		assert.Nil(t, p.Pet)
	})

	t.Run("nil into value field", func(t *testing.T) {
		err := o.Set("HP", nil)
		assert.ErrorIs(t, err, observable.ErrIncompatibleType)
	})
}

func TestObject_FailedWriteDoesNotNotify(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{HP: 1}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	fired := false
	o.On("HP", func(old, new any) { fired = true })

	require.Error(t, o.Set("HP", "nope"))
	assert.False(t, fired)

	// The guard was released: a valid write notifies.
	require.NoError(t, o.Set("HP", 2))
	assert.True(t, fired)
}

func TestObject_ReentrantWriteClamps(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{HP: 50}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	var calls []change
	o.On("HP", func(old, new any) {
		calls = append(calls, change{old, new})
		if new.(int) > 100 {
			require.NoError(t, o.Set("HP", 100))
		}
	})

	require.NoError(t, o.Set("HP", 150))

	require.Len(t, calls, 1)
	assert.Equal(t, change{50, 150}, calls[0])
	assert.Equal(t, 100, p.HP)
}

func TestObject_RemoveObserverSemantics(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	var a, b []any
	obsA := func(old, new any) { a = append(a, new) }
	obsB := func(old, new any) { b = append(b, new) }
	o.On("HP", obsA)
	o.On("HP", obsB)

	assert.True(t, o.RemoveObserver("HP", obsA))
	assert.False(t, o.RemoveObserver("HP", obsA))

	require.NoError(t, o.Set("HP", 9))
	assert.Empty(t, a)
	assert.Equal(t, []any{9}, b)
}

func TestObject_CounterLifecycle(t *testing.T) {
	reg := observable.NewRegistry()
	typ := reflect.TypeFor[player]()
	p1, p2 := &player{}, &player{}

	o1, err := observable.WrapIn(reg, p1)
	require.NoError(t, err)
	o2, err := observable.WrapIn(reg, p2)
	require.NoError(t, err)

	assert.Equal(t, 0, reg.Observed(typ), "wrapping alone does not count")

	o1.On("HP", func(old, new any) {})
	o1.On("Name", func(old, new any) {})
	assert.Equal(t, 1, reg.Observed(typ), "counter tracks instances, not observers")

	o2.On("HP", func(old, new any) {})
	assert.Equal(t, 2, reg.Observed(typ))

	assert.True(t, o1.RemoveObservers("HP"))
	assert.Equal(t, 2, reg.Observed(typ), "instance still holds a Name observer")

	assert.True(t, o1.RemoveAll())
	assert.Equal(t, 1, reg.Observed(typ))

	assert.True(t, o2.RemoveObservers("HP"))
	assert.Equal(t, 0, reg.Observed(typ))
	assert.Equal(t, 0, reg.Types(), "type bookkeeping torn down at zero")
}

func TestObject_TeardownRestoresPlainBehavior(t *testing.T) {
	reg := observable.NewRegistry()
	p := &player{HP: 1}

	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)

	fired := 0
	o.On("HP", func(old, new any) { fired++ })
	require.NoError(t, o.Set("HP", 2))
	require.Equal(t, 1, fired)

	require.True(t, o.RemoveAll())

	// Writes still apply, nothing notifies, no residual bookkeeping.
	require.NoError(t, o.Set("HP", 3))
	assert.Equal(t, 3, p.HP)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, reg.Types())
}

func TestObject_ReclaimedTargetEvicted(t *testing.T) {
	reg := observable.NewRegistry()
	typ := reflect.TypeFor[player]()

	p := &player{HP: 1}
	o, err := observable.WrapIn(reg, p)
	require.NoError(t, err)
	o.On("HP", func(old, new any) {})
	require.Equal(t, 1, reg.Observed(typ))

	p = nil

	require.Eventually(t, func() bool {
		runtime.GC()
		return reg.Observed(typ) == 0
	}, 5*time.Second, 10*time.Millisecond,
		"reclaiming the target must release its observer bookkeeping")

	assert.ErrorIs(t, o.Set("HP", 2), observable.ErrTargetReclaimed)
	_, ok := o.Get("HP")
	assert.False(t, ok)
}
