package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserver_OnChangeDispose(t *testing.T) {
	t.Parallel()

	state := NewState(0)
	observer := NewObserver(state)

	calls := 0
	cb := func() { calls++ }

	dispose := observer.OnChange(cb)
	require.Len(t, observer.subscriptions, 1)

	dispose()
	assert.Empty(t, observer.subscriptions)

	// disposing again is a no-op
	dispose()
	assert.Empty(t, observer.subscriptions)

	require.NoError(t, observer.Update(1))
	assert.Zero(t, calls)
}

func TestObserver_DuplicateCallbacks(t *testing.T) {
	t.Parallel()

	state := NewState(0)
	observer := NewObserver(state)

	calls := 0
	cb := func() { calls++ }

	disposeFirst := observer.OnChange(cb)
	disposeSecond := observer.OnChange(cb)
	require.Len(t, observer.subscriptions, 2)

	require.NoError(t, observer.Update(1))
	assert.Equal(t, 2, calls)

	disposeFirst()
	assert.Len(t, observer.subscriptions, 1)

	require.NoError(t, observer.Update(2))
	assert.Equal(t, 3, calls)

	disposeSecond()
	assert.Empty(t, observer.subscriptions)
}

func TestObserver_UpdateHasNoEqualityCheck(t *testing.T) {
	t.Parallel()

	state := NewState(42)
	observer := NewObserver(state)

	calls := 0
	observer.OnChange(func() { calls++ })

	require.NoError(t, observer.Update(42))
	require.NoError(t, observer.Update(42))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 42, state.Get())
}

func TestObserver_ForceUpdateKeepsValue(t *testing.T) {
	t.Parallel()

	state := NewState("alive")
	observer := NewObserver(state)

	calls := 0
	observer.OnChange(func() { calls++ })

	assert.False(t, observer.Forced())

	observer.ForceUpdate()

	assert.Equal(t, 1, calls)
	assert.Equal(t, "alive", state.Get())
	assert.True(t, observer.Forced())
}

func TestObserver_OnBindFiresImmediately(t *testing.T) {
	t.Parallel()

	state := NewState(7)
	observer := NewObserver(state)

	seen := make([]int, 0)
	dispose := observer.OnBind(func() {
		seen = append(seen, state.Get())
	})

	require.Equal(t, []int{7}, seen)

	require.NoError(t, observer.Update(8))
	assert.Equal(t, []int{7, 8}, seen)

	dispose()
	require.NoError(t, observer.Update(9))
	assert.Equal(t, []int{7, 8}, seen)
}

func TestObserver_NotificationOrder(t *testing.T) {
	t.Parallel()

	state := NewState(0)
	observer := NewObserver(state)

	order := make([]string, 0)
	observer.OnChange(func() { order = append(order, "first") })
	observer.OnChange(func() { order = append(order, "second") })
	observer.OnChange(func() { order = append(order, "third") })

	require.NoError(t, observer.Update(1))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestObserver_MidNotifyMutation(t *testing.T) {
	t.Parallel()

	state := NewState(0)
	observer := NewObserver(state)

	order := make([]string, 0)

	var disposeSecond Unsubscribe
	observer.OnChange(func() {
		order = append(order, "first")
		// removing a sibling mid-notify must not skip it this round
		disposeSecond()
		// a late subscriber must not fire this round either
		observer.OnChange(func() { order = append(order, "late") })
	})
	disposeSecond = observer.OnChange(func() { order = append(order, "second") })

	require.NoError(t, observer.Update(1))
	assert.Equal(t, []string{"first", "second"}, order)

	// second was disposed in round one; only first and the late
	// subscriber remain for round two
	order = order[:0]
	require.NoError(t, observer.Update(2))
	assert.Equal(t, []string{"first", "late"}, order)
}

func TestObserver_Destroy(t *testing.T) {
	t.Parallel()

	state := NewState(1)
	observer := NewObserver(state)

	calls := 0
	observer.OnChange(func() { calls++ })

	observer.Destroy()
	assert.Empty(t, observer.subscriptions)
	assert.Nil(t, observer.State())

	observer.ForceUpdate()
	assert.Zero(t, calls)

	err := observer.Update(2)
	require.ErrorIs(t, err, ErrObserverDestroyed)
	assert.Equal(t, 1, state.Get())

	// destroying twice is safe
	observer.Destroy()

	// registration on a destroyed observer is tolerated as a no-op
	dispose := observer.OnChange(func() { calls++ })
	dispose()
	observer.OnBind(func() { calls++ })

	observer.ForceUpdate()
	assert.Zero(t, calls)
}

func TestObserver_SharedState(t *testing.T) {
	t.Parallel()

	state := NewState(10)
	first := NewObserver(state)
	second := NewObserver(state)

	calls := 0
	second.OnChange(func() { calls++ })

	require.NoError(t, first.Update(20))
	assert.Equal(t, 20, state.Get())
	// observers hold no back-reference to each other
	assert.Zero(t, calls)

	first.Destroy()

	require.NoError(t, second.Update(30))
	assert.Equal(t, 30, state.Get())
	assert.Equal(t, 1, calls)
}
