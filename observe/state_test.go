package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_GetSet(t *testing.T) {
	t.Parallel()

	state := NewState("initial")
	assert.Equal(t, "initial", state.Get())

	state.Set("replaced")
	assert.Equal(t, "replaced", state.Get())

	// Set performs no change detection
	state.Set("replaced")
	assert.Equal(t, "replaced", state.Get())
}

func TestState_SetNeverNotifies(t *testing.T) {
	t.Parallel()

	state := NewState(100)
	observer := NewObserver(state)

	calls := 0
	observer.OnChange(func() { calls++ })

	state.Set(200)

	require.Equal(t, 200, state.Get())
	assert.Zero(t, calls)
}
