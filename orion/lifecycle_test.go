package orion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_Transitions(t *testing.T) {
	var state Lifecycle
	assert.Equal(t, Inactive, state)

	require.NoError(t, state.Transition(Active))
	assert.Equal(t, Active, state)

	require.ErrorIs(t, state.Transition(Active), ErrIllegalTransition)
	assert.Equal(t, Active, state)

	require.NoError(t, state.Transition(Inactive))
	require.ErrorIs(t, state.Transition(Inactive), ErrIllegalTransition)

	assert.Equal(t, "Inactive", state.String())
}
