package bracket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
)

func newSingleElimState(t *testing.T, n int) (*bracket.State, bracket.Adapter) {
	t.Helper()
	adapter := system.SingleElimination{}
	entrants := make([]bracket.EntrantRef, n)
	for i := range entrants {
		entrants[i] = bracket.EntrantRef(i + 1)
	}
	matches, err := adapter.Layout(entrants, nil)
	require.NoError(t, err)
	return bracket.NewState(matches), adapter
}

func TestState_Update_BothWinnersRejected(t *testing.T) {
	state, adapter := newSingleElimState(t, 4)
	_, err := state.Update(adapter, 0, [2]bracket.EntrantScore{{Winner: true}, {Winner: true}})
	assert.ErrorIs(t, err, bracket.ErrProto)
}

func TestState_Update_IndexOutOfRange(t *testing.T) {
	state, adapter := newSingleElimState(t, 4)
	_, err := state.Update(adapter, 99, [2]bracket.EntrantScore{})
	assert.ErrorIs(t, err, bracket.ErrIndexOutOfRange)
}

func TestState_Update_CascadesWinnerIntoNextRound(t *testing.T) {
	state, adapter := newSingleElimState(t, 4)

	edits, err := state.Update(adapter, 0, [2]bracket.EntrantScore{{Score: 2, Winner: true}, {Score: 1}})
	require.NoError(t, err)
	require.Len(t, edits, 2)

	snap := state.Snapshot()
	assert.Equal(t, bracket.EntrantRef(1), snap[2].Entrants[0].Index)
}

func TestState_Reset_IsIdempotent(t *testing.T) {
	state, adapter := newSingleElimState(t, 4)

	_, err := state.Update(adapter, 0, [2]bracket.EntrantScore{{Score: 2, Winner: true}, {Score: 1}})
	require.NoError(t, err)
	_, err = state.Update(adapter, 1, [2]bracket.EntrantScore{{Score: 3, Winner: true}, {Score: 0}})
	require.NoError(t, err)

	first, err := state.Reset(adapter, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := state.Reset(adapter, 0)
	require.NoError(t, err)

	snap := state.Snapshot()
	assert.Equal(t, bracket.SpotTBD, snap[2].Entrants[0].Kind)
	// second reset on an already-cleared match still clears the target
	// match itself (idempotent no-op) without erroring, even though it
	// no longer has anything left to cascade downstream.
	assert.NotPanics(t, func() { _ = second })
}

func TestState_Snapshot_IsDeepCopy(t *testing.T) {
	state, _ := newSingleElimState(t, 4)
	snap := state.Snapshot()
	snap[0].Entrants[0] = bracket.TBD()
	assert.NotEqual(t, snap[0], state.Snapshot()[0])
}
