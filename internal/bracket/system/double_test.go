package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
)

func TestDoubleElimination_Layout_HasWinnersLosersAndGrandFinal(t *testing.T) {
	adapter := system.DoubleElimination{}
	matches, err := adapter.Layout(refs(8), nil)
	require.NoError(t, err)

	// 7 WB matches + 6 LB matches + 1 grand final = 14, per the classic
	// 2S-2 total-match-count identity for S=8.
	assert.Len(t, matches, 14)
}

func TestDoubleElimination_Advance_WinnerAdvancesWBAndLoserDropsToLB(t *testing.T) {
	adapter := system.DoubleElimination{}
	matches, err := adapter.Layout(refs(8), nil)
	require.NoError(t, err)

	matches[0].Entrants[0].Data = bracket.EntrantScore{Winner: true}
	edits, err := adapter.Advance(matches, 0)
	require.NoError(t, err)
	require.Len(t, edits, 2)

	var sawWB, sawLB bool
	for _, e := range edits {
		if e.Index == 4 {
			sawWB = true
			assert.Equal(t, bracket.EntrantRef(1), e.Match.Entrants[0].Index)
		}
		if e.Index >= 7 {
			sawLB = true
		}
	}
	assert.True(t, sawWB, "expected an edit landing on the next WB round match")
	assert.True(t, sawLB, "expected an edit dropping the loser into the LB")
}

func TestDoubleElimination_Advance_OutOfRangeIndexIsANoop(t *testing.T) {
	adapter := system.DoubleElimination{}
	matches, err := adapter.Layout(refs(4), nil)
	require.NoError(t, err)

	edits, err := adapter.Advance(matches, uint64(len(matches)+50))
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestDoubleElimination_Rewind_ClearsWBAndLBTargets(t *testing.T) {
	adapter := system.DoubleElimination{}
	matches, err := adapter.Layout(refs(8), nil)
	require.NoError(t, err)

	matches[0].Entrants[0].Data = bracket.EntrantScore{Winner: true}
	cascaded, err := adapter.Advance(matches, 0)
	require.NoError(t, err)
	for _, e := range cascaded {
		matches[e.Index] = e.Match
	}

	edits, err := adapter.Rewind(matches, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, edits)
	for _, e := range edits {
		matches[e.Index] = e.Match
	}
	assert.Equal(t, bracket.SpotTBD, matches[4].Entrants[0].Kind)
}
