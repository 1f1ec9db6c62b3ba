package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/store"
	"github.com/dynamic-tournament/live-bracket/internal/store/sqlstore"
)

func openTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	st, err := sqlstore.Open("file::memory:")
	require.NoError(t, err)
	return st
}

func TestStore_LoadBracket_NotFoundBeforeFirstSave(t *testing.T) {
	st := openTestStore(t)
	_, err := st.LoadBracket(context.Background(), store.BracketKey{TournamentID: 1, BracketID: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_SaveThenLoadBracket_RoundTrips(t *testing.T) {
	st := openTestStore(t)
	key := store.BracketKey{TournamentID: 1, BracketID: 1}
	record := store.BracketRecord{
		SystemID:     1,
		EntrantOrder: []bracket.EntrantRef{1, 2, 3, 4},
		Matches: []bracket.Match{
			{Entrants: [2]bracket.EntrantSpot{bracket.NewEntrant(1), bracket.NewEntrant(2)}},
		},
	}

	require.NoError(t, st.SaveBracketState(context.Background(), key, record))

	got, err := st.LoadBracket(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, record.SystemID, got.SystemID)
	assert.Equal(t, record.EntrantOrder, got.EntrantOrder)
	assert.Equal(t, record.Matches, got.Matches)
}

func TestStore_SaveBracketState_OverwritesOnConflict(t *testing.T) {
	st := openTestStore(t)
	key := store.BracketKey{TournamentID: 2, BracketID: 1}

	require.NoError(t, st.SaveBracketState(context.Background(), key, store.BracketRecord{SystemID: 1}))
	require.NoError(t, st.SaveBracketState(context.Background(), key, store.BracketRecord{SystemID: 2}))

	got, err := st.LoadBracket(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.SystemID)
}

func TestStore_GetUserByUsername_NotFound(t *testing.T) {
	st := openTestStore(t)
	_, err := st.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_EntrantsFor_NotFoundBeforeSeeding(t *testing.T) {
	st := openTestStore(t)
	_, _, _, err := st.EntrantsFor(context.Background(), store.BracketKey{TournamentID: 9, BracketID: 9})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
