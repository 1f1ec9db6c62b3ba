package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/store"
	"github.com/dynamic-tournament/live-bracket/internal/store/memstore"
)

func TestMemstore_LoadBeforeSaveIsNotFound(t *testing.T) {
	s := memstore.New()
	_, err := s.LoadBracket(context.Background(), store.BracketKey{TournamentID: 1, BracketID: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemstore_SaveThenLoadRoundTrips(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	key := store.BracketKey{TournamentID: 1, BracketID: 2}
	record := store.BracketRecord{
		SystemID:     1,
		EntrantOrder: []bracket.EntrantRef{1, 2, 3},
		Matches: []bracket.Match{
			{Entrants: [2]bracket.EntrantSpot{bracket.NewEntrant(1), bracket.NewEntrant(2)}},
		},
	}

	require.NoError(t, s.SaveBracketState(ctx, key, record))

	got, err := s.LoadBracket(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, record.SystemID, got.SystemID)
	assert.Equal(t, record.EntrantOrder, got.EntrantOrder)
	assert.Equal(t, record.Matches, got.Matches)
}

func TestMemstore_GetUserByUsername(t *testing.T) {
	s := memstore.New()
	s.AddUser(store.User{ID: 1, Username: "alice", PasswordHash: "hash"})

	u, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)

	_, err = s.GetUserByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
