// Package store defines the persistence collaborator used to hydrate
// and save bracket state, and the read accessors internal/auth needs
// for its static user table (spec §4.4/§6.2).
package store

import (
	"context"
	"errors"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
)

// ErrNotFound is returned by any lookup whose key does not exist.
var ErrNotFound = errors.New("store: not found")

// BracketKey identifies one bracket within one tournament.
type BracketKey struct {
	TournamentID uint64
	BracketID    uint64
}

// BracketRecord is the durable tuple of spec §6.2: enough to hydrate a
// LiveBracket without re-deriving anything from the SystemAdapter
// unless no record exists yet.
type BracketRecord struct {
	SystemID     uint64
	Options      bracket.Options
	EntrantOrder []bracket.EntrantRef
	Matches      []bracket.Match
}

// User is one row of the static credential table Login checks against.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
}

// Store is the persistence collaborator. Implementations must be safe
// for concurrent use by multiple LiveBracket actors (spec §5: "Store is
// shared across actors and assumed internally thread-safe").
type Store interface {
	// LoadBracket returns the persisted record for key, or ErrNotFound
	// if none exists yet (a fresh bracket that has never been saved).
	LoadBracket(ctx context.Context, key BracketKey) (BracketRecord, error)
	// SaveBracketState overwrites the whole stored record for key
	// (SystemID, options, entrant order and matches), creating it if it
	// does not exist. Implementations return that same record from a
	// later LoadBracket for key (spec §6.2).
	SaveBracketState(ctx context.Context, key BracketKey, record BracketRecord) error
	// GetUserByUsername resolves one row of the static credential
	// table for internal/auth.Login.
	GetUserByUsername(ctx context.Context, username string) (User, error)
}
