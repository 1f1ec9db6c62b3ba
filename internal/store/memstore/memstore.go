// Package memstore is an in-memory store.Store, used by tests and as
// the default when no database is configured: a single mutex guarding
// a plain map, the simplest correct shape for a shared, thread-safe,
// O(1)-critical-section collaborator.
package memstore

import (
	"context"
	"sync"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/store"
)

type seed struct {
	systemID uint64
	entrants []bracket.EntrantRef
	options  bracket.Options
}

type Store struct {
	mu       sync.Mutex
	brackets map[store.BracketKey]store.BracketRecord
	users    map[string]store.User
	seeds    map[store.BracketKey]seed
}

// New returns an empty Store. Seed users with AddUser before serving
// traffic; there is no registration path (spec §4.7: static table).
func New() *Store {
	return &Store{
		brackets: make(map[store.BracketKey]store.BracketRecord),
		users:    make(map[string]store.User),
		seeds:    make(map[store.BracketKey]seed),
	}
}

// AddUser seeds the static credential table.
func (s *Store) AddUser(u store.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

// AddSeed registers the (system_id, entrants, options) a fresh bracket
// at key is laid out against on its first acquire, the in-memory
// equivalent of sqlstore's bracket_seeds table.
func (s *Store) AddSeed(key store.BracketKey, systemID uint64, entrants []bracket.EntrantRef, options bracket.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[key] = seed{systemID: systemID, entrants: entrants, options: options}
}

// EntrantsFor satisfies internal/live's entrantSource collaborator.
func (s *Store) EntrantsFor(ctx context.Context, key store.BracketKey) (uint64, []bracket.EntrantRef, bracket.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd, ok := s.seeds[key]
	if !ok {
		return 0, nil, nil, store.ErrNotFound
	}
	return sd.systemID, sd.entrants, sd.options, nil
}

func (s *Store) LoadBracket(ctx context.Context, key store.BracketKey) (store.BracketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.brackets[key]
	if !ok {
		return store.BracketRecord{}, store.ErrNotFound
	}
	return cloneRecord(record), nil
}

func (s *Store) SaveBracketState(ctx context.Context, key store.BracketKey, record store.BracketRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brackets[key] = cloneRecord(record)
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func cloneRecord(r store.BracketRecord) store.BracketRecord {
	out := store.BracketRecord{
		SystemID:     r.SystemID,
		EntrantOrder: append([]bracket.EntrantRef(nil), r.EntrantOrder...),
		Matches:      append([]bracket.Match(nil), r.Matches...),
	}
	if r.Options != nil {
		out.Options = make(bracket.Options, len(r.Options))
		for k, v := range r.Options {
			out.Options[k] = v
		}
	}
	return out
}
