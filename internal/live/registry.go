package live

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/bracket/system"
	"github.com/dynamic-tournament/live-bracket/internal/store"
)

// ErrUnknownSystem is returned when a bracket record (or a fresh
// layout request) names a system_id the registry's system.Registry
// does not recognize.
var ErrUnknownSystem = errors.New("live: unknown system_id")

// entrantSource supplies the entrant list a fresh bracket is laid out
// against, when no persisted record exists yet. Kept as a narrow
// interface so LiveRegistry doesn't need the full tournament/entrant
// CRUD surface (spec's "full tournament/entrant/role CRUD stays an
// external collaborator").
type entrantSource interface {
	EntrantsFor(ctx context.Context, key store.BracketKey) (systemID uint64, entrants []bracket.EntrantRef, options bracket.Options, err error)
}

// Registry is the process-wide map from (tournament_id, bracket_id) to
// LiveBracket, with refcounting and coalesced hydration.
//
// Grounded on the map-of-actors-with-lazy-hydration shape of bureau's
// telemetry log manager (findOrCreateSession guarded by one mutex, one
// entry per key, created on first reference and torn down when unused),
// adapted to a mutex-guarded map directly rather than another actor
// layer, since the registry's own bookkeeping is O(1) per call and
// doesn't need serialization through a goroutine of its own.
type Registry struct {
	mu      sync.Mutex
	entries map[store.BracketKey]*entry
	group   singleflight.Group

	store    store.Store
	systems  *system.Registry
	entrants entrantSource
	logger   *slog.Logger
	queueCap int
}

type entry struct {
	bracket  *LiveBracket
	refcount int
}

// Handle is a caller's reference-counted hold on one LiveBracket.
// Release returns it to the Registry.
type Handle struct {
	reg *Registry
	key store.BracketKey
	b   *LiveBracket
}

func (h Handle) Bracket() *LiveBracket { return h.b }

// NewRegistry wires a Registry against its collaborators. queueCap sizes
// every LiveBracket's per-subscriber queue; non-positive uses
// DefaultSubscriberQueueCap.
func NewRegistry(st store.Store, systems *system.Registry, entrants entrantSource, logger *slog.Logger, queueCap int) *Registry {
	return &Registry{
		entries:  make(map[store.BracketKey]*entry),
		store:    st,
		systems:  systems,
		entrants: entrants,
		logger:   logger,
		queueCap: queueCap,
	}
}

// Acquire returns a Handle to the LiveBracket for key, hydrating it on
// first use. Concurrent Acquire calls for the same key coalesce onto a
// single hydration (spec §4.5).
func (r *Registry) Acquire(ctx context.Context, key store.BracketKey) (Handle, error) {
	r.mu.Lock()
	if e, ok := r.entries[key]; ok {
		e.refcount++
		r.mu.Unlock()
		return Handle{reg: r, key: key, b: e.bracket}, nil
	}
	r.mu.Unlock()

	groupKey := bracketGroupKey(key)
	v, err, _ := r.group.Do(groupKey, func() (interface{}, error) {
		return r.hydrate(ctx, key)
	})
	if err != nil {
		return Handle{}, err
	}
	b := v.(*LiveBracket)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		// Another Acquire finished hydrating and inserted first while
		// this caller waited on the singleflight group re-entering
		// after a concurrent release; prefer the one already present.
		e.refcount++
		return Handle{reg: r, key: key, b: e.bracket}, nil
	}
	r.entries[key] = &entry{bracket: b, refcount: 1}
	return Handle{reg: r, key: key, b: b}, nil
}

func (r *Registry) hydrate(ctx context.Context, key store.BracketKey) (*LiveBracket, error) {
	record, err := r.store.LoadBracket(ctx, key)
	switch {
	case err == nil:
		adapter, aerr := r.systems.Lookup(record.SystemID)
		if aerr != nil {
			return nil, errors.Join(ErrUnknownSystem, aerr)
		}
		return newLiveBracket(context.Background(), key, record, adapter, r.store, r.logger, r.queueCap), nil

	case errors.Is(err, store.ErrNotFound):
		systemID, entrants, options, serr := r.entrants.EntrantsFor(ctx, key)
		if serr != nil {
			return nil, serr
		}
		adapter, aerr := r.systems.Lookup(systemID)
		if aerr != nil {
			return nil, errors.Join(ErrUnknownSystem, aerr)
		}
		matches, lerr := adapter.Layout(entrants, options)
		if lerr != nil {
			return nil, lerr
		}
		record := store.BracketRecord{SystemID: systemID, Options: options, EntrantOrder: entrants, Matches: matches}
		return newLiveBracket(context.Background(), key, record, adapter, r.store, r.logger, r.queueCap), nil

	default:
		return nil, err
	}
}

// Release decrements key's refcount; at zero it shuts the LiveBracket
// down and removes the entry (spec §4.5).
func (r *Registry) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h.key]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		e.bracket.Shutdown()
		delete(r.entries, h.key)
	}
}

func bracketGroupKey(key store.BracketKey) string {
	return strconv.FormatUint(key.TournamentID, 10) + ":" + strconv.FormatUint(key.BracketID, 10)
}
