package system

import (
	"fmt"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
)

// Registry resolves a system_id (spec §4.3) to the Adapter implementing
// that bracket shape: an open, ID-keyed lookup so new shapes register
// without touching call sites.
type Registry struct {
	adapters map[uint64]bracket.Adapter
}

// NewRegistry returns a Registry pre-populated with every shape this
// repo implements.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[uint64]bracket.Adapter)}
	r.Register(SingleElimination{})
	r.Register(DoubleElimination{})
	r.Register(RoundRobin{})
	r.Register(Swiss{})
	return r
}

// Register adds or replaces the adapter for its own SystemID.
func (r *Registry) Register(a bracket.Adapter) {
	r.adapters[a.SystemID()] = a
}

// Lookup returns the adapter for systemID, or an error naming the
// unknown ID.
func (r *Registry) Lookup(systemID uint64) (bracket.Adapter, error) {
	a, ok := r.adapters[systemID]
	if !ok {
		return nil, fmt.Errorf("bracket/system: unknown system_id %d", systemID)
	}
	return a, nil
}
