package bracket

// State is the authoritative in-memory state for one bracket: a dense,
// index-addressed list of Matches. It is mutated only by the owning
// LiveBracket's single serial executor (spec §5) — State itself does no
// locking.
//
// Grounded on the teacher's own internal/bracket package (Match/Entry
// with BracketSide, round/order fields, winner/loser next-match
// pointers), generalized from a persisted scheduling record edited
// occasionally through a web form into a live state machine mutated by
// a wire command and re-broadcast on every change: pure command in,
// edits out, sentinel errors.
type State struct {
	matches []Match
}

// NewState wraps an initial match list, typically produced by
// Adapter.Layout at hydration or loaded verbatim from a Store snapshot.
func NewState(matches []Match) *State {
	return &State{matches: append([]Match(nil), matches...)}
}

// Snapshot returns a deep copy of all matches in stable index order.
func (s *State) Snapshot() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Len reports the number of matches.
func (s *State) Len() int { return len(s.matches) }

// Update validates index, overwrites playable spots' EntrantScore data,
// and — if exactly one node's Winner flag is uniquely set — invokes the
// adapter's Advance rule and applies the returned edits atomically. It
// returns the full list of edits applied: the originating match plus
// any cascaded edits (spec §4.3).
func (s *State) Update(adapter Adapter, index uint64, nodes [2]EntrantScore) ([]Edit, error) {
	if index >= uint64(len(s.matches)) {
		return nil, ErrIndexOutOfRange
	}
	if nodes[0].Winner && nodes[1].Winner {
		return nil, ErrProto
	}

	m := s.matches[index]
	for i := range m.Entrants {
		if m.Entrants[i].Kind == SpotEntrant {
			m.Entrants[i].Data = nodes[i]
		}
	}
	s.matches[index] = m

	edits := []Edit{{Index: index, Match: m.Clone()}}

	if nodes[0].Winner || nodes[1].Winner {
		cascaded, err := adapter.Advance(s.matches, index)
		if err != nil {
			return nil, err
		}
		edits = append(edits, s.apply(cascaded)...)
	}

	return edits, nil
}

// Reset clears scores and winner flags on the target match and
// propagates Tbd downstream through the adapter's Rewind rule. Calling
// Reset twice in a row on the same index is idempotent: the second call
// finds the match already cleared and Rewind finds nothing further to
// propagate (spec §8 property 8).
func (s *State) Reset(adapter Adapter, index uint64) ([]Edit, error) {
	if index >= uint64(len(s.matches)) {
		return nil, ErrIndexOutOfRange
	}

	m := s.matches[index]
	for i := range m.Entrants {
		if m.Entrants[i].Kind == SpotEntrant {
			m.Entrants[i].Data = EntrantScore{}
		}
	}
	s.matches[index] = m

	edits := []Edit{{Index: index, Match: m.Clone()}}

	cascaded, err := adapter.Rewind(s.matches, index)
	if err != nil {
		return nil, err
	}
	edits = append(edits, s.apply(cascaded)...)

	return edits, nil
}

// apply writes each edit's Match into the backing slice, validating
// indices are in range, and returns the edits unchanged for convenience
// at call sites that want to both mutate and collect.
func (s *State) apply(edits []Edit) []Edit {
	for _, e := range edits {
		if e.Index < uint64(len(s.matches)) {
			s.matches[e.Index] = e.Match
		}
	}
	return edits
}
