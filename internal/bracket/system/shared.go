// Package system provides concrete SystemAdapter implementations (spec
// §4.3/§9): single elimination, double elimination, round robin, and a
// Swiss stub, plus a Registry keyed by system ID.
//
// Grounded on original_source/dynamic-tournament-core's
// single_elimination.rs/double_elimination.rs/round_robin.rs/swiss.rs
// for bracket-shape semantics, expressed as a table-driven round-boundary
// walk over the teacher's own internal/service/bracket_generation.go
// layout-function shape.
package system

import "github.com/dynamic-tournament/live-bracket/internal/bracket"

// bracketSize returns the smallest power of two at least n, with a
// floor of 2 so that any n in {0, 1, 2} still gets a single match.
func bracketSize(n int) int {
	if n <= 2 {
		return 2
	}
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// roundCounts returns the match count of every round of a single-tree
// bracket of the given size, largest round first: size/2, size/4, ...,
// 1.
func roundCounts(size int) []int {
	var counts []int
	for c := size / 2; c >= 1; c /= 2 {
		counts = append(counts, c)
	}
	return counts
}

// roundTable maps a flat match index within a single-tree bracket (WB
// shape, or LB shape) to its round and position within that round.
type roundTable struct {
	counts []int
	starts []int
}

func newRoundTable(counts []int) roundTable {
	starts := make([]int, len(counts))
	off := 0
	for i, c := range counts {
		starts[i] = off
		off += c
	}
	return roundTable{counts: counts, starts: starts}
}

func (t roundTable) len() int {
	if len(t.counts) == 0 {
		return 0
	}
	return t.starts[len(t.starts)-1] + t.counts[len(t.counts)-1]
}

// locate returns the round index and position within round of a flat
// index local to this table, or ok=false if index is out of range.
func (t roundTable) locate(index int) (round, pos int, ok bool) {
	for r, start := range t.starts {
		if index < start+t.counts[r] {
			return r, index - start, true
		}
	}
	return 0, 0, false
}

func (t roundTable) flatIndex(round, pos int) int {
	return t.starts[round] + pos
}

// winnerRef returns the entrant reference of the uniquely-set winner
// spot in m, if any.
func winnerRef(m bracket.Match) (bracket.EntrantRef, bool) {
	for _, e := range m.Entrants {
		if e.Kind == bracket.SpotEntrant && e.Data.Winner {
			return e.Index, true
		}
	}
	return 0, false
}

// loserRef returns the entrant reference of the other playable spot
// when exactly one spot has Winner set; used by double elimination to
// drop the loser into the losers bracket.
func loserRef(m bracket.Match) (bracket.EntrantRef, bool) {
	winnerIdx := -1
	for i, e := range m.Entrants {
		if e.Kind == bracket.SpotEntrant && e.Data.Winner {
			winnerIdx = i
		}
	}
	if winnerIdx == -1 {
		return 0, false
	}
	other := m.Entrants[1-winnerIdx]
	if other.Kind != bracket.SpotEntrant {
		return 0, false
	}
	return other.Index, true
}

// clearScores zeroes EntrantScore on every playable spot of m.
func clearScores(m bracket.Match) bracket.Match {
	for i := range m.Entrants {
		if m.Entrants[i].Kind == bracket.SpotEntrant {
			m.Entrants[i].Data = bracket.EntrantScore{}
		}
	}
	return m
}

// seedEntrants lays out entrants across round 0 of a single-tree
// bracket of the given size: entrant i goes to match i/2, slot i%2;
// remaining slots are Empty byes.
func seedEntrants(entrants []bracket.EntrantRef, size int) []bracket.Match {
	round0 := size / 2
	matches := make([]bracket.Match, 0, size-1)
	for i := 0; i < round0; i++ {
		var m bracket.Match
		for slot := 0; slot < 2; slot++ {
			idx := i*2 + slot
			if idx < len(entrants) {
				m.Entrants[slot] = bracket.NewEntrant(entrants[idx])
			} else {
				m.Entrants[slot] = bracket.Empty()
			}
		}
		matches = append(matches, m)
	}
	for len(matches) < size-1 {
		matches = append(matches, bracket.Match{Entrants: [2]bracket.EntrantSpot{bracket.TBD(), bracket.TBD()}})
	}
	return matches
}
