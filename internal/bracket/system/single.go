package system

import "github.com/dynamic-tournament/live-bracket/internal/bracket"

// SingleElimination is the minimal required bracket shape of spec §4.3:
// entrants are eliminated after one loss. Grounded on
// original_source/dynamic-tournament-core/src/single_elimination.rs for
// the layout shape (round 0 seeded with entrants and byes, subsequent
// rounds Tbd, winner advances pairwise each round); tie-break policy
// (entrant i -> match i/2, slot i%2) is this repo's own deterministic
// choice, documented at seedEntrants.
type SingleElimination struct{}

const SystemIDSingleElimination uint64 = 1

func (SingleElimination) SystemID() uint64 { return SystemIDSingleElimination }
func (SingleElimination) Name() string     { return "single_elimination" }

func (SingleElimination) OptionSchema() bracket.OptionSchema {
	return bracket.OptionSchema{
		{
			Name:        "third_place_match",
			Description: "Include an independent match deciding third place",
			Default:     bracket.BoolOption(false),
		},
	}
}

func (s SingleElimination) Layout(entrants []bracket.EntrantRef, options bracket.Options) ([]bracket.Match, error) {
	size := bracketSize(len(entrants))
	matches := seedEntrants(entrants, size)

	thirdPlace, _ := s.OptionSchema().Resolve(options, "third_place_match")
	if thirdPlace.Kind == bracket.OptionBool && thirdPlace.B && len(entrants) > 2 {
		matches = append(matches, bracket.Match{Entrants: [2]bracket.EntrantSpot{bracket.TBD(), bracket.TBD()}})
	}

	return matches, nil
}

// mainTable derives the round table of the core elimination tree,
// stripping a trailing third-place match if present. A valid core tree
// always has 2^k-1 matches for some k; if the total length doesn't fit
// that shape, the last match is the (unwired) third-place match.
func mainTable(totalLen int) (roundTable, bool) {
	if isCompleteTree(totalLen) {
		return newRoundTable(roundCounts(totalLen + 1)), false
	}
	if totalLen > 0 && isCompleteTree(totalLen-1) {
		return newRoundTable(roundCounts(totalLen)), true
	}
	return newRoundTable(roundCounts(max(totalLen+1, 2))), false
}

func isCompleteTree(x int) bool {
	return x > 0 && (x+1)&x == 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (SingleElimination) Advance(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	table, _ := mainTable(len(matches))
	round, pos, ok := table.locate(int(index))
	if !ok {
		return nil, nil // third-place match: no cascade
	}
	if round+1 >= len(table.counts) {
		return nil, nil // final: nothing downstream
	}

	winner, ok := winnerRef(matches[index])
	if !ok {
		return nil, nil
	}

	nextIdx := table.flatIndex(round+1, pos/2)
	slot := pos % 2

	next := matches[nextIdx]
	next.Entrants[slot] = bracket.NewEntrant(winner)
	return []bracket.Edit{{Index: uint64(nextIdx), Match: next}}, nil
}

func (SingleElimination) Rewind(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	table, _ := mainTable(len(matches))
	var edits []bracket.Edit

	round, pos, ok := table.locate(int(index))
	for ok && round+1 < len(table.counts) {
		nextIdx := table.flatIndex(round+1, pos/2)
		slot := pos % 2

		next := matches[nextIdx]
		if next.Entrants[slot].Kind != bracket.SpotEntrant {
			break
		}
		_, hadWinner := winnerRef(next)
		next.Entrants[slot] = bracket.TBD()
		next = clearScores(next)
		matches[nextIdx] = next
		edits = append(edits, bracket.Edit{Index: uint64(nextIdx), Match: next})

		if !hadWinner {
			break
		}
		round, pos, ok = round+1, pos/2, true
	}

	return edits, nil
}
