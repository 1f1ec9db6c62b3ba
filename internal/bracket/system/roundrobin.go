package system

import "github.com/dynamic-tournament/live-bracket/internal/bracket"

// RoundRobin schedules every entrant against every other entrant exactly
// once, using the circle method: entrant 0 stays pinned to seat 0, every
// other seat rotates one position each round. Grounded on
// original_source/dynamic-tournament-core/src/round_robin.rs's
// circle_entrant; an odd entrant count is padded with a bye seat the way
// the origin pads entrants_even.
//
// Matches are independent round to round, so there is nothing for
// Advance/Rewind to cascade (spec's supplemented-features note on
// round-robin/Swiss).
type RoundRobin struct{}

const SystemIDRoundRobin uint64 = 3

func (RoundRobin) SystemID() uint64 { return SystemIDRoundRobin }
func (RoundRobin) Name() string     { return "round_robin" }

func (RoundRobin) OptionSchema() bracket.OptionSchema {
	return bracket.OptionSchema{}
}

func (RoundRobin) Layout(entrants []bracket.EntrantRef, options bracket.Options) ([]bracket.Match, error) {
	n := len(entrants)
	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		return []bracket.Match{{Entrants: [2]bracket.EntrantSpot{bracket.NewEntrant(entrants[0]), bracket.Empty()}}}, nil
	}

	even := n
	if n%2 != 0 {
		even = n + 1
	}
	perRound := even / 2
	rounds := even - 1

	matches := make([]bracket.Match, 0, rounds*perRound)
	for round := 0; round < rounds; round++ {
		for i := 0; i < perRound; i++ {
			a := circleEntrant(even, round, i)
			b := circleEntrant(even, round, even-i-1)
			matches = append(matches, bracket.Match{Entrants: [2]bracket.EntrantSpot{
				entrantOrBye(entrants, a),
				entrantOrBye(entrants, b),
			}})
		}
	}
	return matches, nil
}

func entrantOrBye(entrants []bracket.EntrantRef, i int) bracket.EntrantSpot {
	if i < len(entrants) {
		return bracket.NewEntrant(entrants[i])
	}
	return bracket.Empty()
}

// circleEntrant returns the entrant index seated at position index of an
// n-seat circle (n even) after round rotations, with seat 0 pinned.
func circleEntrant(n, round, index int) int {
	if index == 0 {
		return 0
	}
	res := index - round
	if res <= 0 {
		return n - (-res) - 1
	}
	return res
}

func (RoundRobin) Advance(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	return nil, nil
}

func (RoundRobin) Rewind(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	return nil, nil
}
