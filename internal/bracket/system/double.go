package system

import "github.com/dynamic-tournament/live-bracket/internal/bracket"

// DoubleElimination is the other minimal required bracket shape of
// spec §4.3: an entrant is eliminated only after two losses. Grounded
// on original_source/dynamic-tournament-core/src/double_elimination.rs
// for the three-bracket idea (winners, losers, grand final); the exact
// losers-bracket feed schedule implemented here (consolidate WB round 0
// losers pairwise, then alternate "receive next WB round's losers" /
// "consolidate survivors" rounds, converge into one LB final that plays
// the WB champion in a single grand final match) is this repo's own
// derivation of the standard double-elimination schedule, chosen for a
// clean index mapping rather than copying the origin's pointer-graph
// representation. Bracket reset (a second grand final if the losers'
// bracket champion wins the first) is not modelled — the grand final is
// a single match, a deliberate simplification over the classic format.
type DoubleElimination struct{}

const SystemIDDoubleElimination uint64 = 2

func (DoubleElimination) SystemID() uint64 { return SystemIDDoubleElimination }
func (DoubleElimination) Name() string     { return "double_elimination" }

func (DoubleElimination) OptionSchema() bracket.OptionSchema {
	return bracket.OptionSchema{}
}

// deShape is the precomputed layout of one double-elimination bracket,
// derived purely from the winners-bracket size so that Advance/Rewind
// can reconstruct it from len(matches) alone.
type deShape struct {
	wb       roundTable
	lb       roundTable
	lbFeedWB []int // per LB round: which WB round's losers feed it, -1 if none, -2 for the special round-0 direct pairing
	wbLen    int
	lbLen    int
	gfIndex  int // -1 if the bracket is too small to have a grand final
}

func buildDEShape(wbSize int) deShape {
	wbCounts := roundCounts(wbSize)
	wb := newRoundTable(wbCounts)

	if len(wbCounts) < 2 {
		return deShape{wb: wb, wbLen: wb.len(), gfIndex: -1}
	}

	var lbCounts []int
	var feed []int

	cur := wbCounts[0] / 2
	lbCounts = append(lbCounts, cur)
	feed = append(feed, -2) // round 0: direct pairing of WB round 0 losers

	for r := 1; r < len(wbCounts); r++ {
		lbCounts = append(lbCounts, cur)
		feed = append(feed, r)
		if cur > 1 {
			cur /= 2
			lbCounts = append(lbCounts, cur)
			feed = append(feed, -1)
		}
	}

	lb := newRoundTable(lbCounts)
	return deShape{
		wb:       wb,
		lb:       lb,
		lbFeedWB: feed,
		wbLen:    wb.len(),
		lbLen:    lb.len(),
		gfIndex:  wb.len() + lb.len(),
	}
}

func (DoubleElimination) Layout(entrants []bracket.EntrantRef, options bracket.Options) ([]bracket.Match, error) {
	size := bracketSize(len(entrants))
	matches := seedEntrants(entrants, size)

	shape := buildDEShape(size)
	for i := 0; i < shape.lbLen; i++ {
		matches = append(matches, bracket.Match{Entrants: [2]bracket.EntrantSpot{bracket.TBD(), bracket.TBD()}})
	}
	if shape.gfIndex >= 0 {
		matches = append(matches, bracket.Match{Entrants: [2]bracket.EntrantSpot{bracket.TBD(), bracket.TBD()}})
	}

	return matches, nil
}

// shapeFromLen reconstructs the deShape given only the total match
// count, by searching for the winners-bracket size whose wbLen+lbLen(+1
// for the grand final) matches len(matches).
func shapeFromLen(totalLen int) deShape {
	for size := 2; size <= 1<<20; size *= 2 {
		shape := buildDEShape(size)
		total := shape.wbLen + shape.lbLen
		if shape.gfIndex >= 0 {
			total++
		}
		if total == totalLen {
			return shape
		}
	}
	return buildDEShape(2)
}

func (DoubleElimination) Advance(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	shape := shapeFromLen(len(matches))
	i := int(index)

	var edits []bracket.Edit

	switch {
	case i < shape.wbLen:
		round, pos, ok := shape.wb.locate(i)
		if !ok {
			break
		}
		m := matches[i]

		if winner, ok := winnerRef(m); ok {
			if round+1 < len(shape.wb.counts) {
				nextIdx := shape.wb.flatIndex(round+1, pos/2)
				next := matches[nextIdx]
				next.Entrants[pos%2] = bracket.NewEntrant(winner)
				edits = append(edits, bracket.Edit{Index: uint64(nextIdx), Match: next})
			} else if shape.gfIndex >= 0 {
				gf := matches[shape.gfIndex]
				gf.Entrants[0] = bracket.NewEntrant(winner)
				edits = append(edits, bracket.Edit{Index: uint64(shape.gfIndex), Match: gf})
			}
		}

		if loser, ok := loserRef(m); ok && shape.lbLen > 0 {
			lbIdx, slot := shape.wbLoserTarget(round, pos)
			next := matches[shape.wbLen+lbIdx]
			next.Entrants[slot] = bracket.NewEntrant(loser)
			edits = append(edits, bracket.Edit{Index: uint64(shape.wbLen + lbIdx), Match: next})
		}

	case shape.lbLen > 0 && i < shape.wbLen+shape.lbLen:
		lbLocal := i - shape.wbLen
		round, pos, ok := shape.lb.locate(lbLocal)
		if !ok {
			break
		}
		winner, ok := winnerRef(matches[i])
		if !ok {
			break
		}

		if round+1 < len(shape.lb.counts) {
			nextRound := round + 1
			var nextPos, slot int
			if shape.lb.counts[nextRound] == shape.lb.counts[round] {
				nextPos, slot = pos, 0
			} else {
				nextPos, slot = pos/2, pos%2
			}
			nextIdx := shape.wb.len() + shape.lb.flatIndex(nextRound, nextPos)
			next := matches[nextIdx]
			next.Entrants[slot] = bracket.NewEntrant(winner)
			edits = append(edits, bracket.Edit{Index: uint64(nextIdx), Match: next})
		} else if shape.gfIndex >= 0 {
			gf := matches[shape.gfIndex]
			gf.Entrants[1] = bracket.NewEntrant(winner)
			edits = append(edits, bracket.Edit{Index: uint64(shape.gfIndex), Match: gf})
		}
	}

	return edits, nil
}

// wbLoserTarget returns the losers-bracket match index (local to the LB
// table) and slot that the loser of WB round/pos drops into.
func (shape deShape) wbLoserTarget(round, pos int) (lbIndex, slot int) {
	if round == 0 {
		return pos / 2, pos % 2
	}
	for k, r := range shape.lbFeedWB {
		if r == round {
			return shape.lb.flatIndex(k, pos), 1
		}
	}
	return 0, 0
}

func (DoubleElimination) Rewind(matches []bracket.Match, index uint64) ([]bracket.Edit, error) {
	shape := shapeFromLen(len(matches))
	i := int(index)
	var edits []bracket.Edit

	clearTarget := func(idx int, slot int) (bool, bracket.Match) {
		m := matches[idx]
		if m.Entrants[slot].Kind != bracket.SpotEntrant {
			return false, m
		}
		_, hadWinner := winnerRef(m)
		m.Entrants[slot] = bracket.TBD()
		m = clearScores(m)
		matches[idx] = m
		return hadWinner, m
	}

	switch {
	case i < shape.wbLen:
		round, pos, ok := shape.wb.locate(i)
		if !ok {
			break
		}

		if round+1 < len(shape.wb.counts) {
			nextIdx := shape.wb.flatIndex(round+1, pos/2)
			clearTarget(nextIdx, pos%2)
			edits = append(edits, bracket.Edit{Index: uint64(nextIdx), Match: matches[nextIdx]})
		} else if shape.gfIndex >= 0 {
			clearTarget(shape.gfIndex, 0)
			edits = append(edits, bracket.Edit{Index: uint64(shape.gfIndex), Match: matches[shape.gfIndex]})
		}

		if shape.lbLen > 0 {
			lbIdx, slot := shape.wbLoserTarget(round, pos)
			clearTarget(shape.wbLen+lbIdx, slot)
			edits = append(edits, bracket.Edit{Index: uint64(shape.wbLen + lbIdx), Match: matches[shape.wbLen+lbIdx]})
		}

	case shape.lbLen > 0 && i < shape.wbLen+shape.lbLen:
		lbLocal := i - shape.wbLen
		round, pos, ok := shape.lb.locate(lbLocal)
		if !ok {
			break
		}

		if round+1 < len(shape.lb.counts) {
			nextRound := round + 1
			var nextPos, slot int
			if shape.lb.counts[nextRound] == shape.lb.counts[round] {
				nextPos, slot = pos, 0
			} else {
				nextPos, slot = pos/2, pos%2
			}
			nextIdx := shape.wbLen + shape.lb.flatIndex(nextRound, nextPos)
			clearTarget(nextIdx, slot)
			edits = append(edits, bracket.Edit{Index: uint64(nextIdx), Match: matches[nextIdx]})
		} else if shape.gfIndex >= 0 {
			clearTarget(shape.gfIndex, 1)
			edits = append(edits, bracket.Edit{Index: uint64(shape.gfIndex), Match: matches[shape.gfIndex]})
		}
	}

	return edits, nil
}
