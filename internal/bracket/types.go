// Package bracket holds the authoritative in-memory state for one
// bracket: matches of two entrant spots with score + winner flags, and
// the pure operations (snapshot, update, reset) that mutate that state
// under a SystemAdapter's advancement rules.
package bracket

// EntrantRef is an opaque entrant identifier. The live core never
// interprets it beyond equality and array-index use; resolving it
// against a tournament's entrant list is a REST-layer concern.
type EntrantRef uint64

// EntrantScore is the mutable payload of a playable spot.
//
// Invariant: in a two-node Match, at most one spot's EntrantScore has
// Winner set (enforced by State.Update; see spec §4.3's Open Question
// resolution — two winners is rejected, zero winners is accepted as a
// score-only update).
type EntrantScore struct {
	Score  uint64
	Winner bool
}

// SpotKind discriminates the tagged sum stored in an EntrantSpot.
type SpotKind uint8

const (
	// SpotEmpty is a bye: terminal, never wins, never advances an
	// opponent as a winner.
	SpotEmpty SpotKind = 0
	// SpotTBD is a placeholder fed by an upstream match; not playable.
	SpotTBD SpotKind = 1
	// SpotEntrant is a playable spot referencing an entrant.
	SpotEntrant SpotKind = 2
)

// EntrantSpot is one of Empty, Tbd, or Entrant(index, score).
type EntrantSpot struct {
	Kind  SpotKind
	Index EntrantRef   // meaningful only when Kind == SpotEntrant
	Data  EntrantScore // meaningful only when Kind == SpotEntrant
}

// Empty returns an Empty (bye) spot.
func Empty() EntrantSpot { return EntrantSpot{Kind: SpotEmpty} }

// TBD returns a Tbd placeholder spot.
func TBD() EntrantSpot { return EntrantSpot{Kind: SpotTBD} }

// NewEntrant returns a playable spot for the given entrant with a zero
// score and no winner.
func NewEntrant(ref EntrantRef) EntrantSpot {
	return EntrantSpot{Kind: SpotEntrant, Index: ref}
}

// Match is a pairing of two EntrantSpots. The order of the two
// positions is stable for the lifetime of the bracket.
type Match struct {
	Entrants [2]EntrantSpot
}

// Clone returns a deep copy of m (Match and EntrantSpot are value types,
// so this is just a value copy, but Clone documents the intent at call
// sites that care about aliasing).
func (m Match) Clone() Match { return m }

// Edit describes one match whose content changed as a result of an
// Update or Reset call: either the originating match, or a cascaded
// match the SystemAdapter's Advance/Rewind rule touched.
type Edit struct {
	Index uint64
	Match Match
}
