package bracket

import "errors"

var (
	// ErrIndexOutOfRange is returned when a match index does not fall
	// within [0, len(matches)).
	ErrIndexOutOfRange = errors.New("bracket: match index out of range")
	// ErrProto is returned when an UpdateMatch call sets both nodes'
	// Winner flags (spec §9 Open Question (a): two-winner is rejected,
	// zero-winner is accepted as a score-only update).
	ErrProto = errors.New("bracket: both entrants cannot be winner")
)
