package bracket

// Adapter is the SystemAdapter capability set of spec §4.3/§9: a
// bracket-shape plugin providing pure layout and advancement/rewind
// rules. New shapes register into a system registry keyed by SystemID
// (see internal/bracket/system.Registry); Adapter itself stays a plain
// interface so internal/bracket never imports a concrete shape.
type Adapter interface {
	// SystemID identifies this shape for persistence (spec §6.2's
	// system_id field).
	SystemID() uint64
	// Name is a human-readable label, e.g. "single_elimination".
	Name() string
	// OptionSchema describes the options this shape accepts, with
	// their default values.
	OptionSchema() OptionSchema

	// Layout is pure and called once at hydration if no persisted
	// state exists. Tie-breaks (which slot of the next round receives
	// a winner) must be deterministic given (entrants, options).
	Layout(entrants []EntrantRef, options Options) ([]Match, error)

	// Advance is a pure function of the current match list and the
	// index that was just updated with a uniquely-set winner. It
	// returns the cascaded edits to apply (e.g. the winner populating
	// the next round's slot); the caller applies them atomically
	// alongside the originating edit.
	Advance(matches []Match, index uint64) ([]Edit, error)

	// Rewind is the reverse of Advance: given the match being reset,
	// it returns edits clearing any downstream match whose input spot
	// was sourced from this match, propagating Tbd transitively.
	Rewind(matches []Match, index uint64) ([]Edit, error)
}
