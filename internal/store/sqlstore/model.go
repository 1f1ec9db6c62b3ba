package sqlstore

// bracketRow is the durable row for one (tournament_id, bracket_id)
// pair. The matches/options/entrant-order payloads are stored as JSON
// blobs: the snapshot format is not wire-observable, so there is no
// reason to normalize it into match/entrant tables.
type bracketRow struct {
	TournamentID uint64 `db:"tournament_id"`
	BracketID    uint64 `db:"bracket_id"`
	SystemID     uint64 `db:"system_id"`
	OptionsJSON  []byte `db:"options_json"`
	EntrantsJSON []byte `db:"entrants_json"`
	MatchesJSON  []byte `db:"matches_json"`
}

// userRow is a static credential table row, loaded read-only at
// runtime.
type userRow struct {
	ID           uint64 `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// seedRow supplies the (system_id, entrants, options) a fresh bracket
// is laid out against the first time it is acquired.
type seedRow struct {
	TournamentID uint64 `db:"tournament_id"`
	BracketID    uint64 `db:"bracket_id"`
	SystemID     uint64 `db:"system_id"`
	EntrantsJSON []byte `db:"entrants_json"`
	OptionsJSON  []byte `db:"options_json"`
}
