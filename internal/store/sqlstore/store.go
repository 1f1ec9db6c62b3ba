// Package sqlstore is the SQLite-backed implementation of
// internal/store.Store, built on jmoiron/sqlx and mattn/go-sqlite3.
//
// Grounded on internal/db.InitDB (sqlx.Connect against the sqlite3
// driver, PRAGMA foreign_keys pragma issued right after connect) and
// internal/store's *_store.go pair (NamedExecContext for writes,
// GetContext/SelectContext for reads, one *sqlx.DB field per store).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dynamic-tournament/live-bracket/internal/bracket"
	"github.com/dynamic-tournament/live-bracket/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS live_brackets (
	tournament_id INTEGER NOT NULL,
	bracket_id    INTEGER NOT NULL,
	system_id     INTEGER NOT NULL,
	options_json  BLOB,
	entrants_json BLOB,
	matches_json  BLOB,
	PRIMARY KEY (tournament_id, bracket_id)
);

CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bracket_seeds (
	tournament_id INTEGER NOT NULL,
	bracket_id    INTEGER NOT NULL,
	system_id     INTEGER NOT NULL,
	entrants_json BLOB,
	options_json  BLOB,
	PRIMARY KEY (tournament_id, bracket_id)
);
`

// Store is a store.Store backed by SQLite via sqlx.
type Store struct {
	db *sqlx.DB
}

// Open connects to dsn (a go-sqlite3 data source, e.g.
// "live_bracket.db?_journal_mode=WAL") and creates the tables this
// package owns if they don't already exist.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: connect: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("sqlstore: enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlstore: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) LoadBracket(ctx context.Context, key store.BracketKey) (store.BracketRecord, error) {
	var row bracketRow
	err := s.db.GetContext(ctx, &row,
		"SELECT tournament_id, bracket_id, system_id, options_json, entrants_json, matches_json FROM live_brackets WHERE tournament_id = ? AND bracket_id = ?",
		key.TournamentID, key.BracketID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.BracketRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.BracketRecord{}, err
	}
	return rowToRecord(row)
}

func (s *Store) SaveBracketState(ctx context.Context, key store.BracketKey, record store.BracketRecord) error {
	row, err := recordToRow(key, record)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO live_brackets (tournament_id, bracket_id, system_id, options_json, entrants_json, matches_json)
		VALUES (:tournament_id, :bracket_id, :system_id, :options_json, :entrants_json, :matches_json)
		ON CONFLICT (tournament_id, bracket_id) DO UPDATE SET
			system_id = excluded.system_id,
			options_json = excluded.options_json,
			entrants_json = excluded.entrants_json,
			matches_json = excluded.matches_json
	`, row)
	return err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, "SELECT id, username, password_hash FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, err
	}
	return store.User{ID: row.ID, Username: row.Username, PasswordHash: row.PasswordHash}, nil
}

// EntrantsFor reads the seed row for key, satisfying internal/live's
// entrantSource collaborator interface so a fresh bracket can be laid
// out on first acquire. Populated by the tournament/entrant management
// system (out of scope here) before a bracket's first Acquire.
func (s *Store) EntrantsFor(ctx context.Context, key store.BracketKey) (uint64, []bracket.EntrantRef, bracket.Options, error) {
	var row seedRow
	err := s.db.GetContext(ctx, &row,
		"SELECT tournament_id, bracket_id, system_id, entrants_json, options_json FROM bracket_seeds WHERE tournament_id = ? AND bracket_id = ?",
		key.TournamentID, key.BracketID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, nil, store.ErrNotFound
	}
	if err != nil {
		return 0, nil, nil, err
	}

	var entrants []bracket.EntrantRef
	if len(row.EntrantsJSON) > 0 {
		if err := json.Unmarshal(row.EntrantsJSON, &entrants); err != nil {
			return 0, nil, nil, err
		}
	}
	var opts bracket.Options
	if len(row.OptionsJSON) > 0 {
		if err := json.Unmarshal(row.OptionsJSON, &opts); err != nil {
			return 0, nil, nil, err
		}
	}
	return row.SystemID, entrants, opts, nil
}

func rowToRecord(row bracketRow) (store.BracketRecord, error) {
	var opts bracket.Options
	if len(row.OptionsJSON) > 0 {
		if err := json.Unmarshal(row.OptionsJSON, &opts); err != nil {
			return store.BracketRecord{}, err
		}
	}
	var entrants []bracket.EntrantRef
	if len(row.EntrantsJSON) > 0 {
		if err := json.Unmarshal(row.EntrantsJSON, &entrants); err != nil {
			return store.BracketRecord{}, err
		}
	}
	var matches []bracket.Match
	if len(row.MatchesJSON) > 0 {
		if err := json.Unmarshal(row.MatchesJSON, &matches); err != nil {
			return store.BracketRecord{}, err
		}
	}
	return store.BracketRecord{
		SystemID:     row.SystemID,
		Options:      opts,
		EntrantOrder: entrants,
		Matches:      matches,
	}, nil
}

func recordToRow(key store.BracketKey, record store.BracketRecord) (bracketRow, error) {
	optsJSON, err := json.Marshal(record.Options)
	if err != nil {
		return bracketRow{}, err
	}
	entrantsJSON, err := json.Marshal(record.EntrantOrder)
	if err != nil {
		return bracketRow{}, err
	}
	matchesJSON, err := json.Marshal(record.Matches)
	if err != nil {
		return bracketRow{}, err
	}
	return bracketRow{
		TournamentID: key.TournamentID,
		BracketID:    key.BracketID,
		SystemID:     record.SystemID,
		OptionsJSON:  optsJSON,
		EntrantsJSON: entrantsJSON,
		MatchesJSON:  matchesJSON,
	}, nil
}
