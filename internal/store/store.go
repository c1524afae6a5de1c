// Package store keeps finished matches in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no match has the requested id.
var ErrNotFound = errors.New("match not found")

// MatchRecord is one finished match. History is only filled by GetMatch.
type MatchRecord struct {
	ID           string          `json:"id"`
	PlayerName   string          `json:"player_name"`
	OpponentName string          `json:"opponent_name"`
	Opponent     string          `json:"opponent"` // AI difficulty or "human"
	Winner       int             `json:"winner"`   // -1 for a draw
	Result       string          `json:"result"`
	Turns        int             `json:"turns"`
	StartedAt    time.Time       `json:"started_at"`
	EndedAt      time.Time       `json:"ended_at"`
	Stats        log.MatchStats  `json:"stats"`
	History      []log.GameEvent `json:"history,omitempty"`
}

// RecordFromState builds a record from a finished match.
func RecordFromState(gs *game.GameState, opponent string) MatchRecord {
	return MatchRecord{
		ID:           gs.ID,
		PlayerName:   gs.Players[game.SidePlayer].Name,
		OpponentName: gs.Players[game.SideOpponent].Name,
		Opponent:     opponent,
		Winner:       int(gs.Winner),
		Result:       gs.Result,
		Turns:        gs.Turn,
		StartedAt:    gs.StartedAt,
		EndedAt:      gs.EndedAt,
		Stats:        log.Summarize(gs.History),
		History:      gs.History,
	}
}

// Store is a SQLite-backed match history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private in-process database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a second pooled connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			player_name TEXT NOT NULL,
			opponent_name TEXT NOT NULL,
			opponent TEXT NOT NULL DEFAULT '',
			winner INTEGER NOT NULL,
			result TEXT NOT NULL,
			turns INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			stats TEXT NOT NULL,
			history TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_ended_at ON matches(ended_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveMatch inserts a record, assigning an id when it has none. Saving an
// id twice replaces the earlier record.
func (s *Store) SaveMatch(ctx context.Context, rec *MatchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}
	stats, err := json.Marshal(rec.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	history, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO matches (
		id, player_name, opponent_name, opponent, winner, result, turns,
		started_at, ended_at, stats, history
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PlayerName, rec.OpponentName, rec.Opponent, rec.Winner, rec.Result, rec.Turns,
		rec.StartedAt.UTC().UnixMilli(), rec.EndedAt.UTC().UnixMilli(), string(stats), string(history),
	)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

const summaryColumns = `id, player_name, opponent_name, opponent, winner, result, turns, started_at, ended_at, stats`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (MatchRecord, error) {
	var rec MatchRecord
	var started, ended int64
	var stats string
	dest := append([]any{
		&rec.ID, &rec.PlayerName, &rec.OpponentName, &rec.Opponent, &rec.Winner, &rec.Result, &rec.Turns,
		&started, &ended, &stats,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return rec, err
	}
	rec.StartedAt = time.UnixMilli(started).UTC()
	rec.EndedAt = time.UnixMilli(ended).UTC()
	if err := json.Unmarshal([]byte(stats), &rec.Stats); err != nil {
		return rec, fmt.Errorf("decode stats: %w", err)
	}
	return rec, nil
}

// ListMatches returns up to limit records, most recently finished first,
// without their history.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM matches ORDER BY ended_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	out := []MatchRecord{}
	for rows.Next() {
		rec, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetMatch returns one record with its full history.
func (s *Store) GetMatch(ctx context.Context, id string) (*MatchRecord, error) {
	var history string
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, history FROM matches WHERE id = ?`, id)
	rec, err := scanSummary(row, &history)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(history), &rec.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &rec, nil
}

// Record saves a finished match, logging instead of failing. It fits the
// end-of-match hooks of the session drivers.
func (s *Store) Record(gs *game.GameState, opponent string) {
	rec := RecordFromState(gs, opponent)
	if err := s.SaveMatch(context.Background(), &rec); err != nil {
		stdlog.Printf("warning: could not record match %s: %v", gs.ID, err)
	}
}

// Recorder returns Record bound to an opponent label.
func (s *Store) Recorder(opponent string) func(*game.GameState) {
	return func(gs *game.GameState) { s.Record(gs, opponent) }
}
