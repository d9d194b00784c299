// Package store archives matches and rounds to a local SQLite
// database. The engine never depends on it; it subscribes to the
// engine as an observer through Recorder.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// MatchRow is one archived match.
type MatchRow struct {
	ID            string     `json:"id"`
	BestOf        int        `json:"best_of"`
	TargetWins    int        `json:"target_wins"`
	Difficulty    string     `json:"difficulty"`
	HumanScore    int        `json:"human_score"`
	OpponentScore int        `json:"opponent_score"`
	Ties          int        `json:"ties"`
	Rounds        int        `json:"rounds"`
	Winner        string     `json:"winner"`
	StartedAt     time.Time  `json:"started_at"`
	ConcludedAt   *time.Time `json:"concluded_at,omitempty"`
}

// RoundRow is one archived round.
type RoundRow struct {
	ID       int64     `json:"id"`
	MatchID  string    `json:"match_id"`
	RecordID string    `json:"record_id"`
	PlayedAt time.Time `json:"played_at"`
	Human    string    `json:"human"`
	Opponent string    `json:"opponent"`
	Outcome  string    `json:"outcome"`
	Streak   int       `json:"streak"`
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// New opens/creates a SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			best_of INTEGER NOT NULL,
			target_wins INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			human_score INTEGER NOT NULL DEFAULT 0,
			opponent_score INTEGER NOT NULL DEFAULT 0,
			ties INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMP NOT NULL,
			concluded_at TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_matches_started ON matches(started_at DESC);`,

		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			record_id TEXT NOT NULL UNIQUE,
			played_at TIMESTAMP NOT NULL,
			human TEXT NOT NULL,
			opponent TEXT NOT NULL,
			outcome TEXT NOT NULL,
			streak INTEGER NOT NULL,
			FOREIGN KEY(match_id) REFERENCES matches(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_match ON rounds(match_id);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_played ON rounds(match_id, played_at);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// CreateMatch inserts a match row; re-inserting the same id is a no-op
// so late subscribers can replay the open match safely.
func (s *Store) CreateMatch(ctx context.Context, m MatchRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO matches (id, best_of, target_wins, difficulty, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.BestOf, m.TargetWins, m.Difficulty, m.StartedAt.UTC())
	return err
}

// AppendRound inserts one round and rolls the parent match's counters
// forward in the same transaction. Duplicate record ids are ignored
// without touching the counters.
func (s *Store) AppendRound(ctx context.Context, r RoundRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO rounds (match_id, record_id, played_at, human, opponent, outcome, streak)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.RecordID, r.PlayedAt.UTC(), r.Human, r.Opponent, r.Outcome, r.Streak)
	if err != nil {
		tx.Rollback()
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE matches SET
			rounds = rounds + 1,
			human_score = human_score + (CASE WHEN ? = 'Win' THEN 1 ELSE 0 END),
			opponent_score = opponent_score + (CASE WHEN ? = 'Lose' THEN 1 ELSE 0 END),
			ties = ties + (CASE WHEN ? = 'Tie' THEN 1 ELSE 0 END)
		 WHERE id = ?`,
		r.Outcome, r.Outcome, r.Outcome, r.MatchID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ConcludeMatch stamps the winner and conclusion time.
func (s *Store) ConcludeMatch(ctx context.Context, matchID, winner string, concludedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE matches SET winner = ?, concluded_at = ? WHERE id = ?`,
		winner, concludedAt.UTC(), matchID)
	return err
}

// GetMatch fetches one match row.
func (s *Store) GetMatch(ctx context.Context, id string) (MatchRow, error) {
	var m MatchRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, best_of, target_wins, difficulty, human_score, opponent_score,
		        ties, rounds, winner, started_at, concluded_at
		 FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &m.BestOf, &m.TargetWins, &m.Difficulty, &m.HumanScore,
			&m.OpponentScore, &m.Ties, &m.Rounds, &m.Winner, &m.StartedAt, &m.ConcludedAt)
	return m, err
}

// ListMatches returns archived matches, most recent first.
func (s *Store) ListMatches(ctx context.Context, limit, offset int) ([]MatchRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, best_of, target_wins, difficulty, human_score, opponent_score,
		        ties, rounds, winner, started_at, concluded_at
		 FROM matches ORDER BY started_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.BestOf, &m.TargetWins, &m.Difficulty, &m.HumanScore,
			&m.OpponentScore, &m.Ties, &m.Rounds, &m.Winner, &m.StartedAt, &m.ConcludedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListRounds returns the rounds of a match in play order.
func (s *Store) ListRounds(ctx context.Context, matchID string, limit, offset int) ([]RoundRow, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, match_id, record_id, played_at, human, opponent, outcome, streak
		 FROM rounds WHERE match_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`,
		matchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRow
	for rows.Next() {
		var r RoundRow
		if err := rows.Scan(&r.ID, &r.MatchID, &r.RecordID, &r.PlayedAt,
			&r.Human, &r.Opponent, &r.Outcome, &r.Streak); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
