// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/memomu/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for high scores and finished sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS high_scores (
			mode TEXT NOT NULL,
			position INTEGER NOT NULL,
			score INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (mode, position)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			opponent_score INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS round_results (
			session_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			points INTEGER NOT NULL,
			opponent_points INTEGER NOT NULL,
			perfect INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			found INTEGER NOT NULL,
			target_count INTEGER NOT NULL,
			time_used_ms INTEGER NOT NULL,
			PRIMARY KEY (session_id, round)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_mode_ended_at ON sessions(mode, ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadHighScores returns every stored list ordered by position.
func (s *Store) LoadHighScores(ctx context.Context) (model.HighScores, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mode, score, recorded_at FROM high_scores ORDER BY mode, position`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	scores := model.HighScores{}
	for rows.Next() {
		var mode string
		var entry model.HighScoreEntry
		if err := rows.Scan(&mode, &entry.Score, &entry.Timestamp); err != nil {
			return nil, err
		}
		scores[model.Mode(mode)] = append(scores[model.Mode(mode)], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// SaveHighScores replaces the stored lists with scores.
func (s *Store) SaveHighScores(ctx context.Context, scores model.HighScores) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM high_scores`); err != nil {
		return err
	}
	for mode, list := range scores {
		for i, entry := range list {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO high_scores (mode, position, score, recorded_at) VALUES (?, ?, ?, ?)`,
				string(mode), i, entry.Score, entry.Timestamp,
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// SaveSession stores a finished session and its round results.
func (s *Store) SaveSession(ctx context.Context, rec model.SessionRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, mode, started_at, ended_at, score, opponent_score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Mode),
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Score,
		rec.OpponentScore,
	); err != nil {
		return fmt.Errorf("insert session %s: %w", rec.ID, err)
	}

	if len(rec.Rounds) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO round_results (session_id, round, points, opponent_points, perfect, outcome, found, target_count, time_used_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range rec.Rounds {
			if _, err = stmt.ExecContext(ctx, rec.ID, r.RoundNumber, r.Points, r.OpponentPoints,
				boolInt(r.Perfect), string(r.Outcome), r.Found, r.TargetCount, r.TimeUsed.Milliseconds()); err != nil {
				return fmt.Errorf("insert round %d: %w", r.RoundNumber, err)
			}
		}
	}

	return tx.Commit()
}

// Filter narrows session queries.
type Filter struct {
	Mode  model.Mode
	Since *time.Time
}

func (f Filter) where() (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Mode != "" {
		clauses = append(clauses, "s.mode = ?")
		args = append(args, string(f.Mode))
	}
	if f.Since != nil {
		clauses = append(clauses, "s.ended_at >= ?")
		args = append(args, f.Since.Format(time.RFC3339Nano))
	}
	return strings.Join(clauses, " AND "), args
}

// ListSessions returns sessions matching f, oldest first, without rounds.
func (s *Store) ListSessions(ctx context.Context, f Filter) ([]model.SessionRecord, error) {
	where, args := f.where()
	query := fmt.Sprintf(`SELECT s.id, s.mode, s.started_at, s.ended_at, s.score, s.opponent_score
		FROM sessions s
		WHERE %s
		ORDER BY s.ended_at ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var mode, startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &mode, &startedAt, &endedAt, &rec.Score, &rec.OpponentScore); err != nil {
			return nil, err
		}
		rec.Mode = model.Mode(mode)
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListRounds returns the round results of one session in round order.
func (s *Store) ListRounds(ctx context.Context, sessionID string) ([]model.RoundResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round, points, opponent_points, perfect, outcome, found, target_count, time_used_ms
		FROM round_results
		WHERE session_id = ?
		ORDER BY round ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RoundResult
	for rows.Next() {
		var r model.RoundResult
		var perfect int
		var outcome string
		var usedMs int64
		if err := rows.Scan(&r.RoundNumber, &r.Points, &r.OpponentPoints, &perfect, &outcome, &r.Found, &r.TargetCount, &usedMs); err != nil {
			return nil, err
		}
		r.Perfect = perfect != 0
		r.Outcome = model.Outcome(outcome)
		r.TimeUsed = time.Duration(usedMs) * time.Millisecond
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Summaries aggregates sessions matching f per mode, in menu order.
// Modes without sessions are omitted.
func (s *Store) Summaries(ctx context.Context, f Filter) ([]model.ModeSummary, error) {
	sessions, err := s.ListSessions(ctx, f)
	if err != nil {
		return nil, err
	}
	byMode := map[model.Mode]*model.ModeSummary{}
	for _, rec := range sessions {
		sum, ok := byMode[rec.Mode]
		if !ok {
			sum = &model.ModeSummary{Mode: rec.Mode}
			byMode[rec.Mode] = sum
		}
		sum.Games++
		sum.TotalScore += rec.Score
		if rec.Score > sum.Best || sum.Games == 1 {
			sum.Best = rec.Score
		}
		sum.Scores = append(sum.Scores, rec.Score)
	}

	where, args := f.where()
	query := fmt.Sprintf(`SELECT s.mode, COUNT(r.round), COALESCE(SUM(r.perfect), 0)
		FROM round_results r
		JOIN sessions s ON s.id = r.session_id
		WHERE %s
		GROUP BY s.mode`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var mode string
		var rounds, perfect int
		if err := rows.Scan(&mode, &rounds, &perfect); err != nil {
			return nil, err
		}
		if sum, ok := byMode[model.Mode(mode)]; ok {
			sum.Rounds = rounds
			sum.PerfectRounds = perfect
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []model.ModeSummary
	for _, m := range model.AllModes {
		if sum, ok := byMode[m]; ok {
			out = append(out, *sum)
		}
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
