package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/swoosh1337/chessmax-mobile-sub001/internal/domain"
)

// Repository is the Postgres-backed CompletionStore. It also maintains
// the aggregated trainer profile row per user.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a pooled connection and verifies it with a ping.
func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the trainer tables when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trainer_completions (
			user_id      TEXT NOT NULL,
			variation_id TEXT NOT NULL,
			mode         TEXT NOT NULL,
			errors       INT  NOT NULL DEFAULT 0,
			hints_used   INT  NOT NULL DEFAULT 0,
			time_seconds INT  NOT NULL DEFAULT 0,
			xp_earned    INT  NOT NULL DEFAULT 0,
			completed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, variation_id)
		)`,
		`CREATE TABLE IF NOT EXISTS trainer_profiles (
			user_id         TEXT PRIMARY KEY,
			xp_total        INT NOT NULL DEFAULT 0,
			completions     INT NOT NULL DEFAULT 0,
			perfect_runs    INT NOT NULL DEFAULT 0,
			last_opening    TEXT NOT NULL DEFAULT '',
			last_trained_at TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, q := range stmts {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveCompletion upserts the completion row and folds the run into the
// user's profile aggregates.
func (r *Repository) SaveCompletion(ctx context.Context, rec domain.CompletionRecord) error {
	if strings.TrimSpace(rec.UserID) == "" || strings.TrimSpace(rec.VariationID) == "" {
		return fmt.Errorf("store: completion needs user and variation ids")
	}
	completedAt := rec.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	q := `INSERT INTO trainer_completions (
	    user_id, variation_id, mode, errors, hints_used, time_seconds, xp_earned, completed_at
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	  ON CONFLICT (user_id, variation_id) DO UPDATE SET
	    mode=EXCLUDED.mode,
	    errors=EXCLUDED.errors,
	    hints_used=EXCLUDED.hints_used,
	    time_seconds=EXCLUDED.time_seconds,
	    xp_earned=EXCLUDED.xp_earned,
	    completed_at=EXCLUDED.completed_at`
	if _, err := r.db.ExecContext(ctx, q,
		rec.UserID, rec.VariationID, rec.Mode,
		rec.Errors, rec.HintsUsed, rec.TimeSeconds, rec.XPEarned, completedAt,
	); err != nil {
		return err
	}

	perfect := 0
	if rec.Mode == "drill" && rec.Errors == 0 {
		perfect = 1
	}
	openingID, _, _ := strings.Cut(rec.VariationID, "::")
	pq := `INSERT INTO trainer_profiles (
	    user_id, xp_total, completions, perfect_runs, last_opening, last_trained_at
	  ) VALUES ($1,$2,1,$3,$4,$5)
	  ON CONFLICT (user_id) DO UPDATE SET
	    xp_total=trainer_profiles.xp_total+EXCLUDED.xp_total,
	    completions=trainer_profiles.completions+1,
	    perfect_runs=trainer_profiles.perfect_runs+EXCLUDED.perfect_runs,
	    last_opening=EXCLUDED.last_opening,
	    last_trained_at=EXCLUDED.last_trained_at,
	    updated_at=now()`
	_, err := r.db.ExecContext(ctx, pq, rec.UserID, rec.XPEarned, perfect, openingID, completedAt)
	return err
}

// CompletedVariationIDs returns the ids of every variation the user has
// completed.
func (r *Repository) CompletedVariationIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT variation_id FROM trainer_completions WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Completion loads one completion row.
func (r *Repository) Completion(ctx context.Context, userID, variationID string) (*domain.CompletionRecord, error) {
	var rec domain.CompletionRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, variation_id, mode, errors, hints_used, time_seconds, xp_earned, completed_at
		   FROM trainer_completions WHERE user_id=$1 AND variation_id=$2`,
		userID, variationID,
	).Scan(&rec.UserID, &rec.VariationID, &rec.Mode,
		&rec.Errors, &rec.HintsUsed, &rec.TimeSeconds, &rec.XPEarned, &rec.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Profile loads the aggregated trainer profile for a user.
func (r *Repository) Profile(ctx context.Context, userID string) (*domain.TrainerProfile, error) {
	var p domain.TrainerProfile
	var lastTrained sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, xp_total, completions, perfect_runs, last_opening, last_trained_at, created_at, updated_at
		   FROM trainer_profiles WHERE user_id=$1`, userID,
	).Scan(&p.UserID, &p.XPTotal, &p.Completions, &p.PerfectRuns,
		&p.LastOpening, &lastTrained, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastTrained.Valid {
		p.LastTrainedAt = lastTrained.Time
	}
	return &p, nil
}
