package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PG stores history entries in PostgreSQL.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG returns a store backed by the given connection pool.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// EnsureSchema creates the history table and index if they do not
// exist. Safe to call on every startup.
func (s *PG) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS operation_history (
    id         TEXT PRIMARY KEY,
    action     TEXT NOT NULL,
    source     TEXT NOT NULL DEFAULT '',
    records    INTEGER NOT NULL DEFAULT 0,
    outcome    TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS operation_history_created_at_idx
    ON operation_history (created_at DESC);`

	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

func (s *PG) Record(ctx context.Context, p Params) (Entry, error) {
	e := NewEntry(p)

	const q = `
INSERT INTO operation_history (id, action, source, records, outcome, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, q,
		e.ID, string(e.Action), e.Source, e.Records, string(e.Outcome), e.Detail, e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}
	return e, nil
}

func (s *PG) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	const q = `
SELECT id, action, source, records, outcome, detail, created_at
FROM operation_history
ORDER BY created_at DESC
LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var action, outcome string
		if err := rows.Scan(&e.ID, &action, &e.Source, &e.Records, &outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Action = Action(action)
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}
	return entries, nil
}

func (s *PG) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)

	tag, err := s.pool.Exec(ctx, `DELETE FROM operation_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	return tag.RowsAffected(), nil
}
