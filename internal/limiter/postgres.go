package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG is a PostgreSQL-backed limiter counting calls per provider per UTC day.
type PG struct {
	pool pgxQuerier
	now  func() time.Time
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPG constructs a PostgreSQL-backed limiter.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool, now: time.Now}
}

// NewPGWithQuerier constructs a limiter over any querier, with an injectable clock.
func NewPGWithQuerier(q pgxQuerier, now func() time.Time) *PG {
	if now == nil {
		now = time.Now
	}
	return &PG{pool: q, now: now}
}

func (l *PG) day() time.Time {
	y, m, d := l.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Allow reports whether used < limit for today. A non-positive limit means unlimited.
func (l *PG) Allow(ctx context.Context, provider string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	const q = `SELECT used FROM provider_usage WHERE provider=$1 AND day=$2`
	var used int
	err := l.pool.QueryRow(ctx, q, provider, l.day()).Scan(&used)
	switch {
	case err == nil:
		return used < limit, nil
	case errors.Is(err, pgx.ErrNoRows):
		return true, nil
	default:
		return false, err
	}
}

// Record increments today's counter for provider.
func (l *PG) Record(ctx context.Context, provider string) error {
	const q = `
INSERT INTO provider_usage (provider, day, used, updated_at)
VALUES ($1,$2,1,now())
ON CONFLICT (provider, day)
DO UPDATE SET used=provider_usage.used+1, updated_at=now()`
	_, err := l.pool.Exec(ctx, q, provider, l.day())
	return err
}
