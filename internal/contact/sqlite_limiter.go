package contact

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sgx-labs/folio/internal/store"
)

// pruneEvery is how many Allow calls pass between stale-window sweeps.
const pruneEvery = 100

// SQLiteLimiter is a fixed-window limiter whose counters live in a SQLite
// file, so every process pointed at the same file enforces one shared
// limit and counters survive restarts.
type SQLiteLimiter struct {
	db     *store.DB
	window time.Duration
	max    int
	now    func() time.Time
	calls  atomic.Int64
}

// NewSQLiteLimiter returns a limiter over db. Non-positive arguments fall
// back to the defaults.
func NewSQLiteLimiter(db *store.DB, win time.Duration, max int) *SQLiteLimiter {
	if win <= 0 {
		win = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &SQLiteLimiter{db: db, window: win, max: max, now: time.Now}
}

// Allow implements Limiter.
func (l *SQLiteLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	if l.calls.Add(1)%pruneEvery == 0 {
		if _, err := l.db.PruneWindows(ctx, now.Add(-l.window)); err != nil {
			return false, err
		}
	}
	n, err := l.db.HitWindow(ctx, key, now, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.max, nil
}
