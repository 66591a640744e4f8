package store

import (
	"context"
	"fmt"
	"time"
)

// HitWindow records one hit for client and returns the hit count in the
// client's current fixed window. A window older than length restarts at
// now with a count of 1. The read and the update happen in one statement,
// so concurrent processes sharing the file never lose a hit.
func (db *DB) HitWindow(ctx context.Context, client string, now time.Time, length time.Duration) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	ms := now.UnixMilli()
	var count int
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO rate_limits (client, window_start, count) VALUES (?, ?, 1)
		 ON CONFLICT(client) DO UPDATE SET
			count = CASE WHEN ? - rate_limits.window_start > ? THEN 1 ELSE rate_limits.count + 1 END,
			window_start = CASE WHEN ? - rate_limits.window_start > ? THEN excluded.window_start ELSE rate_limits.window_start END
		 RETURNING count`,
		client, ms, ms, length.Milliseconds(), ms, length.Milliseconds(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("record hit: %w", err)
	}
	return count, nil
}

// PruneWindows deletes windows that started before cutoff and returns how
// many were removed.
func (db *DB) PruneWindows(ctx context.Context, cutoff time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM rate_limits WHERE window_start < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune windows: %w", err)
	}
	return res.RowsAffected()
}

// WindowCount returns the number of tracked clients.
func (db *DB) WindowCount(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM rate_limits`).Scan(&n)
	return n, err
}
