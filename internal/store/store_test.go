package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenMemory(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	var name string
	err = db.Conn().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'rate_limits'`).Scan(&name)
	if err != nil {
		t.Fatalf("rate_limits table missing: %v", err)
	}
}

func TestHitWindow_CountsWithinWindow(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	start := time.Unix(1700000000, 0)
	for i := 1; i <= 4; i++ {
		n, err := db.HitWindow(ctx, "10.0.0.1", start.Add(time.Duration(i)*time.Second), time.Minute)
		if err != nil {
			t.Fatalf("HitWindow: %v", err)
		}
		if n != i {
			t.Fatalf("hit %d: count = %d", i, n)
		}
	}

	n, err := db.HitWindow(ctx, "10.0.0.2", start, time.Minute)
	if err != nil || n != 1 {
		t.Fatalf("other client: count = %d, err = %v", n, err)
	}
}

func TestHitWindow_RestartsAfterWindow(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	start := time.Unix(1700000000, 0)
	db.HitWindow(ctx, "c", start, time.Minute)
	db.HitWindow(ctx, "c", start.Add(10*time.Second), time.Minute)

	n, err := db.HitWindow(ctx, "c", start.Add(61*time.Second), time.Minute)
	if err != nil {
		t.Fatalf("HitWindow: %v", err)
	}
	if n != 1 {
		t.Fatalf("count after window = %d, want 1", n)
	}
	n, _ = db.HitWindow(ctx, "c", start.Add(62*time.Second), time.Minute)
	if n != 2 {
		t.Fatalf("count in new window = %d, want 2", n)
	}
}

func TestPruneWindows(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	start := time.Unix(1700000000, 0)
	db.HitWindow(ctx, "old", start, time.Minute)
	db.HitWindow(ctx, "new", start.Add(5*time.Minute), time.Minute)

	removed, err := db.PruneWindows(ctx, start.Add(4*time.Minute))
	if err != nil {
		t.Fatalf("PruneWindows: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if n, _ := db.WindowCount(ctx); n != 1 {
		t.Fatalf("remaining = %d, want 1", n)
	}
}

func TestOpenPath_SharedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "limits.db")
	a, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer a.Close()
	b, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now()
	a.HitWindow(ctx, "shared", now, time.Minute)
	n, err := b.HitWindow(ctx, "shared", now, time.Minute)
	if err != nil {
		t.Fatalf("HitWindow: %v", err)
	}
	if n != 2 {
		t.Fatalf("second handle saw count %d, want 2", n)
	}
}
