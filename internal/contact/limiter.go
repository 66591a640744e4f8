package contact

import (
	"context"
	"sync"
	"time"
)

// Default limits: 3 submissions per client per minute.
const (
	DefaultWindow     = time.Minute
	DefaultMax        = 3
	DefaultMaxClients = 10000
)

// Limiter decides whether a client may submit now. Each allowed call
// counts against the client's current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window counter per client held in process
// memory. It tracks at most maxClients clients; stale windows are evicted
// first and, if none are stale, the oldest window goes.
type MemoryLimiter struct {
	mu         sync.Mutex
	window     time.Duration
	max        int
	maxClients int
	now        func() time.Time
	clients    map[string]*window
}

// NewMemoryLimiter returns a limiter allowing max submissions per window.
// Non-positive arguments fall back to the defaults.
func NewMemoryLimiter(win time.Duration, max, maxClients int) *MemoryLimiter {
	if win <= 0 {
		win = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &MemoryLimiter{
		window:     win,
		max:        max,
		maxClients: maxClients,
		now:        time.Now,
		clients:    make(map[string]*window),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) > l.window {
		if !ok && len(l.clients) >= l.maxClients {
			l.evict(now)
		}
		l.clients[key] = &window{start: now, count: 1}
		return true, nil
	}
	if w.count >= l.max {
		return false, nil
	}
	w.count++
	return true, nil
}

// evict drops expired windows, or the oldest one when none has expired.
func (l *MemoryLimiter) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	removed := false
	for k, w := range l.clients {
		if now.Sub(w.start) > l.window {
			delete(l.clients, k)
			removed = true
			continue
		}
		if oldestKey == "" || w.start.Before(oldest) {
			oldestKey, oldest = k, w.start
		}
	}
	if !removed && oldestKey != "" {
		delete(l.clients, oldestKey)
	}
}

// Len returns the number of tracked clients.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
