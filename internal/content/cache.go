package content

import (
	"os"
	"sync"
	"time"
)

// Cache memoises file contents by path. An entry is reused only while the
// file's size and modification time are unchanged; the watcher calls
// Invalidate for writes that land within the same mtime tick.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	hits    int
	misses  int
}

type cacheEntry struct {
	data    []byte
	modTime time.Time
	size    int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Read returns the contents of path, from memory when still current.
func (c *Cache) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.Invalidate(path)
		return nil, err
	}

	c.mu.Lock()
	c.misses++
	c.entries[path] = cacheEntry{data: data, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()
	return data, nil
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit and miss counters since creation.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
