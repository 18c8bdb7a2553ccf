package assets

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache is a TTL byte cache for document-rendering assets (logo,
// letterhead images). It replaces the old process-global asset map:
// construct one in main and pass it to whoever renders documents.
type Cache struct {
	dir     string
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, entries: make(map[string]*entry)}
}

// Get returns the asset bytes, reading from disk on miss or expiry.
func (c *Cache) Get(name string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()

	if ok && time.Now().Before(e.expiresAt) {
		return e.data, nil
	}

	data, err := os.ReadFile(filepath.Join(c.dir, filepath.Clean(name)))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = &entry{data: data, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return data, nil
}

// Invalidate drops one asset; call it after an admin uploads a new file.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}
