package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML by key.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCacheStats counts lookups since the cache was built.
type ChartCacheStats struct {
	Hits    int
	Misses  int
	Entries int
}

// ChartCache keeps rendered charts for a fixed TTL. The datasets behind the
// charts are static, so entries only turn over when the chart spec changes
// (a language switch relabels the axes). A zero or negative TTL stores nothing.
type ChartCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]renderedChart
	hits    int
	misses  int
}

type renderedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]renderedChart),
	}
}

// GetOrRender returns the stored chart for key or renders and stores it.
// Render errors are not cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	now := c.now()
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && now.Before(entry.expires) {
		c.hits++
		c.mu.Unlock()
		return entry.html, nil
	}
	c.misses++
	c.mu.Unlock()

	html, err := render()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[key] = renderedChart{html: html, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return html, nil
}

// Purge drops expired entries and returns how many were removed.
func (c *ChartCache) Purge() int {
	if c == nil {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats reports hit and miss counts.
func (c *ChartCache) Stats() ChartCacheStats {
	if c == nil {
		return ChartCacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChartCacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// contentKey fingerprints a chart spec or schema document.
func contentKey(v any) string {
	if v == nil {
		return "empty"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
