package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
)

// Cache memoizes Process results keyed by a content hash of the input
// and the pipeline configuration. The pipeline's functions stay pure;
// caching is an explicit wrapper applied at the call boundary, never a
// hidden global. Only successful results are cached.
type Cache struct {
	p *Pipeline

	mu      sync.Mutex
	entries map[[sha256.Size]byte]*Result
	hits    uint64
	misses  uint64
}

// NewCache wraps p with result memoization.
func NewCache(p *Pipeline) *Cache {
	return &Cache{p: p, entries: make(map[[sha256.Size]byte]*Result)}
}

func (c *Cache) key(input string) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(input))
	h.Write([]byte{0})
	cfg := c.p.Config()
	fmt.Fprintf(h, "label=%d;value=%d;canvas=%dx%d",
		cfg.Extract.LabelColumn, cfg.Extract.ValueColumn, cfg.CanvasWidth, cfg.CanvasHeight)
	for _, r := range cfg.Extract.Rules {
		fmt.Fprintf(h, ";rule=%s:%s:%d", r.Name, r.Pattern.String(), r.ValueGroup)
	}
	var key [sha256.Size]byte
	h.Sum(key[:0])
	return key
}

// Process returns the memoized result for input, computing it at most
// once per distinct input. Callers must treat the result as read-only.
func (c *Cache) Process(input string) (*Result, error) {
	key := c.key(input)

	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return res, nil
	}
	c.mu.Unlock()

	res, err := c.p.Process(input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.entries[key]; ok {
		// Lost a race with a concurrent compute; reuse the stored result.
		c.hits++
		return cached, nil
	}
	c.misses++
	c.entries[key] = res
	return res, nil
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
