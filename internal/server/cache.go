package server

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// PageCache holds fully rendered documents for plain HTTP requests. It
// implements router.RenderCache. Cost is the document size in bytes.
type PageCache struct {
	c   *ristretto.Cache[string, []byte]
	ttl time.Duration
}

// NewPageCache creates a cache bounded to maxCostBytes whose entries expire
// after ttl. A zero ttl keeps entries until evicted or cleared.
func NewPageCache(maxCostBytes int64, ttl time.Duration) (*PageCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &PageCache{c: c, ttl: ttl}, nil
}

// Get returns the cached document for key.
func (p *PageCache) Get(key string) ([]byte, bool) {
	return p.c.Get(key)
}

// Set stores page under key. Admission is best effort.
func (p *PageCache) Set(key string, page []byte) {
	p.c.SetWithTTL(key, page, int64(len(page)), p.ttl)
}

// Clear drops every entry.
func (p *PageCache) Clear() {
	p.c.Clear()
}

// Wait blocks until buffered writes are applied.
func (p *PageCache) Wait() {
	p.c.Wait()
}

// Close stops the cache's background goroutines.
func (p *PageCache) Close() {
	p.c.Close()
}
