package api

import (
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rshade/carbonfocus/internal/engine"
)

// estimateCache memoises full estimates by normalised request. The factor
// table is fixed for the life of a server, so entries never go stale.
type estimateCache struct {
	entries *lru.Cache[string, engine.Estimate]
}

// newEstimateCache returns nil when size is not positive.
func newEstimateCache(size int) (*estimateCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[string, engine.Estimate](size)
	if err != nil {
		return nil, err
	}
	return &estimateCache{entries: entries}, nil
}

// cacheKey encodes a validated request. Map keys marshal in sorted order,
// so equal requests give equal keys.
func cacheKey(req engine.Request) (string, bool) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (c *estimateCache) get(key string) (engine.Estimate, bool) {
	if c == nil {
		return engine.Estimate{}, false
	}
	return c.entries.Get(key)
}

func (c *estimateCache) add(key string, est engine.Estimate) {
	if c == nil {
		return
	}
	c.entries.Add(key, est)
}

func (c *estimateCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
