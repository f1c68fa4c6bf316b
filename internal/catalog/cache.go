package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Cache memoizes detail and credit payloads for the lifetime of one
// enrichment run. It is created at batch start, owned by the orchestrator,
// and discarded at batch end; entries are never evicted. Writers racing on
// the same key may perform duplicate fetches (payloads for a key are
// identical, so last-writer-wins is fine), but the map itself is always
// consistent.
type Cache struct {
	mu      sync.Mutex
	details map[string]Detail
	credits map[string]Credits
}

// NewCache returns an empty per-run cache.
func NewCache() *Cache {
	return &Cache{
		details: make(map[string]Detail),
		credits: make(map[string]Credits),
	}
}

// Key builds the cache key for a catalog-local id in a given language.
func Key(catalogName, id, language string) string {
	return fmt.Sprintf("%s|%s|%s", catalogName, id, language)
}

// Details returns the cached detail payload for key, fetching it at most
// once per key from this goroutine's perspective.
func (c *Cache) Details(ctx context.Context, key string, fetch func(context.Context) (Detail, error)) (Detail, error) {
	c.mu.Lock()
	if detail, ok := c.details[key]; ok {
		c.mu.Unlock()
		return detail, nil
	}
	c.mu.Unlock()

	detail, err := fetch(ctx)
	if err != nil {
		return Detail{}, err
	}

	c.mu.Lock()
	c.details[key] = detail
	c.mu.Unlock()
	return detail, nil
}

// Credits is the credit-payload counterpart of Details.
func (c *Cache) Credits(ctx context.Context, key string, fetch func(context.Context) (Credits, error)) (Credits, error) {
	c.mu.Lock()
	if credits, ok := c.credits[key]; ok {
		c.mu.Unlock()
		return credits, nil
	}
	c.mu.Unlock()

	credits, err := fetch(ctx)
	if err != nil {
		return Credits{}, err
	}

	c.mu.Lock()
	c.credits[key] = credits
	c.mu.Unlock()
	return credits, nil
}
