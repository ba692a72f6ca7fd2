package detect

import (
	"sync"
)

// frameworkCache remembers the detected framework per collection.
// Catalog loads index documents concurrently, so access is locked.
type frameworkCache struct {
	mu    sync.RWMutex
	cache map[string]Framework
}

func newFrameworkCache() *frameworkCache {
	return &frameworkCache{cache: make(map[string]Framework)}
}

func (c *frameworkCache) get(key string) (Framework, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fw, ok := c.cache[key]
	return fw, ok
}

func (c *frameworkCache) set(key string, fw Framework) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = fw
}

func (c *frameworkCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]Framework)
}

func (c *frameworkCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
