package legendre

import (
	"sync"

	"github.com/san-kum/gaussiancl/internal/gcl"
)

// Cache memoises pairs by length. It is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	pairs map[int]*Pair
}

func NewCache() *Cache {
	return &Cache{pairs: make(map[int]*Pair)}
}

// Get returns the pair for n samples, building it on first use.
func (c *Cache) Get(n int) (gcl.Pair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pairs[n]; ok {
		return p, nil
	}
	p, err := New(n)
	if err != nil {
		return nil, err
	}
	c.pairs[n] = p
	return p, nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pairs)
}

// Factory adapts the cache to a gcl.PairFactory.
func (c *Cache) Factory() gcl.PairFactory {
	return c.Get
}

// Shared is the process-wide pair cache.
var Shared = NewCache()
