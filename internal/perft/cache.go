package perft

import (
	"sync"

	"github.com/hailam/chesscore/internal/board"
)

type cacheKey struct {
	hash  uint64
	depth int
}

// Cache remembers subtree counts by Zobrist key and remaining depth. It is
// safe for concurrent use. A cache must only be shared between runs that use
// the same promotion mode.
type Cache struct {
	entries map[cacheKey]uint64
	mu      sync.RWMutex
	maxSize int
	hits    uint64
	misses  uint64
}

// NewCache creates a cache holding at most size entries.
func NewCache(size int) *Cache {
	return &Cache{
		entries: make(map[cacheKey]uint64, size),
		maxSize: size,
	}
}

// Probe returns the stored count for the position at the given depth.
func (c *Cache) Probe(hash uint64, depth int) (uint64, bool) {
	c.mu.RLock()
	nodes, ok := c.entries[cacheKey{hash, depth}]
	c.mu.RUnlock()

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return nodes, ok
}

// Store records a count.
func (c *Cache) Store(hash uint64, depth int, nodes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		// Simple eviction: clear half the cache, at least one entry
		evict := max(c.maxSize/2, 1)
		i := 0
		for k := range c.entries {
			if i >= evict {
				break
			}
			delete(c.entries, k)
			i++
		}
	}
	c.entries[cacheKey{hash, depth}] = nodes
}

// HitRate returns the cache hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total) * 100
}

// Len returns the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear empties the cache and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]uint64, c.maxSize)
	c.hits = 0
	c.misses = 0
}

// countCached is CountUnmake backed by c. Leaf parents are not cached since
// generating their moves is cheaper than hashing.
func countCached(b *board.Board, gen *board.MoveGenerator, c *Cache, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	if depth == 1 {
		return uint64(len(gen.GenerateMoves(b, true)))
	}

	hash := b.ZobristKey()
	if nodes, ok := c.Probe(hash, depth); ok {
		return nodes
	}

	moves := gen.GenerateMoves(b, true)
	var nodes uint64
	for _, m := range moves {
		b.MakeMove(m, true)
		nodes += countCached(b, gen, c, depth-1)
		b.UnmakeMove(m)
	}

	c.Store(hash, depth, nodes)
	return nodes
}
