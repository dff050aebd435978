package cache

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/kmersim/resource"
)

type alignKey struct {
	lo, hi uint64
}

func canonical(a, b uint64) alignKey {
	if a > b {
		a, b = b, a
	}
	return alignKey{lo: a, hi: b}
}

// AlignmentCache memoizes alignment identities under an order-independent key.
type AlignmentCache struct {
	mu sync.Mutex
	m  map[alignKey]float64
	rc *resource.Controller

	hits     atomic.Int64
	misses   atomic.Int64
	rejected atomic.Int64
}

// NewAlignmentCache creates an empty alignment cache.
func NewAlignmentCache(rc *resource.Controller) *AlignmentCache {
	return &AlignmentCache{
		m:  make(map[alignKey]float64),
		rc: rc,
	}
}

// Get returns the identity cached for {a, b}.
func (c *AlignmentCache) Get(a, b uint64) (float64, bool) {
	c.mu.Lock()
	v, ok := c.m[canonical(a, b)]
	c.mu.Unlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores v for {a, b} unless present, and returns the stored value.
func (c *AlignmentCache) Put(a, b uint64, v float64) float64 {
	k := canonical(a, b)

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.m[k]; ok {
		return old
	}
	if !c.rc.TryAcquireMemory(EntryBytes) {
		c.rejected.Add(1)
		return v
	}
	c.m[k] = v
	return v
}

// Len returns the number of cached entries.
func (c *AlignmentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Stats returns the cache counters.
func (c *AlignmentCache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Entries:  int64(c.Len()),
		Rejected: c.rejected.Load(),
	}
}

// Release drops every entry and returns the accounted memory.
func (c *AlignmentCache) Release() {
	c.mu.Lock()
	n := int64(len(c.m))
	c.m = make(map[alignKey]float64)
	c.mu.Unlock()

	c.rc.ReleaseMemory(n * EntryBytes)
}
