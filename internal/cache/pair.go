package cache

import (
	"math/bits"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/kmersim/resource"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 64

// EntryBytes is the approximate memory accounted per cached value.
const EntryBytes = 48

// Key identifies one memoized metric value.
type Key struct {
	A, B   uint64
	Metric uint8 // bit position of the metric id
}

// PairKey builds the key for (a, b). Symmetric metrics share one entry for
// both argument orders.
func PairKey(a, b uint64, bit int, symmetric bool) Key {
	if symmetric && a > b {
		a, b = b, a
	}
	return Key{A: a, B: b, Metric: uint8(bit)}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
	// Rejected counts values not stored because memory was refused.
	Rejected int64
}

type pairShard struct {
	mu sync.RWMutex
	m  map[Key]float64
	_  cpu.CacheLinePad
}

// PairCache is a sharded, grow-only memoization table.
type PairCache struct {
	shards []pairShard
	mask   uint64
	rc     *resource.Controller

	hits     atomic.Int64
	misses   atomic.Int64
	entries  atomic.Int64
	rejected atomic.Int64
}

// NewPairCache creates a cache with n shards, rounded up to a power of two.
// If rc is non-nil, every entry is accounted against its memory limit.
func NewPairCache(n int, rc *resource.Controller) *PairCache {
	if n <= 0 {
		n = DefaultShards
	}
	n = 1 << bits.Len(uint(n-1))

	c := &PairCache{
		shards: make([]pairShard, n),
		mask:   uint64(n - 1),
		rc:     rc,
	}
	for i := range c.shards {
		c.shards[i].m = make(map[Key]float64)
	}
	return c
}

// shard selects by the first point id modulo the shard count.
func (c *PairCache) shard(k Key) *pairShard {
	return &c.shards[k.A&c.mask]
}

// Get returns a cached value.
func (c *PairCache) Get(k Key) (float64, bool) {
	s := c.shard(k)
	s.mu.RLock()
	v, ok := s.m[k]
	s.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores v unless k is already present, and returns the stored value.
func (c *PairCache) Put(k Key, v float64) float64 {
	s := c.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.m[k]; ok {
		return old
	}
	if !c.rc.TryAcquireMemory(EntryBytes) {
		c.rejected.Add(1)
		return v
	}
	s.m[k] = v
	c.entries.Add(1)
	return v
}

// Len returns the number of cached entries.
func (c *PairCache) Len() int {
	return int(c.entries.Load())
}

// Shards returns the shard count.
func (c *PairCache) Shards() int {
	return len(c.shards)
}

// Stats returns the cache counters.
func (c *PairCache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Entries:  c.entries.Load(),
		Rejected: c.rejected.Load(),
	}
}

// Release drops every entry and returns the accounted memory.
func (c *PairCache) Release() {
	var n int64
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += int64(len(s.m))
		s.m = make(map[Key]float64)
		s.mu.Unlock()
	}
	c.entries.Add(-n)
	c.rc.ReleaseMemory(n * EntryBytes)
}
