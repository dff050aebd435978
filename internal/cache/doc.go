// Package cache memoizes metric values per point pair.
//
// # Pair Cache
//
// PairCache stores one float64 per (point, point, metric) key. Entries are
// spread over power-of-two shards selected by the first point id, each shard
// guarded by its own RWMutex and padded to a cache line. Entries are never
// evicted; a Registry owns its caches and they live as long as it does.
//
// Put is insert-if-absent and returns the value that ends up stored, so
// concurrent writers of the same key all observe one value.
//
// # Alignment Cache
//
// AlignmentCache holds alignment identities under an order-independent key
// behind a single mutex.
//
// Both caches optionally account their entries against a
// resource.Controller. When the controller refuses a reservation the value
// is returned to the caller without being stored.
package cache
