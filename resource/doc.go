// Package resource implements a Controller for limits shared between
// registries.
//
//	┌───────────────────────────────────────────────────────────┐
//	│                        Controller                         │
//	├──────────────────┬──────────────────┬─────────────────────┤
//	│  Cache memory    │  Workers (sem)   │  Alignment limiter  │
//	│  TryAcquire...   │  AcquireWorker   │  AcquireAlignment   │
//	│  ReleaseMemory   │  ReleaseWorker   │                     │
//	└──────────────────┴──────────────────┴─────────────────────┘
//
// Memory is tracked with an atomic counter and, when a limit is set, a
// weighted semaphore. Admission never blocks: a value that does not fit is
// returned to the caller but not memoized, and cached entries only give their
// memory back on Clear or Close.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	    MaxWorkers:       8,
//	    AlignmentsPerSec: 500,
//	})
//
// All methods are safe for concurrent use, and all methods of a nil
// *Controller are no-ops.
package resource
