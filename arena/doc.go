// Package arena provides a bump allocator over a single fixed byte pool.
//
// # Allocation Model
//
// The arena hands out monotonically increasing, 4-byte-aligned ranges from
// one caller-supplied buffer. Individual allocations are never reclaimed;
// the only way to recover space is Reset, which rewinds the whole arena and
// invalidates every slice previously returned. This trades reclamation for
// O(1) allocation and zero fragmentation bookkeeping, which is acceptable
// because the host has no long-running dynamic workload.
//
// # Concurrency Model
//
// Arena is NOT safe for concurrent use. Callers hosting it in a
// multi-threaded environment must serialize Alloc and Reset behind one
// mutex guarding the whole arena.
package arena
