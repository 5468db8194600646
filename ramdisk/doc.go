// Package ramdisk implements a flat, in-memory filesystem over a single
// fixed-size byte region.
//
// # Layout
//
// The region is carved, in order, into four sub-ranges:
//
//	superblock       512 bytes, little-endian fixed fields
//	allocation table one byte per block, 0 = free / 1 = used
//	directory table  64 records of 60 bytes each
//	data pool        total_blocks * 1024 bytes, block-indexed
//
// The field set and ordering are load-bearing: they match the on-memory
// format of the original ATOMICFS ramdisk, so a region written by one
// implementation is readable by the other.
//
// # Model
//
// There is no directory hierarchy: files are flat records keyed by name.
// Creating over an existing name replaces the file; this is defined
// behavior, not an error. Files occupy a contiguous run of blocks found
// first-fit, so deletion can fragment the pool and a create may fail with
// ErrOutOfSpace even when enough scattered free blocks exist. There is no
// compaction.
//
// # Concurrency Model
//
// Volume is single-threaded by contract and holds no locks: operations are
// scan-then-commit sequences that assume no concurrent writer. Hosts with
// multiple goroutines must serialize every call behind one mutex (the
// flatfs.Disk facade does exactly that).
package ramdisk
