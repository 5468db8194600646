// Package mmap provides anonymous read-write memory mappings.
//
// A disk region obtained here lives outside the Go heap, so a multi-megabyte
// backing region neither moves nor adds garbage collector scan work. The
// mapping is private and zero-filled by the kernel, which satisfies the
// pre-zeroed-region requirement of the filesystem without an explicit clear.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic. Callers must ensure no
// goroutine touches Bytes() after Close returns.
package mmap
