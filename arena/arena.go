package arena

import (
	"errors"
	"fmt"
)

// Alignment is the byte alignment of every returned allocation.
const Alignment = 4

var (
	// ErrArenaFull is returned when an allocation would exceed the pool.
	ErrArenaFull = errors.New("arena is full")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("arena: invalid allocation size")
)

// ErrOutOfBounds indicates a Get outside the allocated prefix of the pool.
type ErrOutOfBounds struct {
	Offset int
	Size   int
	Used   int
}

func (e *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("arena: range [%d, %d) outside allocated prefix of %d bytes", e.Offset, e.Offset+e.Size, e.Used)
}

// Arena is a bump allocator over a fixed byte pool.
// The zero value is unusable; use New.
type Arena struct {
	buf []byte
	off int
}

// New creates an Arena over buf. The arena does not copy buf; the caller
// must not touch it directly while the arena is live.
func New(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Alloc reserves n bytes rounded up to Alignment and returns the offset of
// the reservation within the pool. The offset is always 4-byte aligned.
// On failure the arena is unchanged.
func (a *Arena) Alloc(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidSize
	}

	rounded := (n + Alignment - 1) &^ (Alignment - 1)
	if a.off+rounded > len(a.buf) {
		return 0, ErrArenaFull
	}

	off := a.off
	a.off += rounded
	return off, nil
}

// AllocBytes reserves n bytes and returns a zeroed slice of exactly n bytes
// aliasing the pool. The slice is valid until the next Reset.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	off, err := a.Alloc(n)
	if err != nil {
		return nil, err
	}

	b := a.buf[off : off+n : off+n]
	clear(b)
	return b, nil
}

// Get returns a view of n bytes at offset. The range must lie within the
// allocated prefix of the pool.
func (a *Arena) Get(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > a.off {
		return nil, &ErrOutOfBounds{Offset: offset, Size: n, Used: a.off}
	}
	return a.buf[offset : offset+n : offset+n], nil
}

// Used returns the number of pool bytes consumed, including alignment padding.
func (a *Arena) Used() int {
	return a.off
}

// Total returns the pool capacity in bytes.
func (a *Arena) Total() int {
	return len(a.buf)
}

// Remaining returns the bytes still available for allocation.
func (a *Arena) Remaining() int {
	return len(a.buf) - a.off
}

// Reset rewinds the arena to the start of the pool. Every slice and offset
// previously returned is invalid afterwards; dereferencing one is the
// caller's bug, not the arena's.
func (a *Arena) Reset() {
	a.off = 0
}
