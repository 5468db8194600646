package ramdisk

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no active directory entry has the given name.
	ErrNotFound = errors.New("file not found")

	// ErrOutOfSpace is returned when the data pool has no contiguous run of
	// free blocks large enough for the file.
	ErrOutOfSpace = errors.New("out of space")

	// ErrDirectoryFull is returned when all directory slots are in use.
	ErrDirectoryFull = errors.New("directory full")

	// ErrUninitialized is returned by any operation on a Volume that has not
	// been initialized. Nothing is touched on this path.
	ErrUninitialized = errors.New("volume not initialized")

	// ErrInvalidName is returned when the filename is empty or contains a
	// NUL byte, which the NUL-padded directory encoding cannot represent.
	ErrInvalidName = errors.New("invalid filename")

	// ErrEmptyData is returned when Create is called with no data. Zero-length
	// files are not representable: every file owns at least one block.
	ErrEmptyData = errors.New("empty file data")
)

// ErrNameTooLong indicates a filename exceeding the directory record bound.
type ErrNameTooLong struct {
	Name string
	Max  int
}

func (e *ErrNameTooLong) Error() string {
	return fmt.Sprintf("filename %q exceeds %d bytes", e.Name, e.Max)
}

// ErrBufferTooSmall indicates a read buffer smaller than the stored file.
type ErrBufferTooSmall struct {
	Need int
	Got  int
}

func (e *ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("buffer too small: need %d bytes, got %d", e.Need, e.Got)
}

// ErrRegionTooSmall indicates a backing region whose metadata overhead leaves
// no room for data blocks.
type ErrRegionTooSmall struct {
	Capacity int
	Min      int
}

func (e *ErrRegionTooSmall) Error() string {
	return fmt.Sprintf("region of %d bytes too small: need at least %d", e.Capacity, e.Min)
}
