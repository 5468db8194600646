package flatfs

import (
	"errors"
	"fmt"

	"github.com/hupe1980/flatfs/arena"
	"github.com/hupe1980/flatfs/ramdisk"
)

var (
	// ErrNotFound is returned when no file with the given name exists.
	ErrNotFound = errors.New("not found")

	// ErrOutOfSpace is returned when the data pool (or the scratch arena)
	// cannot satisfy the request.
	ErrOutOfSpace = errors.New("out of space")

	// ErrDirectoryFull is returned when all 64 file-table slots are taken.
	ErrDirectoryFull = errors.New("directory full")

	// ErrBufferTooSmall is returned when a caller buffer cannot hold a file.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrUninitialized is returned for operations on an unformatted volume.
	ErrUninitialized = errors.New("not initialized")

	// ErrClosed is returned for any operation on a closed Disk.
	ErrClosed = errors.New("disk is closed")

	// ErrMemoryLimit is returned when the resource controller refuses the
	// region memory a new Disk needs.
	ErrMemoryLimit = errors.New("memory limit exceeded")
)

// translateError unifies core errors onto the package sentinels.
//
// The original underlying error remains reachable via errors.Is/errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ramdisk.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ramdisk.ErrOutOfSpace), errors.Is(err, arena.ErrArenaFull):
		return fmt.Errorf("%w: %w", ErrOutOfSpace, err)
	case errors.Is(err, ramdisk.ErrDirectoryFull):
		return fmt.Errorf("%w: %w", ErrDirectoryFull, err)
	case errors.Is(err, ramdisk.ErrUninitialized):
		return fmt.Errorf("%w: %w", ErrUninitialized, err)
	}

	var bts *ramdisk.ErrBufferTooSmall
	if errors.As(err, &bts) {
		return fmt.Errorf("%w: %w", ErrBufferTooSmall, err)
	}

	return err
}
