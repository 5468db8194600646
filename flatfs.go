package flatfs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/flatfs/arena"
	"github.com/hupe1980/flatfs/internal/mmap"
	"github.com/hupe1980/flatfs/ramdisk"
	"github.com/hupe1980/flatfs/resource"
)

// Disk is a flat in-memory filesystem plus a scratch bump allocator, bound
// to fixed memory for its lifetime. Construct one Disk per context and pass
// it to collaborators; there is no package-level singleton.
//
// All operations are serialized behind one mutex: the core's scan-then-commit
// sequences are not safe to interleave, so coarse locking is the contract.
type Disk struct {
	mu      sync.Mutex
	vol     *ramdisk.Volume
	scratch *arena.Arena

	logger     *Logger
	metrics    MetricsCollector
	controller *resource.Controller
	mapping    *mmap.Mapping // nil unless off-heap
	reserved   int64
	closed     bool
}

// New creates a Disk with a freshly formatted volume.
func New(optFns ...Option) (*Disk, error) {
	opts := options{
		size:        ramdisk.DefaultSize,
		scratchSize: DefaultScratchSize,
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.scratchSize < 0 {
		opts.scratchSize = 0
	}

	d := &Disk{
		logger:     opts.logger,
		metrics:    opts.metrics,
		controller: opts.controller,
	}

	region, scratchBuf, err := d.acquireBacking(&opts)
	if err != nil {
		return nil, err
	}

	vol, err := ramdisk.New(region, opts.volumeOptFns...)
	if err != nil {
		d.releaseBacking()
		return nil, err
	}

	d.vol = vol
	d.scratch = arena.New(scratchBuf)

	d.logger.LogFormat(context.Background(), len(region), nil)
	return d, nil
}

// acquireBacking reserves and allocates the volume region and scratch pool.
func (d *Disk) acquireBacking(opts *options) (region, scratchBuf []byte, err error) {
	if opts.region != nil {
		// Caller-owned region: only the scratch pool is ours to account for.
		if !d.controller.TryAcquireMemory(int64(opts.scratchSize)) {
			return nil, nil, fmt.Errorf("%w: %d bytes refused", ErrMemoryLimit, opts.scratchSize)
		}
		d.reserved = int64(opts.scratchSize)
		return opts.region, make([]byte, opts.scratchSize), nil
	}

	total := int64(opts.size) + int64(opts.scratchSize)
	if !d.controller.TryAcquireMemory(total) {
		return nil, nil, fmt.Errorf("%w: %d bytes refused", ErrMemoryLimit, total)
	}
	d.reserved = total

	if opts.offHeap {
		m, err := mmap.MapAnon(opts.size + opts.scratchSize)
		if err != nil {
			d.releaseBacking()
			return nil, nil, fmt.Errorf("map off-heap region: %w", err)
		}
		d.mapping = m
		buf := m.Bytes()
		return buf[:opts.size], buf[opts.size:], nil
	}

	return make([]byte, opts.size), make([]byte, opts.scratchSize), nil
}

// releaseBacking unmaps any off-heap mapping and returns the controller
// reservation. Safe to call on every construction failure path.
func (d *Disk) releaseBacking() error {
	var err error
	if d.mapping != nil {
		err = d.mapping.Close()
		d.mapping = nil
	}
	d.controller.ReleaseMemory(d.reserved)
	d.reserved = 0
	return err
}

// Create stores data under name, replacing any existing file with that name.
func (d *Disk) Create(ctx context.Context, name string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	err := d.createLocked(name, data)
	d.metrics.RecordCreate(len(data), time.Since(start), err)
	d.logger.LogCreate(ctx, name, len(data), err)
	return translateError(err)
}

func (d *Disk) createLocked(name string, data []byte) error {
	if d.closed {
		return ErrClosed
	}
	return d.vol.Create(name, data)
}

// Read returns a copy of the file's contents.
func (d *Disk) Read(ctx context.Context, name string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	data, err := d.readLocked(name)
	d.metrics.RecordRead(len(data), time.Since(start), err)
	d.logger.LogRead(ctx, name, len(data), err)
	return data, translateError(err)
}

func (d *Disk) readLocked(name string) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}
	return d.vol.Read(name)
}

// ReadInto copies the file's contents into buf and returns the bytes copied.
// It fails with ErrBufferTooSmall when buf cannot hold the whole file.
func (d *Disk) ReadInto(ctx context.Context, name string, buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}

	start := time.Now()
	n, err := d.vol.ReadInto(name, buf)
	d.metrics.RecordRead(n, time.Since(start), err)
	d.logger.LogRead(ctx, name, n, err)
	return n, translateError(err)
}

// Delete removes the file and returns its blocks to the free pool.
func (d *Disk) Delete(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	var err error
	if d.closed {
		err = ErrClosed
	} else {
		err = d.vol.Delete(name)
	}
	d.metrics.RecordDelete(time.Since(start), err)
	d.logger.LogDelete(ctx, name, err)
	return translateError(err)
}

// Exists reports whether name has an active file-table entry.
func (d *Disk) Exists(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	return d.vol.Exists(name)
}

// Stat returns the file-table record for name.
func (d *Disk) Stat(name string) (ramdisk.FileInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ramdisk.FileInfo{}, ErrClosed
	}

	fi, err := d.vol.Stat(name)
	return fi, translateError(err)
}

// List returns up to max active file records in physical slot order.
// max <= 0 means no limit.
func (d *Disk) List(max int) []ramdisk.FileInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	return d.vol.List(max)
}

// Format wipes the volume back to an empty filesystem.
func (d *Disk) Format(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	var err error
	if d.closed {
		err = ErrClosed
	} else {
		err = d.vol.Format()
	}
	d.metrics.RecordFormat(time.Since(start), err)
	d.logger.LogFormat(ctx, d.volCapacityLocked(), err)
	return translateError(err)
}

func (d *Disk) volCapacityLocked() int {
	if d.vol == nil {
		return 0
	}
	return d.vol.Stats().Capacity
}

// FreeSpace returns the unallocated data-pool capacity in bytes.
func (d *Disk) FreeSpace() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.vol.FreeSpace()
}

// TotalSpace returns the data-pool capacity in bytes.
func (d *Disk) TotalSpace() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.vol.TotalSpace()
}

// FileCount returns the number of active files.
func (d *Disk) FileCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.vol.FileCount()
}

// Stats returns a snapshot of volume accounting.
func (d *Disk) Stats() ramdisk.VolumeStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ramdisk.VolumeStats{}
	}
	return d.vol.Stats()
}

// Alloc reserves n bytes from the scratch arena and returns the offset of
// the reservation. Scratch memory is never reclaimed individually; see
// ResetArena.
func (d *Disk) Alloc(n int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}

	off, err := d.scratch.Alloc(n)
	return off, translateError(err)
}

// AllocBytes reserves n bytes from the scratch arena and returns a zeroed
// slice aliasing the pool. The slice is valid until ResetArena or Close.
func (d *Disk) AllocBytes(n int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	b, err := d.scratch.AllocBytes(n)
	return b, translateError(err)
}

// ArenaUsed returns the scratch bytes consumed, including alignment padding.
func (d *Disk) ArenaUsed() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.scratch.Used()
}

// ArenaTotal returns the scratch pool capacity in bytes.
func (d *Disk) ArenaTotal() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	return d.scratch.Total()
}

// ResetArena rewinds the scratch arena, invalidating every slice and offset
// it has handed out. Callers must drop stale references first.
func (d *Disk) ResetArena() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.scratch.Reset()
	return nil
}

// Close releases the backing memory. The Disk is unusable afterwards;
// Close is idempotent.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.vol = nil
	d.scratch = nil
	return d.releaseBacking()
}
