package flatfs

import (
	"github.com/hupe1980/flatfs/ramdisk"
	"github.com/hupe1980/flatfs/resource"
)

// DefaultScratchSize is the default capacity of the scratch arena.
const DefaultScratchSize = 64 * 1024

type options struct {
	size         int
	scratchSize  int
	region       []byte
	offHeap      bool
	logger       *Logger
	metrics      MetricsCollector
	controller   *resource.Controller
	volumeOptFns []func(o *ramdisk.Options)
}

// Option configures Disk construction.
type Option func(*options)

// WithSize sets the backing region capacity in bytes.
// Defaults to ramdisk.DefaultSize (1 MiB). Ignored when WithRegion is used.
func WithSize(size int) Option {
	return func(o *options) {
		o.size = size
	}
}

// WithScratchSize sets the capacity of the scratch arena in bytes.
// Defaults to DefaultScratchSize. A zero or negative value disables the
// scratch arena; Alloc then always fails.
func WithScratchSize(size int) Option {
	return func(o *options) {
		o.scratchSize = size
	}
}

// WithRegion binds the filesystem to a caller-supplied buffer instead of
// allocating one. The caller must not touch the buffer while the Disk is
// live, and remains its owner after Close.
func WithRegion(region []byte) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithOffHeap places the region and scratch pool in one anonymous memory
// mapping outside the Go heap. Ignored when WithRegion is used.
func WithOffHeap(offHeap bool) Option {
	return func(o *options) {
		o.offHeap = offHeap
	}
}

// WithLogger sets the logger. Defaults to NoopLogger.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector. Defaults to
// NoopMetricsCollector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithResourceController attaches a shared controller that bounds the
// memory this Disk may reserve. New fails with ErrMemoryLimit when the
// reservation is refused; Close returns it.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithVolumeOptions forwards options to the underlying ramdisk volume.
func WithVolumeOptions(optFns ...func(o *ramdisk.Options)) Option {
	return func(o *options) {
		o.volumeOptFns = append(o.volumeOptFns, optFns...)
	}
}
