package flatfs

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/flatfs/ramdisk"
	"github.com/hupe1980/flatfs/resource"
)

func TestDisk_Lifecycle(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(256 * 1024))
	require.NoError(t, err)
	defer disk.Close()

	require.NoError(t, disk.Create(ctx, "motd.txt", []byte("welcome")))
	require.True(t, disk.Exists("motd.txt"))
	require.Equal(t, 1, disk.FileCount())

	data, err := disk.Read(ctx, "motd.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("welcome"), data)

	fi, err := disk.Stat("motd.txt")
	require.NoError(t, err)
	require.Equal(t, "motd.txt", fi.Name)
	require.Equal(t, 7, fi.Size)

	require.NoError(t, disk.Delete(ctx, "motd.txt"))
	require.False(t, disk.Exists("motd.txt"))
	require.Equal(t, disk.TotalSpace(), disk.FreeSpace())
}

func TestDisk_ErrorTranslation(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(64 * 1024))
	require.NoError(t, err)
	defer disk.Close()

	_, err = disk.Read(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ramdisk.ErrNotFound, "core error stays reachable")

	require.ErrorIs(t, disk.Delete(ctx, "ghost"), ErrNotFound)

	err = disk.Create(ctx, "huge", make([]byte, disk.TotalSpace()+1))
	require.ErrorIs(t, err, ErrOutOfSpace)

	require.NoError(t, disk.Create(ctx, "f", []byte("0123456789")))
	_, err = disk.ReadInto(ctx, "f", make([]byte, 4))
	require.ErrorIs(t, err, ErrBufferTooSmall)
	var bts *ramdisk.ErrBufferTooSmall
	require.ErrorAs(t, err, &bts)
	require.Equal(t, 10, bts.Need)
}

func TestDisk_ReplaceSemantics(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(64 * 1024))
	require.NoError(t, err)
	defer disk.Close()

	require.NoError(t, disk.Create(ctx, "cfg", bytes.Repeat([]byte{'A'}, 3000)))
	require.NoError(t, disk.Create(ctx, "cfg", []byte("v2")))
	require.Equal(t, 1, disk.FileCount())

	data, err := disk.Read(ctx, "cfg")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), data)
}

func TestDisk_DirectoryFull(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(256 * 1024))
	require.NoError(t, err)
	defer disk.Close()

	for i := 0; i < ramdisk.MaxFiles; i++ {
		require.NoError(t, disk.Create(ctx, fmt.Sprintf("file-%02d", i), []byte{1}))
	}
	require.ErrorIs(t, disk.Create(ctx, "overflow", []byte{1}), ErrDirectoryFull)
}

func TestDisk_Format(t *testing.T) {
	ctx := context.Background()

	mc := &BasicMetricsCollector{}
	disk, err := New(WithSize(64*1024), WithMetricsCollector(mc))
	require.NoError(t, err)
	defer disk.Close()

	require.NoError(t, disk.Create(ctx, "a", []byte("x")))
	require.NoError(t, disk.Format(ctx))
	require.Zero(t, disk.FileCount())
	require.Equal(t, int64(1), mc.GetStats().FormatCount)
}

func TestDisk_ScratchArena(t *testing.T) {
	disk, err := New(WithSize(64*1024), WithScratchSize(64))
	require.NoError(t, err)
	defer disk.Close()

	off1, err := disk.Alloc(10)
	require.NoError(t, err)
	require.Equal(t, 0, off1)

	off2, err := disk.Alloc(20)
	require.NoError(t, err)
	require.Equal(t, 12, off2)
	require.Equal(t, 32, disk.ArenaUsed())
	require.Equal(t, 64, disk.ArenaTotal())

	// Exhaustion maps onto the space sentinel and mutates nothing.
	_, err = disk.Alloc(64)
	require.ErrorIs(t, err, ErrOutOfSpace)
	require.Equal(t, 32, disk.ArenaUsed())

	b, err := disk.AllocBytes(8)
	require.NoError(t, err)
	require.Len(t, b, 8)

	require.NoError(t, disk.ResetArena())
	require.Zero(t, disk.ArenaUsed())
}

func TestDisk_Closed(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(64 * 1024))
	require.NoError(t, err)
	require.NoError(t, disk.Close())
	require.NoError(t, disk.Close(), "idempotent")

	require.ErrorIs(t, disk.Create(ctx, "a", []byte("x")), ErrClosed)
	_, err = disk.Read(ctx, "a")
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, disk.Delete(ctx, "a"), ErrClosed)
	require.ErrorIs(t, disk.Format(ctx), ErrClosed)
	_, err = disk.Alloc(4)
	require.ErrorIs(t, err, ErrClosed)
	require.False(t, disk.Exists("a"))
	require.Nil(t, disk.List(0))
	require.Zero(t, disk.FreeSpace())
}

func TestDisk_CallerRegion(t *testing.T) {
	ctx := context.Background()

	region := make([]byte, 64*1024)
	disk, err := New(WithRegion(region))
	require.NoError(t, err)
	defer disk.Close()

	require.NoError(t, disk.Create(ctx, "probe", []byte("in caller memory")))

	// The payload really lives inside the caller's buffer.
	require.True(t, bytes.Contains(region, []byte("in caller memory")))
}

func TestDisk_OffHeap(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(128*1024), WithOffHeap(true))
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{0xC3}, 4000)
	require.NoError(t, disk.Create(ctx, "blob", payload))

	data, err := disk.Read(ctx, "blob")
	require.NoError(t, err)
	require.Equal(t, payload, data)

	require.NoError(t, disk.Close())
}

// A failed construction must release everything it acquired, including the
// off-heap mapping, not just the controller reservation.
func TestDisk_OffHeapFailedConstruction(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})

	// 4 KiB cannot hold the metadata plus one block, so ramdisk.New fails
	// after the mapping was acquired.
	_, err := New(WithSize(4096), WithScratchSize(0), WithOffHeap(true), WithResourceController(c))
	var rts *ramdisk.ErrRegionTooSmall
	require.ErrorAs(t, err, &rts)
	require.Equal(t, int64(0), c.MemoryUsage())
}

func TestDisk_ResourceController(t *testing.T) {
	c := resource.NewController(resource.Config{MemoryLimitBytes: 200 * 1024})

	disk1, err := New(WithSize(128*1024), WithScratchSize(0), WithResourceController(c))
	require.NoError(t, err)
	assert.Equal(t, int64(128*1024), c.MemoryUsage())

	// Second disk of the same size would exceed the shared budget.
	_, err = New(WithSize(128*1024), WithScratchSize(0), WithResourceController(c))
	require.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(128*1024), c.MemoryUsage())

	require.NoError(t, disk1.Close())
	assert.Equal(t, int64(0), c.MemoryUsage())

	disk2, err := New(WithSize(128*1024), WithScratchSize(0), WithResourceController(c))
	require.NoError(t, err)
	require.NoError(t, disk2.Close())
}

func TestDisk_Metrics(t *testing.T) {
	ctx := context.Background()

	mc := &BasicMetricsCollector{}
	disk, err := New(WithSize(64*1024), WithMetricsCollector(mc))
	require.NoError(t, err)
	defer disk.Close()

	require.NoError(t, disk.Create(ctx, "a", []byte("12345")))
	_, _ = disk.Read(ctx, "a")
	_, _ = disk.Read(ctx, "missing")
	_ = disk.Delete(ctx, "a")

	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.CreateCount)
	assert.Equal(t, int64(5), stats.CreateBytes)
	assert.Equal(t, int64(2), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Equal(t, int64(1), stats.DeleteCount)
	assert.Equal(t, int64(0), stats.DeleteErrors)
}

// The core is single-threaded; the facade's mutex is what makes concurrent
// use safe. Hammer one disk from many goroutines and verify the accounting
// identities still hold.
func TestDisk_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	disk, err := New(WithSize(512 * 1024))
	require.NoError(t, err)
	defer disk.Close()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			name := fmt.Sprintf("worker-%02d", w)
			payload := bytes.Repeat([]byte{byte(w)}, 1500)
			for i := 0; i < 50; i++ {
				if err := disk.Create(ctx, name, payload); err != nil {
					return err
				}
				got, err := disk.Read(ctx, name)
				if err != nil {
					return err
				}
				if !bytes.Equal(payload, got) {
					return fmt.Errorf("worker %d read corrupted data", w)
				}
				if err := disk.Delete(ctx, name); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := disk.Stats()
	require.Zero(t, stats.FileCount)
	require.Equal(t, stats.TotalBlocks, stats.FreeBlocks)
}
