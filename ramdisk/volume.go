package ramdisk

import (
	"math"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
)

// Options configures a Volume.
type Options struct {
	// Now supplies directory-record timestamps. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions is the configuration used when no option functions are given.
var DefaultOptions = Options{
	Now: time.Now,
}

// Volume is a flat filesystem bound to one fixed byte region for its
// lifetime. The region is carved into superblock, allocation table,
// directory table and data pool; see the package documentation for the
// exact layout.
//
// The zero Volume is uninitialized: every operation fails with
// ErrUninitialized without touching memory. Use New.
type Volume struct {
	region []byte
	sb     superblock
	now    func() time.Time

	// Sub-range offsets into region, fixed at New.
	fatOff  int
	dirOff  int
	dataOff int

	// used mirrors the allocation table as a bitmap of used block indices.
	// The table bytes in the region stay authoritative; the bitmap only
	// accelerates run searches and free-space accounting.
	used *roaring.Bitmap
}

// New binds a Volume to region, computes the static layout and formats it.
// It fails with *ErrRegionTooSmall when the metadata overhead leaves no room
// for a single data block.
func New(region []byte, optFns ...func(o *Options)) (*Volume, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// The allocation table reserves one byte per block of raw capacity,
	// which slightly overstates the block count; the surplus bytes stay
	// unused. This mirrors the original layout computation.
	fatReserved := len(region) / BlockSize
	dataOff := superblockSize + fatReserved + dirBytes

	if len(region) < dataOff+BlockSize {
		return nil, &ErrRegionTooSmall{Capacity: len(region), Min: dataOff + BlockSize}
	}

	v := &Volume{
		region:  region,
		now:     opts.Now,
		fatOff:  superblockSize,
		dirOff:  superblockSize + fatReserved,
		dataOff: dataOff,
		used:    roaring.New(),
	}

	totalBlocks := uint32((len(region) - dataOff) / BlockSize)
	v.sb = superblock{
		TotalBlocks: totalBlocks,
		FreeBlocks:  totalBlocks,
		BlockSize:   BlockSize,
		FATBytes:    uint32(fatReserved),
		DirBytes:    dirBytes,
		DataBlocks:  totalBlocks,
	}

	if err := v.Format(); err != nil {
		return nil, err
	}
	return v, nil
}

// Format rewrites the superblock, zeroes the allocation table and clears
// every directory slot. It destroys all content and is idempotent.
func (v *Volume) Format() error {
	if !v.initialized() {
		return ErrUninitialized
	}

	v.sb.FreeBlocks = v.sb.TotalBlocks
	v.sb.FileCount = 0
	v.flushSuperblock()

	clear(v.fat())
	clear(v.region[v.dirOff : v.dirOff+dirBytes])
	v.used.Clear()
	return nil
}

// Create stores data under name, replacing any existing file with that name.
// Replacement is defined behavior, not an error. On any failure no state is
// visibly mutated: the allocation table, directory and counters are only
// touched once every check has passed.
func (v *Volume) Create(name string, data []byte) error {
	if !v.initialized() {
		return ErrUninitialized
	}
	// The directory encoding is NUL-padded and decodes up to the first NUL,
	// so a name containing one would come back shorter than it went in: a
	// leading NUL makes the slot read as unused while its blocks stay
	// claimed, an interior NUL aliases an existing name.
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return ErrInvalidName
	}
	if len(name) > MaxNameLen {
		return &ErrNameTooLong{Name: name, Max: MaxNameLen}
	}
	if len(data) == 0 {
		return ErrEmptyData
	}
	// Entry sizes are recorded as uint32; anything beyond the pool can never
	// fit, and rejecting it here keeps the conversions below exact.
	if len(data) > v.TotalSpace() || uint64(len(data)) > math.MaxUint32 {
		return ErrOutOfSpace
	}

	old, oldSlot, exists := v.findEntry(name)

	slot := oldSlot
	if !exists {
		var ok bool
		if slot, ok = v.findFreeSlot(); !ok {
			return ErrDirectoryFull
		}
	}

	needed := blocksNeeded(uint32(len(data)))
	avail := v.sb.FreeBlocks
	if exists {
		avail += blocksNeeded(old.Size)
	}
	if needed > avail {
		return ErrOutOfSpace
	}

	// First-fit contiguous run search. On replace the search runs against a
	// scratch bitmap with the old file's blocks released, so the new data
	// may land where the old data was.
	cand := v.used
	if exists {
		cand = v.used.Clone()
		releaseRun(cand, old.StartBlock, blocksNeeded(old.Size))
	}
	start, ok := findRun(cand, needed, v.sb.TotalBlocks)
	if !ok {
		return ErrOutOfSpace
	}

	// Commit. Nothing below can fail.
	if exists {
		v.freeBlocks(old.StartBlock, blocksNeeded(old.Size))
		v.sb.FileCount--
	}
	v.claimBlocks(start, needed)

	entry := fileEntry{
		Name:       name,
		StartBlock: start,
		Size:       uint32(len(data)),
		Timestamp:  uint32(v.now().Unix()),
		Type:       FileTypeRegular,
	}
	entry.encode(v.entrySlice(slot))
	copy(v.region[v.dataOff+int(start)*BlockSize:], data)

	v.sb.FileCount++
	v.flushSuperblock()
	return nil
}

// Read returns a copy of the file's contents.
func (v *Volume) Read(name string) ([]byte, error) {
	if !v.initialized() {
		return nil, ErrUninitialized
	}

	entry, _, ok := v.findEntry(name)
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, entry.Size)
	v.copyOut(&entry, buf)
	return buf, nil
}

// ReadInto copies the file's contents into buf and returns the number of
// bytes copied. It fails with *ErrBufferTooSmall when buf cannot hold the
// whole file.
func (v *Volume) ReadInto(name string, buf []byte) (int, error) {
	if !v.initialized() {
		return 0, ErrUninitialized
	}

	entry, _, ok := v.findEntry(name)
	if !ok {
		return 0, ErrNotFound
	}
	if len(buf) < int(entry.Size) {
		return 0, &ErrBufferTooSmall{Need: int(entry.Size), Got: len(buf)}
	}

	v.copyOut(&entry, buf)
	return int(entry.Size), nil
}

// Delete removes the file, returning its blocks to the allocation table and
// clearing its directory slot.
func (v *Volume) Delete(name string) error {
	if !v.initialized() {
		return ErrUninitialized
	}

	entry, slot, ok := v.findEntry(name)
	if !ok {
		return ErrNotFound
	}

	v.freeBlocks(entry.StartBlock, blocksNeeded(entry.Size))
	clear(v.entrySlice(slot))
	v.sb.FileCount--
	v.flushSuperblock()
	return nil
}

// Exists reports whether name has an active directory entry. Pure lookup.
func (v *Volume) Exists(name string) bool {
	if !v.initialized() {
		return false
	}
	_, _, ok := v.findEntry(name)
	return ok
}

// Stat returns the directory record for name.
func (v *Volume) Stat(name string) (FileInfo, error) {
	if !v.initialized() {
		return FileInfo{}, ErrUninitialized
	}

	entry, _, ok := v.findEntry(name)
	if !ok {
		return FileInfo{}, ErrNotFound
	}
	return entry.info(), nil
}

// List returns up to max active directory records in physical slot order,
// which is neither creation nor alphabetical order. max <= 0 means no limit.
func (v *Volume) List(max int) []FileInfo {
	if !v.initialized() {
		return nil
	}
	if max <= 0 || max > MaxFiles {
		max = MaxFiles
	}

	infos := make([]FileInfo, 0, min(max, int(v.sb.FileCount)))
	for slot := 0; slot < MaxFiles && len(infos) < max; slot++ {
		raw := v.entrySlice(slot)
		if raw[0] == 0 {
			continue
		}
		var entry fileEntry
		entry.decode(raw)
		infos = append(infos, entry.info())
	}
	return infos
}

// FreeSpace returns the unallocated data-pool capacity in bytes.
func (v *Volume) FreeSpace() int {
	if !v.initialized() {
		return 0
	}
	return int(v.sb.FreeBlocks) * BlockSize
}

// TotalSpace returns the data-pool capacity in bytes.
func (v *Volume) TotalSpace() int {
	if !v.initialized() {
		return 0
	}
	return int(v.sb.TotalBlocks) * BlockSize
}

// FileCount returns the number of active directory entries.
func (v *Volume) FileCount() int {
	if !v.initialized() {
		return 0
	}
	return int(v.sb.FileCount)
}

// VolumeStats is a point-in-time snapshot of volume accounting.
type VolumeStats struct {
	BlockSize   int
	TotalBlocks int
	FreeBlocks  int
	UsedBlocks  int
	FileCount   int
	Capacity    int
}

// Stats returns a snapshot of the volume's accounting counters.
func (v *Volume) Stats() VolumeStats {
	if !v.initialized() {
		return VolumeStats{}
	}
	return VolumeStats{
		BlockSize:   BlockSize,
		TotalBlocks: int(v.sb.TotalBlocks),
		FreeBlocks:  int(v.sb.FreeBlocks),
		UsedBlocks:  int(v.sb.TotalBlocks - v.sb.FreeBlocks),
		FileCount:   int(v.sb.FileCount),
		Capacity:    len(v.region),
	}
}

func (v *Volume) initialized() bool {
	return v != nil && v.region != nil
}

// fat returns the meaningful prefix of the allocation table.
func (v *Volume) fat() []byte {
	return v.region[v.fatOff : v.fatOff+int(v.sb.TotalBlocks)]
}

func (v *Volume) entrySlice(slot int) []byte {
	off := v.dirOff + slot*entrySize
	return v.region[off : off+entrySize]
}

func (v *Volume) flushSuperblock() {
	v.sb.encode(v.region[:superblockSize])
}

func (v *Volume) findEntry(name string) (fileEntry, int, bool) {
	for slot := 0; slot < MaxFiles; slot++ {
		raw := v.entrySlice(slot)
		if raw[0] == 0 {
			continue
		}
		var entry fileEntry
		entry.decode(raw)
		if entry.Name == name {
			return entry, slot, true
		}
	}
	return fileEntry{}, 0, false
}

func (v *Volume) findFreeSlot() (int, bool) {
	for slot := 0; slot < MaxFiles; slot++ {
		if v.entrySlice(slot)[0] == 0 {
			return slot, true
		}
	}
	return 0, false
}

// claimBlocks marks [start, start+n) used in the table, bitmap and counters.
func (v *Volume) claimBlocks(start, n uint32) {
	fat := v.fat()
	for i := start; i < start+n; i++ {
		fat[i] = 1
	}
	v.used.AddRange(uint64(start), uint64(start+n))
	v.sb.FreeBlocks -= n
}

// freeBlocks returns [start, start+n) to the free pool.
func (v *Volume) freeBlocks(start, n uint32) {
	fat := v.fat()
	for i := start; i < start+n; i++ {
		fat[i] = 0
	}
	releaseRun(v.used, start, n)
	v.sb.FreeBlocks += n
}

func (v *Volume) copyOut(entry *fileEntry, buf []byte) {
	off := v.dataOff + int(entry.StartBlock)*BlockSize
	copy(buf[:entry.Size], v.region[off:off+int(entry.Size)])
}

func releaseRun(bm *roaring.Bitmap, start, n uint32) {
	bm.RemoveRange(uint64(start), uint64(start+n))
}

// findRun walks the gaps between used blocks and returns the start of the
// first free run of at least n blocks.
func findRun(used *roaring.Bitmap, n, total uint32) (uint32, bool) {
	var candidate uint32
	it := used.Iterator()
	for it.HasNext() {
		b := it.Next()
		if b-candidate >= n {
			return candidate, true
		}
		candidate = b + 1
	}
	if total >= n && candidate <= total-n {
		return candidate, true
	}
	return 0, false
}
