package ramdisk

import (
	"encoding/binary"
	"fmt"
)

const (
	// BlockSize is the fixed size of a data-pool block in bytes.
	BlockSize = 1024
	// MaxFiles is the fixed capacity of the directory table.
	MaxFiles = 64
	// MaxNameLen is the longest filename a directory record can hold.
	MaxNameLen = filenameLen - 1
	// DefaultSize is the region size the facade uses when none is given.
	DefaultSize = 1024 * 1024

	// Version is the on-memory format version.
	Version = 1

	superblockSize = 512
	filenameLen    = 32
	entrySize      = 60
	dirBytes       = MaxFiles * entrySize
)

// magic tags a formatted region. Inherited from the original ATOMICFS format.
var magic = [8]byte{'A', 'T', 'O', 'M', 'I', 'C', 'F', 'S'}

// superblock is the decoded head of the region. The encoded form is 512
// bytes, little-endian, fields in declaration order, zero-padded.
type superblock struct {
	TotalBlocks uint32
	FreeBlocks  uint32
	FileCount   uint32
	BlockSize   uint32
	FATBytes    uint32
	DirBytes    uint32
	DataBlocks  uint32
}

// encode writes the superblock into dst, which must be superblockSize bytes.
func (sb *superblock) encode(dst []byte) {
	_ = dst[superblockSize-1]

	copy(dst[0:8], magic[:])
	binary.LittleEndian.PutUint32(dst[8:12], Version)
	binary.LittleEndian.PutUint32(dst[12:16], sb.TotalBlocks)
	binary.LittleEndian.PutUint32(dst[16:20], sb.FreeBlocks)
	binary.LittleEndian.PutUint32(dst[20:24], sb.FileCount)
	binary.LittleEndian.PutUint32(dst[24:28], sb.BlockSize)
	binary.LittleEndian.PutUint32(dst[28:32], sb.FATBytes)
	binary.LittleEndian.PutUint32(dst[32:36], sb.DirBytes)
	binary.LittleEndian.PutUint32(dst[36:40], sb.DataBlocks)
	clear(dst[40:superblockSize])
}

// decode parses and validates the superblock from src.
func (sb *superblock) decode(src []byte) error {
	_ = src[superblockSize-1]

	if [8]byte(src[0:8]) != magic {
		return fmt.Errorf("bad superblock magic %q", src[0:8])
	}
	if v := binary.LittleEndian.Uint32(src[8:12]); v != Version {
		return fmt.Errorf("unsupported format version %d", v)
	}

	sb.TotalBlocks = binary.LittleEndian.Uint32(src[12:16])
	sb.FreeBlocks = binary.LittleEndian.Uint32(src[16:20])
	sb.FileCount = binary.LittleEndian.Uint32(src[20:24])
	sb.BlockSize = binary.LittleEndian.Uint32(src[24:28])
	sb.FATBytes = binary.LittleEndian.Uint32(src[28:32])
	sb.DirBytes = binary.LittleEndian.Uint32(src[32:36])
	sb.DataBlocks = binary.LittleEndian.Uint32(src[36:40])
	return nil
}
