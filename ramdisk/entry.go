package ramdisk

import (
	"bytes"
	"encoding/binary"
	"time"
)

// FileType classifies a directory record.
type FileType uint8

const (
	// FileTypeRegular is an ordinary file. The only type written today.
	FileTypeRegular FileType = 0
)

// FileInfo is the public view of a directory record.
type FileInfo struct {
	Name       string
	Size       int
	StartBlock uint32
	ModTime    time.Time
	Type       FileType
}

// Blocks returns the number of data-pool blocks the file occupies.
func (fi FileInfo) Blocks() uint32 {
	return blocksNeeded(uint32(fi.Size))
}

// fileEntry is the decoded 60-byte directory record:
// filename [32]byte NUL-padded, start_block u32, size u32,
// timestamp u32 (unix seconds), type u8, reserved [15]byte.
type fileEntry struct {
	Name       string
	StartBlock uint32
	Size       uint32
	Timestamp  uint32
	Type       FileType
}

func (e *fileEntry) encode(dst []byte) {
	_ = dst[entrySize-1]

	clear(dst[0:filenameLen])
	copy(dst[0:filenameLen], e.Name)
	binary.LittleEndian.PutUint32(dst[32:36], e.StartBlock)
	binary.LittleEndian.PutUint32(dst[36:40], e.Size)
	binary.LittleEndian.PutUint32(dst[40:44], e.Timestamp)
	dst[44] = byte(e.Type)
	clear(dst[45:entrySize])
}

func (e *fileEntry) decode(src []byte) {
	_ = src[entrySize-1]

	name := src[0:filenameLen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	e.Name = string(name)
	e.StartBlock = binary.LittleEndian.Uint32(src[32:36])
	e.Size = binary.LittleEndian.Uint32(src[36:40])
	e.Timestamp = binary.LittleEndian.Uint32(src[40:44])
	e.Type = FileType(src[44])
}

func (e *fileEntry) info() FileInfo {
	return FileInfo{
		Name:       e.Name,
		Size:       int(e.Size),
		StartBlock: e.StartBlock,
		ModTime:    time.Unix(int64(e.Timestamp), 0),
		Type:       e.Type,
	}
}

// blocksNeeded returns ceil(size / BlockSize).
func blocksNeeded(size uint32) uint32 {
	return (size + BlockSize - 1) / BlockSize
}
