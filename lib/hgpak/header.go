package hgpak

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CurrentVersion is the only archive version this package reads or
// writes. Unknown versions are rejected.
const CurrentVersion = 2

// magic is the 8-byte prefix of every HGPAK archive: "HGPAK" followed by
// three zero bytes.
var magic = [8]byte{'H', 'G', 'P', 'A', 'K', 0, 0, 0}

// headerSize is the fixed on-disk size of the header block.
const headerSize = 0x30

// Header is the fixed-layout 0x30-byte block at the start of every
// archive.
//
//	Offset  Size  Field
//	0x00    8     magic ("HGPAK\0\0\0")
//	0x08    8     version
//	0x10    8     file_count (user files + 1 for the filename blob)
//	0x18    8     chunk_count
//	0x20    1     is_compressed
//	0x21    7     reserved
//	0x28    8     data_offset
//
// All integers are little-endian.
type Header struct {
	Version      uint64
	FileCount    uint64
	ChunkCount   uint64
	IsCompressed bool
	DataOffset   uint64
}

// readHeader reads and validates the header at the start of r.
func readHeader(r io.ReaderAt) (*Header, error) {
	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(buf[0:5]) != "HGPAK" {
		return nil, &InvalidFormatError{Reason: "bad magic, expected \"HGPAK\""}
	}
	for _, b := range buf[5:8] {
		if b != 0 {
			return nil, &InvalidFormatError{Reason: "non-zero magic padding"}
		}
	}

	h := &Header{
		Version:      binary.LittleEndian.Uint64(buf[0x08:0x10]),
		FileCount:    binary.LittleEndian.Uint64(buf[0x10:0x18]),
		ChunkCount:   binary.LittleEndian.Uint64(buf[0x18:0x20]),
		IsCompressed: buf[0x20] != 0,
		DataOffset:   binary.LittleEndian.Uint64(buf[0x28:0x30]),
	}

	if h.Version != CurrentVersion {
		return nil, &UnsupportedVersionError{Version: h.Version}
	}

	return h, nil
}

// writeHeader emits the 0x30-byte header block in one shot.
func writeHeader(w io.Writer, h *Header) error {
	buf := make([]byte, headerSize)
	copy(buf[0:8], magic[:])
	binary.LittleEndian.PutUint64(buf[0x08:0x10], h.Version)
	binary.LittleEndian.PutUint64(buf[0x10:0x18], h.FileCount)
	binary.LittleEndian.PutUint64(buf[0x18:0x20], h.ChunkCount)
	if h.IsCompressed {
		buf[0x20] = 1
	}
	binary.LittleEndian.PutUint64(buf[0x28:0x30], h.DataOffset)

	_, err := w.Write(buf)
	return err
}
