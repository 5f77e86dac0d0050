package hgpak

import (
	"encoding/binary"
	"fmt"
	"io"
)

// readChunkIndex reads chunkCount little-endian u64 compressed_size values
// starting at offset. Present only for compressed archives.
func readChunkIndex(r io.ReaderAt, offset int64, chunkCount uint64) ([]uint64, error) {
	buf := make([]byte, 8*chunkCount)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("read chunk index: %w", err)
	}

	sizes := make([]uint64, chunkCount)
	for i := range sizes {
		sizes[i] = binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
	}
	return sizes, nil
}

// writeChunkIndex emits sizes as a little-endian u64 vector.
func writeChunkIndex(w io.Writer, sizes []uint64) error {
	buf := make([]byte, 8*len(sizes))
	for i, s := range sizes {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], s)
	}
	_, err := w.Write(buf)
	return err
}

// chunkByteOffsets computes the absolute archive byte offset of each
// chunk's compressed data, given the data region's start and each chunk's
// compressed_size.
func chunkByteOffsets(dataOffset uint64, sizes []uint64) []uint64 {
	offsets := make([]uint64, len(sizes))
	cur := dataOffset
	for i, s := range sizes {
		offsets[i] = cur
		cur += chunkOnDisk(s)
	}
	return offsets
}
