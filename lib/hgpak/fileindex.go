package hgpak

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
)

// fileIndexEntrySize is the on-disk size of one FileIndexEntry.
const fileIndexEntrySize = 0x20

// FileIndexEntry is one 0x20-byte record in the file index: the MD5 hash
// of the lowercased, forward-slash path; the absolute archive offset of
// the file's data; and its decompressed size.
type FileIndexEntry struct {
	Hash             [16]byte
	StartOffset      uint64
	DecompressedSize uint64
}

// hashPath returns the MD5 digest of a lowercased POSIX path, the raw
// 16-byte hash stored in a FileIndexEntry.
func hashPath(posixPath string) [16]byte {
	return md5.Sum([]byte(posixPath))
}

// HashPath is hashPath exported for callers (the CLI's verify command)
// that need to recompute a path's hash without reaching into package
// internals.
func HashPath(posixPath string) [16]byte {
	return hashPath(normalizePath(posixPath))
}

// readFileIndex reads exactly fileCount entries from r starting at the
// given offset.
func readFileIndex(r io.ReaderAt, offset int64, fileCount uint64) ([]FileIndexEntry, error) {
	entries := make([]FileIndexEntry, fileCount)
	buf := make([]byte, fileIndexEntrySize*fileCount)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("read file index: %w", err)
	}

	for i := range entries {
		off := i * fileIndexEntrySize
		copy(entries[i].Hash[:], buf[off:off+16])
		entries[i].StartOffset = binary.LittleEndian.Uint64(buf[off+16 : off+24])
		entries[i].DecompressedSize = binary.LittleEndian.Uint64(buf[off+24 : off+32])
	}

	return entries, nil
}

// writeFileIndex emits entries in order, 0x20 bytes each.
func writeFileIndex(w io.Writer, entries []FileIndexEntry) error {
	buf := make([]byte, fileIndexEntrySize*len(entries))
	for i, e := range entries {
		off := i * fileIndexEntrySize
		copy(buf[off:off+16], e.Hash[:])
		binary.LittleEndian.PutUint64(buf[off+16:off+24], e.StartOffset)
		binary.LittleEndian.PutUint64(buf[off+24:off+32], e.DecompressedSize)
	}
	_, err := w.Write(buf)
	return err
}
