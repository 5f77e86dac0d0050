package hgpak

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sargunv/hgpaktool/lib/hgpak/codec"
)

// FileSource is one file to be packed: a stored path and a way to open
// its content without holding every file in memory at once. The writer
// never walks a filesystem itself; it consumes whatever a caller hands
// it.
type FileSource struct {
	// Path is the name this file is stored under. It is normalized
	// (lowercased, forward-slashed) before being hashed or written.
	Path string
	Open func() (io.ReadCloser, error)
	Size uint64
}

// WriteOptions configures how Write lays out an archive.
type WriteOptions struct {
	// Platform selects the codec and chunk size when Compressed is true.
	// Ignored otherwise.
	Platform Platform
	// Compressed controls whether the data region is chunked and
	// compressed, or stored as contiguous raw bytes.
	Compressed bool
}

// Write assembles sources into a complete HGPAK archive and writes it
// to w: assemble the filename blob, hash and size every file, compute
// the file index and (if compressed) the chunk count and data_offset
// up front, write the header and indices, then stream file content
// through the staging buffer (or straight through, uncompressed) and
// backfill the chunk index.
//
// w must also implement io.Seeker when Compressed is true, since the
// chunk index is backfilled after the data region has been written;
// *os.File satisfies this.
func Write(w io.Writer, sources []FileSource, opts WriteOptions) error {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = normalizePath(s.Path)
	}
	blob := encodeFilenameBlob(names)

	sizes := make([]uint64, len(sources)+1)
	sizes[0] = uint64(len(blob))
	for i, s := range sources {
		sizes[i+1] = s.Size
	}

	entries := make([]FileIndexEntry, len(sizes))
	entries[0] = FileIndexEntry{DecompressedSize: sizes[0]}
	for i, s := range sources {
		entries[i+1] = FileIndexEntry{
			Hash:             hashPath(names[i]),
			DecompressedSize: sizes[i+1],
		}
	}

	header := &Header{
		Version:      CurrentVersion,
		FileCount:    uint64(len(entries)),
		IsCompressed: opts.Compressed,
	}

	if opts.Compressed {
		return writeCompressed(w, header, entries, sizes, blob, sources, opts.Platform)
	}
	return writeUncompressed(w, header, entries, sizes, blob, sources)
}

func writeCompressed(w io.Writer, header *Header, entries []FileIndexEntry, sizes []uint64, blob []byte, sources []FileSource, platform Platform) error {
	kind, err := platform.codecKind()
	if err != nil {
		return err
	}
	if kind == codec.Zstd {
		return fmt.Errorf("hgpak: packing a Zstd archive: %w", ErrUnsupported)
	}

	chunkSize, err := platform.ChunkSize()
	if err != nil {
		return err
	}
	c, err := platform.newCodec()
	if err != nil {
		return err
	}

	var total uint64
	logicalOffsets := make([]uint64, len(sizes))
	for i, s := range sizes {
		logicalOffsets[i] = total
		total += s
	}
	chunkCount := bins(total, uint64(chunkSize))

	header.ChunkCount = chunkCount
	tocSize := uint64(headerSize) + fileIndexEntrySize*uint64(len(entries)) + 8*chunkCount
	header.DataOffset = roundup16(tocSize)

	for i := range entries {
		entries[i].StartOffset = header.DataOffset + logicalOffsets[i]
	}

	if err := writeHeader(w, header); err != nil {
		return err
	}
	if err := writeFileIndex(w, entries); err != nil {
		return err
	}

	chunkIndexPlaceholder := make([]byte, 8*chunkCount)
	if _, err := w.Write(chunkIndexPlaceholder); err != nil {
		return fmt.Errorf("hgpak: reserve chunk index: %w", err)
	}
	if pad := header.DataOffset - tocSize; pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("hgpak: pad to data offset: %w", err)
		}
	}

	stage := newStageBuffer(c, chunkSize, w)
	if err := stage.addBytes(blob); err != nil {
		return err
	}
	for _, s := range sources {
		if err := streamSource(s, stage.addBytes); err != nil {
			return err
		}
	}
	if err := stage.flush(); err != nil {
		return err
	}

	seeker, ok := w.(io.WriteSeeker)
	if !ok {
		return fmt.Errorf("hgpak: backfilling the chunk index requires an io.WriteSeeker")
	}
	chunkIndexOffset := int64(headerSize) + int64(fileIndexEntrySize)*int64(len(entries))
	if _, err := seeker.Seek(chunkIndexOffset, io.SeekStart); err != nil {
		return fmt.Errorf("hgpak: seek to chunk index: %w", err)
	}
	if err := writeChunkIndex(w, stage.chunkSizes()); err != nil {
		return fmt.Errorf("hgpak: backfill chunk index: %w", err)
	}
	if _, err := seeker.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("hgpak: seek past data region: %w", err)
	}
	return nil
}

func writeUncompressed(w io.Writer, header *Header, entries []FileIndexEntry, sizes []uint64, blob []byte, sources []FileSource) error {
	tocSize := uint64(headerSize) + fileIndexEntrySize*uint64(len(entries))
	header.DataOffset = roundup16(tocSize)

	running := header.DataOffset
	for i, s := range sizes {
		entries[i].StartOffset = running
		running += s + pad16(s)
	}

	if err := writeHeader(w, header); err != nil {
		return err
	}
	if err := writeFileIndex(w, entries); err != nil {
		return err
	}
	if pad := header.DataOffset - tocSize; pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("hgpak: pad to data offset: %w", err)
		}
	}

	if err := writePadded(w, blob); err != nil {
		return err
	}
	for _, s := range sources {
		if err := streamPadded(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writePadded(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("hgpak: write file data: %w", err)
	}
	if p := pad16(uint64(len(data))); p > 0 {
		if _, err := w.Write(make([]byte, p)); err != nil {
			return fmt.Errorf("hgpak: pad file data: %w", err)
		}
	}
	return nil
}

func streamSource(s FileSource, addBytes func([]byte) error) error {
	rc, err := s.Open()
	if err != nil {
		return fmt.Errorf("hgpak: open %s: %w", s.Path, err)
	}
	defer rc.Close()

	buf := make([]byte, 1<<20)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			if aerr := addBytes(buf[:n]); aerr != nil {
				return aerr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("hgpak: read %s: %w", s.Path, err)
		}
	}
}

func streamPadded(w io.Writer, s FileSource) error {
	rc, err := s.Open()
	if err != nil {
		return fmt.Errorf("hgpak: open %s: %w", s.Path, err)
	}
	defer rc.Close()

	var written uint64
	buf := make([]byte, 1<<20)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("hgpak: write %s: %w", s.Path, werr)
			}
			written += uint64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("hgpak: read %s: %w", s.Path, err)
		}
	}
	if p := pad16(written); p > 0 {
		if _, werr := w.Write(make([]byte, p)); werr != nil {
			return fmt.Errorf("hgpak: pad %s: %w", s.Path, werr)
		}
	}
	return nil
}

// Pack builds an archive from sources and atomically replaces destPath
// with it: the archive is assembled in a uuid-named sibling temp file
// first, then renamed into place, so a reader never observes a
// partially-written archive at destPath.
func Pack(destPath string, sources []FileSource, opts WriteOptions) error {
	dir := filepath.Dir(destPath)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.hgpak.tmp", uuid.NewString()))

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("hgpak: create temp archive: %w", err)
	}

	if err := Write(f, sources, opts); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("hgpak: close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("hgpak: rename into place: %w", err)
	}
	return nil
}
