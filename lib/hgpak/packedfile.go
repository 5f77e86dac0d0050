package hgpak

// PackedFile is a logical file entry within the decompressed data region:
// its offset and size relative to data_offset, its original path, and the
// chunk range it spans.
type PackedFile struct {
	Path   string
	Hash   [16]byte
	Offset uint64
	Size   uint64

	StartChunk uint64
	EndChunk   uint64

	// FirstChunkOffset is offset mod chunkSize: where within StartChunk
	// this file's bytes begin.
	FirstChunkOffset uint64
	// LastChunkOffsetEnd is (offset+size) mod chunkSize; 0 means "to the
	// end of the chunk".
	LastChunkOffsetEnd uint64
}

// containingChunks computes (start_chunk, end_chunk) for a file spanning
// [offset, offset+size) within a chunked data region. The
// offset%chunkSize==0 edge case must land on offset/chunkSize, never
// offset/chunkSize-1 — the classic off-by-one this formula exists to
// avoid.
func containingChunks(offset, size uint64, chunkSize uint64) (start, end uint64) {
	if offset%chunkSize == 0 {
		start = offset / chunkSize
	} else {
		start = bins(offset, chunkSize) - 1
	}
	end = bins(offset+size, chunkSize) - 1
	return start, end
}

// newPackedFile builds a PackedFile descriptor for one file index entry,
// given its logical offset (already rebased to data-region origin by the
// caller) and the codec's chunk size.
func newPackedFile(path string, hash [16]byte, offset, size uint64, chunkSize uint64) PackedFile {
	start, end := containingChunks(offset, size, chunkSize)
	return PackedFile{
		Path:               path,
		Hash:               hash,
		Offset:             offset,
		Size:               size,
		StartChunk:         start,
		EndChunk:           end,
		FirstChunkOffset:   offset % chunkSize,
		LastChunkOffsetEnd: (offset + size) % chunkSize,
	}
}
