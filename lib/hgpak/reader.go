package hgpak

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"path"
	"strings"

	"github.com/sargunv/hgpaktool/lib/hgpak/codec"
)

// Reader parses an HGPAK archive's table of contents and exposes
// selective, chunk-cached extraction. A Reader owns its file handle
// exclusively from Open to Close; it is not safe for concurrent use
// from multiple goroutines. Two independent Readers may open the same
// archive path concurrently — each gets its own handle and cache.
type Reader struct {
	f      *os.File
	header *Header

	codec     codec.Codec // nil for an uncompressed archive
	chunkSize int

	chunkSizes   []uint64 // nil for an uncompressed archive
	chunkOffsets []uint64 // absolute byte offset of each chunk's compressed data

	// totalSize is the sum of every FileIndex entry's decompressed size
	// (filename blob plus all files), used to derive the true, possibly
	// shorter, decompressed length of the archive's final chunk.
	totalSize uint64

	cache *chunkCache

	// files holds user-visible PackedFile descriptors in FileIndex order
	// (index 0 in the on-disk FileIndex is the filename blob and is not
	// represented here).
	files  []PackedFile
	byName map[string]*PackedFile
}

// Open parses path's header, file index, chunk index (if compressed) and
// filename blob, and returns a ready-to-extract Reader. The codec is
// guessed from the on-disk layout; when the platform that produced the
// archive is already known, prefer OpenWithPlatform.
func Open(archivePath string) (*Reader, error) {
	return openArchive(archivePath, nil)
}

// OpenWithPlatform parses path the same way Open does, but uses the
// given platform's codec instead of guessing one from the on-disk
// layout. This is the only reliable way to pick between codecs that
// share a chunk size on some platforms.
func OpenWithPlatform(archivePath string, platform Platform) (*Reader, error) {
	return openArchive(archivePath, &platform)
}

func openArchive(archivePath string, platform *Platform) (*Reader, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("hgpak: open %s: %w", archivePath, err)
	}

	r, err := newReader(f, platform)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(f *os.File, platform *Platform) (*Reader, error) {
	header, err := readHeader(f)
	if err != nil {
		return nil, err
	}
	if header.FileCount == 0 {
		return nil, &InvalidFormatError{Reason: "file_count is zero, expected at least the filename blob"}
	}

	fileIndex, err := readFileIndex(f, headerSize, header.FileCount)
	if err != nil {
		return nil, err
	}

	var totalSize uint64
	for _, e := range fileIndex {
		totalSize += e.DecompressedSize
	}

	r := &Reader{
		f:         f,
		header:    header,
		cache:     newChunkCache(),
		byName:    make(map[string]*PackedFile, header.FileCount-1),
		totalSize: totalSize,
	}

	var blob []byte
	if !header.IsCompressed {
		blob = make([]byte, fileIndex[0].DecompressedSize)
		if _, err := f.ReadAt(blob, int64(fileIndex[0].StartOffset)); err != nil {
			return nil, fmt.Errorf("hgpak: read filename blob: %w", err)
		}
		for i := 1; i < len(fileIndex); i++ {
			r.files = append(r.files, PackedFile{
				Hash:   fileIndex[i].Hash,
				Offset: fileIndex[i].StartOffset,
				Size:   fileIndex[i].DecompressedSize,
			})
		}
	} else {
		chunkIndexOffset := int64(headerSize) + int64(fileIndexEntrySize)*int64(header.FileCount)
		sizes, err := readChunkIndex(f, chunkIndexOffset, header.ChunkCount)
		if err != nil {
			return nil, err
		}
		r.chunkSizes = sizes
		r.chunkOffsets = chunkByteOffsets(header.DataOffset, sizes)

		var kind codec.Kind
		var chunkSize int
		if platform != nil {
			chunkSize, err = platform.ChunkSize()
			if err != nil {
				return nil, err
			}
			r.codec, err = platform.newCodec()
			if err != nil {
				return nil, err
			}
		} else {
			kind, chunkSize, err = detectCodec(sizes, totalSize)
			if err != nil {
				return nil, err
			}
			r.codec, err = codec.New(kind)
			if err != nil {
				return nil, err
			}
		}
		r.chunkSize = chunkSize

		blobChunks := bins(fileIndex[0].DecompressedSize, uint64(chunkSize))
		blob = make([]byte, 0, fileIndex[0].DecompressedSize)
		for i := uint64(0); i < blobChunks; i++ {
			data, err := r.readChunk(i)
			if err != nil {
				return nil, fmt.Errorf("hgpak: decompress filename blob chunk %d: %w", i, err)
			}
			blob = append(blob, data...)
		}
		blob = blob[:fileIndex[0].DecompressedSize]

		for i := 1; i < len(fileIndex); i++ {
			offset := fileIndex[i].StartOffset - header.DataOffset
			r.files = append(r.files, newPackedFile("", fileIndex[i].Hash, offset, fileIndex[i].DecompressedSize, uint64(chunkSize)))
		}
	}

	names, err := parseFilenameBlob(blob)
	if err != nil {
		return nil, err
	}
	if len(names) != len(r.files) {
		return nil, &InvalidFormatError{Reason: fmt.Sprintf("filename blob lists %d names but file index has %d user entries", len(names), len(r.files))}
	}
	for i, name := range names {
		r.files[i].Path = name
		r.byName[name] = &r.files[i]
	}

	return r, nil
}

// detectCodec infers a codec for a Reader opened without a known
// platform: HGPAK's header carries no codec tag, so this checks whether
// the chunk count is consistent with the archive's total decompressed
// size split at the small chunk size to tell Zstd apart from the
// large-chunk codecs. An archive small enough to fit one chunk of either
// size is reported as Zstd. It cannot distinguish LZ4 from Oodle —
// callers who need that distinction must use OpenWithPlatform.
func detectCodec(sizes []uint64, totalSize uint64) (codec.Kind, int, error) {
	if len(sizes) == 0 {
		return codec.Zstd, codec.ChunkSizeSmall, nil
	}
	if bins(totalSize, uint64(codec.ChunkSizeSmall)) > uint64(len(sizes)) {
		return codec.Oodle, codec.ChunkSizeLarge, nil
	}
	return codec.Zstd, codec.ChunkSizeSmall, nil
}

// Close releases the underlying file handle and drops the chunk cache.
func (r *Reader) Close() error {
	r.cache.purge()
	return r.f.Close()
}

// Header returns the parsed archive header.
func (r *Reader) Header() *Header {
	return r.header
}

// Files returns every user-visible PackedFile in file-index order. The
// returned slice shares storage with the Reader; callers must not mutate
// it.
func (r *Reader) Files() []PackedFile {
	return r.files
}

// readChunk decompresses chunk index i, consulting and populating the
// cache. Chunk decompressions are memoized: two calls for the same
// index return the same bytes.
func (r *Reader) readChunk(i uint64) ([]byte, error) {
	if cached, ok := r.cache.get(i); ok {
		return cached, nil
	}

	size := r.chunkSizes[i]
	expected := r.chunkSize
	if i == uint64(len(r.chunkSizes))-1 {
		if tail := r.finalChunkSize(); tail > 0 {
			expected = tail
		}
	}

	if int(size) == r.chunkSize {
		// Passthrough: the "compressed" bytes are the raw bytes.
		data := make([]byte, expected)
		if _, err := r.f.ReadAt(data, int64(r.chunkOffsets[i])); err != nil {
			return nil, fmt.Errorf("read passthrough chunk %d: %w", i, err)
		}
		r.cache.add(i, data)
		return data, nil
	}

	payload := make([]byte, size)
	if _, err := r.f.ReadAt(payload, int64(r.chunkOffsets[i])); err != nil {
		return nil, fmt.Errorf("read chunk %d: %w", i, err)
	}

	data, err := r.codec.Decompress(payload, expected)
	if err != nil {
		if looksLikeOodleSignature(payload) && r.codec.Kind() != codec.Oodle {
			return nil, &CodecError{Codec: r.codec.Kind().String(), Err: err, LooksLikeOodle: true}
		}
		if len(payload) == r.chunkSize {
			// Passthrough heuristic recovery: a codec failure on a chunk
			// whose stored size already equals chunkSize is treated as
			// literal bytes instead of propagated.
			r.cache.add(i, payload)
			return payload, nil
		}
		return nil, &CodecError{Codec: r.codec.Kind().String(), Err: err}
	}

	r.cache.add(i, data)
	return data, nil
}

func looksLikeOodleSignature(payload []byte) bool {
	return len(payload) >= 2 && payload[0] == 0x8C && payload[1] == 0x0A
}

// finalChunkSize derives the true decompressed length of the archive's
// last chunk from totalSize, the sum of every FileIndex entry's
// decompressed size — parsed from the table of contents and so already
// known before the filename blob's own chunks are decoded. The
// equivalent derivation from r.files would be too late: the blob's
// chunks are decompressed, via this function, before r.files is
// populated.
func (r *Reader) finalChunkSize() int {
	if len(r.chunkSizes) == 0 {
		return 0
	}
	lastStart := uint64(len(r.chunkSizes)-1) * uint64(r.chunkSize)
	if r.totalSize <= lastStart {
		return r.chunkSize
	}
	tail := int(r.totalSize - lastStart)
	if tail <= 0 || tail > r.chunkSize {
		return r.chunkSize
	}
	return tail
}

// Filter selects a subset of an archive's files for extraction or
// listing. The zero value matches every file. Patterns containing '*'
// are matched as globs against the stored (lowercased, forward-slash)
// name; any other pattern must match exactly after lowercasing.
// Multiple patterns are combined by union.
type Filter struct {
	patterns []string
}

// AllFiles returns a Filter matching every file in the archive.
func AllFiles() Filter {
	return Filter{}
}

// NewFilter builds a Filter from one or more patterns.
func NewFilter(patterns ...string) Filter {
	normalized := make([]string, len(patterns))
	for i, p := range patterns {
		normalized[i] = strings.ToLower(filepathToSlash(p))
	}
	return Filter{patterns: normalized}
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func (f Filter) matches(name string) bool {
	if len(f.patterns) == 0 {
		return true
	}
	for _, pattern := range f.patterns {
		if strings.Contains(pattern, "*") {
			if ok, _ := path.Match(pattern, name); ok {
				return true
			}
			continue
		}
		if pattern == name {
			return true
		}
	}
	return false
}

// Select returns the PackedFiles matching filter, in file-index order —
// result ordering is always deterministic regardless of pattern order.
func (r *Reader) Select(filter Filter) []*PackedFile {
	var out []*PackedFile
	for i := range r.files {
		if filter.matches(r.files[i].Path) {
			out = append(out, &r.files[i])
		}
	}
	return out
}

// Lookup returns the PackedFile stored under the given path (matched
// exactly, case-insensitively), or a *NotFoundError.
func (r *Reader) Lookup(pathStr string) (*PackedFile, error) {
	name := strings.ToLower(filepathToSlash(pathStr))
	pf, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{Path: pathStr}
	}
	return pf, nil
}

// Extract yields the byte ranges making up pf's content, in ascending
// chunk order, stopping early once maxBytes bytes have been emitted. A
// negative maxBytes means "the whole file"; zero means "no data".
// Callers cancel by abandoning the range loop.
func (r *Reader) Extract(pf *PackedFile, maxBytes int64) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if maxBytes == 0 {
			return
		}
		limit := pf.Size
		if maxBytes > 0 && uint64(maxBytes) < limit {
			limit = uint64(maxBytes)
		}

		if r.codec == nil {
			r.extractUncompressed(pf, limit, yield)
			return
		}
		r.extractCompressed(pf, limit, yield)
	}
}

func (r *Reader) extractUncompressed(pf *PackedFile, limit uint64, yield func([]byte, error) bool) {
	const bufSize = codec.ChunkSizeSmall
	remaining := limit
	offset := int64(pf.Offset)
	buf := make([]byte, bufSize)
	for remaining > 0 {
		n := uint64(bufSize)
		if remaining < n {
			n = remaining
		}
		chunk := buf[:n]
		if _, err := r.f.ReadAt(chunk, offset); err != nil {
			yield(nil, fmt.Errorf("hgpak: read %s: %w", pf.Path, err))
			return
		}
		if !yield(chunk, nil) {
			return
		}
		offset += int64(n)
		remaining -= n
	}
}

func (r *Reader) extractCompressed(pf *PackedFile, limit uint64, yield func([]byte, error) bool) {
	var emitted uint64

	emit := func(b []byte) bool {
		if emitted >= limit {
			return false
		}
		if remain := limit - emitted; uint64(len(b)) > remain {
			b = b[:remain]
		}
		emitted += uint64(len(b))
		return yield(b, nil)
	}

	if pf.StartChunk == pf.EndChunk {
		data, err := r.readChunk(pf.StartChunk)
		if err != nil {
			yield(nil, err)
			return
		}
		end := pf.LastChunkOffsetEnd
		if end == 0 {
			end = uint64(len(data))
		}
		emit(data[pf.FirstChunkOffset:end])
		return
	}

	first, err := r.readChunk(pf.StartChunk)
	if err != nil {
		yield(nil, err)
		return
	}
	if !emit(first[pf.FirstChunkOffset:]) {
		return
	}

	for c := pf.StartChunk + 1; c < pf.EndChunk; c++ {
		data, err := r.readChunk(c)
		if err != nil {
			yield(nil, err)
			return
		}
		if !emit(data) {
			return
		}
	}

	last, err := r.readChunk(pf.EndChunk)
	if err != nil {
		yield(nil, err)
		return
	}
	end := pf.LastChunkOffsetEnd
	if end == 0 {
		end = uint64(len(last))
	}
	emit(last[:end])
}

// ReadAll drains Extract into a single byte slice, for callers that
// don't need the streaming form.
func (r *Reader) ReadAll(pf *PackedFile) ([]byte, error) {
	var buf bytes.Buffer
	for chunk, err := range r.Extract(pf, -1) {
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
	return buf.Bytes(), nil
}

// WriteTo streams pf's content to w.
func (r *Reader) WriteTo(pf *PackedFile, w io.Writer) (int64, error) {
	var total int64
	for chunk, err := range r.Extract(pf, -1) {
		if err != nil {
			return total, err
		}
		n, werr := w.Write(chunk)
		total += int64(n)
		if werr != nil {
			return total, werr
		}
	}
	return total, nil
}
