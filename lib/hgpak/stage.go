package hgpak

import (
	"fmt"
	"io"

	"github.com/sargunv/hgpaktool/lib/hgpak/codec"
)

// stageBuffer accumulates decompressed bytes from a stream of files into
// fixed-size chunks, compressing and flushing each chunk as it fills. It
// has no knowledge of file boundaries: a chunk routinely holds the tail
// of one file and the head of the next, which is why PackedFile's chunk
// range can start or end mid-chunk on the read side.
type stageBuffer struct {
	codec     codec.Codec
	chunkSize int
	out       io.Writer

	buf []byte

	sizes  []uint64 // compressed_size of each chunk flushed so far
	onDisk uint64   // running total of 16-byte-aligned bytes written to out
}

func newStageBuffer(c codec.Codec, chunkSize int, out io.Writer) *stageBuffer {
	return &stageBuffer{
		codec:     c,
		chunkSize: chunkSize,
		out:       out,
		buf:       make([]byte, 0, chunkSize),
	}
}

// addBytes appends data to the buffer, flushing every full chunkSize
// chunk it completes along the way.
func (s *stageBuffer) addBytes(data []byte) error {
	for len(data) > 0 {
		room := s.chunkSize - len(s.buf)
		n := room
		if n > len(data) {
			n = len(data)
		}
		s.buf = append(s.buf, data[:n]...)
		data = data[n:]

		if len(s.buf) == s.chunkSize {
			if err := s.flushChunk(s.buf); err != nil {
				return err
			}
			s.buf = s.buf[:0]
		}
	}
	return nil
}

// flush emits whatever partial chunk remains in the buffer. Call this
// once, after the last addBytes, to flush the final chunk, which may be
// shorter than chunkSize.
func (s *stageBuffer) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	if err := s.flushChunk(s.buf); err != nil {
		return err
	}
	s.buf = s.buf[:0]
	return nil
}

// flushChunk compresses chunk and writes it to out, 16-byte-padded. When
// compression doesn't shrink the chunk (or fails), the raw bytes are
// written instead and the recorded size equals chunkSize, the passthrough
// sentinel a reader recognizes.
func (s *stageBuffer) flushChunk(chunk []byte) error {
	compressed, err := s.codec.Compress(chunk)
	payload := compressed
	if err != nil || len(compressed) >= len(chunk) {
		// Zero-extend a short final chunk so its recorded size is still
		// chunkSize.
		payload = make([]byte, s.chunkSize)
		copy(payload, chunk)
	}

	if _, err := s.out.Write(payload); err != nil {
		return fmt.Errorf("hgpak: write chunk: %w", err)
	}
	padding := pad16(uint64(len(payload)))
	if padding > 0 {
		if _, err := s.out.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("hgpak: pad chunk: %w", err)
		}
	}

	s.onDisk += uint64(len(payload)) + padding
	s.sizes = append(s.sizes, uint64(len(payload)))
	return nil
}

// chunkSizes returns the compressed_size of every chunk flushed so far,
// in order — the chunk index body.
func (s *stageBuffer) chunkSizes() []uint64 {
	return s.sizes
}
