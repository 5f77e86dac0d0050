// Package codec implements the uniform compress/decompress adapter over
// the three codecs an HGPAK archive can be built with: Zstd, LZ4 block,
// and Oodle LZ. Each variant is a concrete type implementing Codec, chosen
// once at reader/writer construction time; readers and writers hold it as
// a Codec interface value and call it through that interface.
package codec

import (
	"errors"
	"fmt"
)

// ErrCompressUnsupported is returned by a Codec whose Compress path isn't
// implemented. Zstd is decode-only: archives store zstd chunks this
// package can read, but it cannot produce new ones.
var ErrCompressUnsupported = errors.New("codec: compression not implemented")

// ChunkSize values, one per codec family.
const (
	ChunkSizeSmall = 0x10000 // Zstd — windows/linux
	ChunkSizeLarge = 0x20000 // LZ4, Oodle — mac/switch
)

// Kind identifies which codec variant is in use.
type Kind int

const (
	Zstd Kind = iota
	LZ4
	Oodle
)

func (k Kind) String() string {
	switch k {
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Oodle:
		return "oodle"
	default:
		return "unknown"
	}
}

// Codec compresses and decompresses fixed-size chunks for one codec
// variant. Implementations are safe for concurrent use only to the extent
// the underlying library is; HGPAK itself never calls a Codec from more
// than one goroutine.
type Codec interface {
	Kind() Kind
	ChunkSize() int

	// Compress returns a compressed payload shorter than ChunkSize() on
	// success. The caller is responsible for the passthrough fallback
	// when it isn't.
	Compress(decompressed []byte) ([]byte, error)

	// Decompress inflates payload into exactly expectedSize bytes, except
	// for the final chunk of an archive which may be shorter.
	Decompress(payload []byte, expectedSize int) ([]byte, error)
}

// oodleSignature is the two-byte prefix ("\x8C\x0A") that marks a
// Switch/Oodle-compressed chunk.
var oodleSignature = [2]byte{0x8C, 0x0A}

// looksLikeOodle reports whether payload begins with the Oodle signature.
func looksLikeOodle(payload []byte) bool {
	return len(payload) >= 2 && payload[0] == oodleSignature[0] && payload[1] == oodleSignature[1]
}

// New constructs the Codec for the given variant.
func New(kind Kind) (Codec, error) {
	switch kind {
	case Zstd:
		return newZstd(), nil
	case LZ4:
		return newLZ4(), nil
	case Oodle:
		return newOodle()
	default:
		return nil, fmt.Errorf("codec: unknown kind %d", kind)
	}
}
