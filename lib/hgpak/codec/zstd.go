package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// zstdCodec implements Codec for windows/linux archives (ChunkSizeSmall).
// It is decode-only: recompression under Zstd is not implemented, matching
// the reference tool, which raises NotImplementedError for this platform.
type zstdCodec struct{}

func newZstd() *zstdCodec { return &zstdCodec{} }

func (z *zstdCodec) Kind() Kind     { return Zstd }
func (z *zstdCodec) ChunkSize() int { return ChunkSizeSmall }

// Compress always fails: producing new Zstd-compressed chunks isn't
// implemented. Callers check Kind() and reject a Zstd write before this
// would ever be reached on the normal packing path.
func (z *zstdCodec) Compress(decompressed []byte) ([]byte, error) {
	return nil, ErrCompressUnsupported
}

// Decompress decompresses Zstandard compressed data using a single
// package-level decoder, shared across all zstdCodec instances.
func (z *zstdCodec) Decompress(payload []byte, expectedSize int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, expectedSize))
	if err != nil {
		return nil, err
	}
	return result, nil
}
