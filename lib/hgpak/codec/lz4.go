package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec implements Codec for macOS archives (ChunkSizeLarge), using
// raw LZ4 block framing with no stored size.
type lz4Codec struct {
	compressor lz4.Compressor
}

func newLZ4() *lz4Codec {
	return &lz4Codec{}
}

func (c *lz4Codec) Kind() Kind     { return LZ4 }
func (c *lz4Codec) ChunkSize() int { return ChunkSizeLarge }

func (c *lz4Codec) Compress(decompressed []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(decompressed)))
	n, err := c.compressor.CompressBlock(decompressed, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: compress block: %w", err)
	}
	if n == 0 {
		// CompressBlock returns n == 0 when the input is incompressible
		// under the block format; the caller applies the passthrough rule.
		return nil, fmt.Errorf("lz4: incompressible block")
	}
	return dst[:n], nil
}

func (c *lz4Codec) Decompress(payload []byte, expectedSize int) ([]byte, error) {
	dst := make([]byte, expectedSize)
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: uncompress block: %w", err)
	}
	return dst[:n], nil
}
