package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestZstdDecompress(t *testing.T) {
	c, err := New(Zstd)
	if err != nil {
		t.Fatalf("New(Zstd): %v", err)
	}

	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	compressed := enc.EncodeAll(original, nil)

	got, err := c.Decompress(compressed, len(original))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Fatal("decompressed payload does not match original")
	}
}

func TestZstdCompressUnsupported(t *testing.T) {
	c, err := New(Zstd)
	if err != nil {
		t.Fatalf("New(Zstd): %v", err)
	}
	if _, err := c.Compress([]byte("anything")); !errors.Is(err, ErrCompressUnsupported) {
		t.Fatalf("Compress: got %v, want ErrCompressUnsupported", err)
	}
}

func TestLZ4RoundTrip(t *testing.T) {
	c, err := New(LZ4)
	if err != nil {
		t.Fatalf("New(LZ4): %v", err)
	}
	roundTrip(t, c)
}

func roundTrip(t *testing.T, c Codec) {
	t.Helper()

	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)
	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("compressed %d bytes >= original %d bytes for a highly repetitive payload", len(compressed), len(original))
	}

	got, err := c.Decompress(compressed, len(original))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Fatal("decompressed payload does not match original")
	}
}

func TestZstdDecompressRandomData(t *testing.T) {
	c, err := New(Zstd)
	if err != nil {
		t.Fatalf("New(Zstd): %v", err)
	}

	original := make([]byte, 4096)
	if _, err := rand.Read(original); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	compressed := enc.EncodeAll(original, nil)

	got, err := c.Decompress(compressed, len(original))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Fatal("decompressed random payload does not match original")
	}
}

func TestLooksLikeOodle(t *testing.T) {
	cases := []struct {
		payload []byte
		want    bool
	}{
		{[]byte{0x8C, 0x0A, 0x01, 0x02}, true},
		{[]byte{0x00, 0x0A}, false},
		{[]byte{0x8C}, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := looksLikeOodle(c.payload); got != c.want {
			t.Errorf("looksLikeOodle(%v) = %v, want %v", c.payload, got, c.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Zstd.String() != "zstd" || LZ4.String() != "lz4" || Oodle.String() != "oodle" {
		t.Fatal("Kind.String() did not return the expected names")
	}
}

func TestChunkSizes(t *testing.T) {
	zstdCodec, _ := New(Zstd)
	if zstdCodec.ChunkSize() != ChunkSizeSmall {
		t.Errorf("zstd ChunkSize() = %d, want %d", zstdCodec.ChunkSize(), ChunkSizeSmall)
	}
	lz4Codec, _ := New(LZ4)
	if lz4Codec.ChunkSize() != ChunkSizeLarge {
		t.Errorf("lz4 ChunkSize() = %d, want %d", lz4Codec.ChunkSize(), ChunkSizeLarge)
	}
}
