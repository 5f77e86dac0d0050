package hgpak

import (
	"bytes"
	"testing"
)

func TestChunkIndexRoundTrip(t *testing.T) {
	sizes := []uint64{0x10000, 0x8000, 0x123, 0x10000}

	var buf bytes.Buffer
	if err := writeChunkIndex(&buf, sizes); err != nil {
		t.Fatalf("writeChunkIndex: %v", err)
	}

	got, err := readChunkIndex(bytes.NewReader(buf.Bytes()), 0, uint64(len(sizes)))
	if err != nil {
		t.Fatalf("readChunkIndex: %v", err)
	}
	for i := range sizes {
		if got[i] != sizes[i] {
			t.Errorf("size %d = %d, want %d", i, got[i], sizes[i])
		}
	}
}

func TestChunkByteOffsets(t *testing.T) {
	const dataOffset = 0x1000
	sizes := []uint64{0x100, 0x123, 0x10000}

	offsets := chunkByteOffsets(dataOffset, sizes)
	if len(offsets) != len(sizes) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(sizes))
	}

	want := uint64(dataOffset)
	for i, size := range sizes {
		if offsets[i] != want {
			t.Errorf("offset %d = %d, want %d", i, offsets[i], want)
		}
		want += chunkOnDisk(size)
	}
}
