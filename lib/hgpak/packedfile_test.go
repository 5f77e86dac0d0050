package hgpak

import "testing"

func TestContainingChunksOffsetOnBoundary(t *testing.T) {
	// offset % chunkSize == 0 must land start on offset/chunkSize, not
	// offset/chunkSize - 1 — the off-by-one this formula exists to avoid.
	start, end := containingChunks(0x10000, 0x10000, 0x10000)
	if start != 1 {
		t.Errorf("start = %d, want 1", start)
	}
	if end != 1 {
		t.Errorf("end = %d, want 1", end)
	}
}

func TestContainingChunksMidChunk(t *testing.T) {
	start, end := containingChunks(0x10, 0x10000, 0x10000)
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if end != 1 {
		t.Errorf("end = %d, want 1", end)
	}
}

func TestContainingChunksSingleChunk(t *testing.T) {
	start, end := containingChunks(0x20, 0x10, 0x10000)
	if start != end {
		t.Errorf("start=%d end=%d, want a single chunk", start, end)
	}
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
}

func TestNewPackedFileOffsets(t *testing.T) {
	pf := newPackedFile("a/b.bin", [16]byte{}, 0x10, 0x20000, 0x10000)
	if pf.StartChunk != 0 || pf.EndChunk != 2 {
		t.Errorf("got chunk range [%d, %d], want [0, 2]", pf.StartChunk, pf.EndChunk)
	}
	if pf.FirstChunkOffset != 0x10 {
		t.Errorf("FirstChunkOffset = %#x, want %#x", pf.FirstChunkOffset, 0x10)
	}
	if pf.LastChunkOffsetEnd != 0x10 {
		t.Errorf("LastChunkOffsetEnd = %#x, want %#x", pf.LastChunkOffsetEnd, 0x10)
	}
}
