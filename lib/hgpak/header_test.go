package hgpak

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	want := &Header{
		Version:      CurrentVersion,
		FileCount:    3,
		ChunkCount:   5,
		IsCompressed: true,
		DataOffset:   0x1230,
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, want); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	if buf.Len() != headerSize {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), headerSize)
	}

	got, err := readHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if *got != *want {
		t.Errorf("readHeader() = %+v, want %+v", got, want)
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	copy(buf, "NOTHGPK\x00")
	if _, err := readHeader(bytes.NewReader(buf)); err == nil {
		t.Fatal("expected an error for bad magic, got nil")
	}
}

func TestHeaderRejectsUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	h := &Header{Version: CurrentVersion + 1, FileCount: 1}
	if err := writeHeader(&buf, h); err != nil {
		t.Fatalf("writeHeader: %v", err)
	}

	_, err := readHeader(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatal("expected an error for an unsupported version, got nil")
	}
	var verErr *UnsupportedVersionError
	if !asUnsupportedVersion(err, &verErr) {
		t.Errorf("expected *UnsupportedVersionError, got %T: %v", err, err)
	}
}

func asUnsupportedVersion(err error, target **UnsupportedVersionError) bool {
	if v, ok := err.(*UnsupportedVersionError); ok {
		*target = v
		return true
	}
	return false
}
