package hgpak

import (
	"strings"
	"testing"
)

func TestParseFilenameBlob(t *testing.T) {
	blob := []byte("textures/wood.png\r\nmodels/crate.obj\r\n\r\nsounds/clank.wav\r\n")
	names, err := parseFilenameBlob(blob)
	if err != nil {
		t.Fatalf("parseFilenameBlob: %v", err)
	}
	want := []string{"textures/wood.png", "models/crate.obj", "sounds/clank.wav"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d: %v", len(names), len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEncodeFilenameBlobRoundTrip(t *testing.T) {
	names := []string{"a.txt", "sub/b.txt", "Sub/Upper.TXT"}
	blob := encodeFilenameBlob(names)
	if !strings.Contains(string(blob), "\r\n") {
		t.Fatal("encoded blob does not use CRLF line endings")
	}

	got, err := parseFilenameBlob(blob)
	if err != nil {
		t.Fatalf("parseFilenameBlob: %v", err)
	}
	want := []string{"a.txt", "sub/b.txt", "sub/upper.txt"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadManifest(t *testing.T) {
	r := strings.NewReader("icons/a.png\r\nicons/b.png\r\n\r\n")
	m, err := ReadManifest(r)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(m.Paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(m.Paths), m.Paths)
	}
}
