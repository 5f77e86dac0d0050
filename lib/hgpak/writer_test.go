package hgpak_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sargunv/hgpaktool/internal/pakfs"
	. "github.com/sargunv/hgpaktool/lib/hgpak"
)

func memSource(path string, data []byte) FileSource {
	return FileSource{
		Path: path,
		Size: uint64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestWriteReadRoundTripCompressed(t *testing.T) {
	sources := []FileSource{
		memSource("textures/wood.png", bytes.Repeat([]byte{0xAB}, 5000)),
		memSource("models/crate.obj", []byte("v 0 0 0\nv 1 0 0\nv 1 1 0\n")),
		memSource("readme.txt", []byte("hello world")),
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.hgpak")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Write(f, sources, WriteOptions{Platform: PlatformMac, Compressed: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reader, err := OpenWithPlatform(archivePath, PlatformMac)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	if !reader.Header().IsCompressed {
		t.Fatal("expected IsCompressed to be true")
	}
	if len(reader.Files()) != len(sources) {
		t.Fatalf("got %d files, want %d", len(reader.Files()), len(sources))
	}

	for _, s := range sources {
		pf, err := reader.Lookup(s.Path)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", s.Path, err)
		}
		got, err := reader.ReadAll(pf)
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", s.Path, err)
		}
		rc, _ := s.Open()
		want, _ := io.ReadAll(rc)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: content mismatch, got %d bytes want %d bytes", s.Path, len(got), len(want))
		}
	}
}

func TestWriteCompressedZstdUnsupported(t *testing.T) {
	sources := []FileSource{memSource("readme.txt", []byte("hello world"))}

	for _, platform := range []Platform{PlatformWindows, PlatformLinux} {
		var buf bytes.Buffer
		err := Write(&buf, sources, WriteOptions{Platform: platform, Compressed: true})
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("Write(%s, Compressed: true): got %v, want ErrUnsupported", platform, err)
		}
	}
}

// TestPackUnpackRepackByteIdentical exercises the full pack -> unpack
// (with a manifest) -> repack-via-manifest cycle and requires the
// resulting archive to be byte-for-byte identical to the original.
func TestPackUnpackRepackByteIdentical(t *testing.T) {
	srcDir := t.TempDir()
	mustWriteFile(t, filepath.Join(srcDir, "textures/wood.png"), bytes.Repeat([]byte{0xCD}, 4000))
	mustWriteFile(t, filepath.Join(srcDir, "models/crate.obj"), []byte("v 0 0 0\nv 1 0 0\nv 1 1 0\n"))
	mustWriteFile(t, filepath.Join(srcDir, "readme.txt"), []byte("hello world"))

	sources, err := pakfs.Walk(srcDir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	opts := WriteOptions{Platform: PlatformMac, Compressed: true}

	originalPath := filepath.Join(t.TempDir(), "original.hgpak")
	if err := Pack(originalPath, sources, opts); err != nil {
		t.Fatalf("Pack original: %v", err)
	}

	reader, err := OpenWithPlatform(originalPath, PlatformMac)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	outDir := t.TempDir()
	files := reader.Select(AllFiles())
	paths := make([]string, len(files))
	for i, pf := range files {
		paths[i] = pf.Path
		dest := filepath.Join(outDir, filepath.FromSlash(pf.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		f, err := os.Create(dest)
		if err != nil {
			t.Fatalf("create %s: %v", dest, err)
		}
		if _, err := reader.WriteTo(pf, f); err != nil {
			f.Close()
			t.Fatalf("extract %s: %v", pf.Path, err)
		}
		f.Close()
	}
	manifest := &Manifest{Paths: paths}

	repackSources, err := pakfs.Walk(outDir)
	if err != nil {
		t.Fatalf("Walk(outDir): %v", err)
	}
	ordered, err := pakfs.Order(repackSources, manifest)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}

	repackedPath := filepath.Join(t.TempDir(), "repacked.hgpak")
	if err := Pack(repackedPath, ordered, opts); err != nil {
		t.Fatalf("Pack repacked: %v", err)
	}

	original, err := os.ReadFile(originalPath)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	repacked, err := os.ReadFile(repackedPath)
	if err != nil {
		t.Fatalf("read repacked: %v", err)
	}
	if !bytes.Equal(original, repacked) {
		t.Fatalf("repacked archive differs from original: %d bytes vs %d bytes", len(repacked), len(original))
	}
}

func mustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWriteReadRoundTripUncompressed(t *testing.T) {
	sources := []FileSource{
		memSource("a.bin", []byte("short file")),
		memSource("dir/b.bin", bytes.Repeat([]byte{0x01, 0x02}, 100)),
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.hgpak")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Write(f, sources, WriteOptions{Compressed: false}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reader, err := Open(archivePath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	if reader.Header().IsCompressed {
		t.Fatal("expected IsCompressed to be false")
	}

	for _, s := range sources {
		pf, err := reader.Lookup(s.Path)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", s.Path, err)
		}
		got, err := reader.ReadAll(pf)
		if err != nil {
			t.Fatalf("ReadAll(%s): %v", s.Path, err)
		}
		rc, _ := s.Open()
		want, _ := io.ReadAll(rc)
		if !bytes.Equal(got, want) {
			t.Errorf("%s: content mismatch", s.Path)
		}
	}
}

func TestSelectFilterGlob(t *testing.T) {
	sources := []FileSource{
		memSource("textures/rainbowplane.png", []byte("a")),
		memSource("textures/rainbowplane_n.png", []byte("b")),
		memSource("models/skycube.obj", []byte("c")),
		memSource("models/skycube_lod1.obj", []byte("d")),
		memSource("readme.txt", []byte("e")),
	}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.hgpak")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Write(f, sources, WriteOptions{Platform: PlatformMac, Compressed: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	reader, err := OpenWithPlatform(archivePath, PlatformMac)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	matched := reader.Select(NewFilter("textures/*rainbowplane*", "models/*skycube*"))
	if len(matched) != 4 {
		names := make([]string, len(matched))
		for i, pf := range matched {
			names[i] = pf.Path
		}
		t.Fatalf("got %d matches %v, want 4", len(matched), names)
	}
}

func TestExtractMaxBytes(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000) // 100000 bytes, within one 0x20000-byte mac chunk
	sources := []FileSource{memSource("big.bin", data)}

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "out.hgpak")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Write(f, sources, WriteOptions{Platform: PlatformMac, Compressed: true}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	reader, err := OpenWithPlatform(archivePath, PlatformMac)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reader.Close()

	pf, err := reader.Lookup("big.bin")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	const limit = 12345
	var got []byte
	for chunk, err := range reader.Extract(pf, limit) {
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		got = append(got, chunk...)
	}
	if len(got) != limit {
		t.Fatalf("got %d bytes, want %d", len(got), limit)
	}
	if !bytes.Equal(got, data[:limit]) {
		t.Fatal("truncated extraction content mismatch")
	}
}
