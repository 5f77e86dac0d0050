package pakfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sargunv/hgpaktool/lib/hgpak"
)

func TestWalkFindsFilesSortedByPath(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "b", "file.txt"), "b")
	mustWrite(t, filepath.Join(dir, "a.txt"), "a")
	mustWrite(t, filepath.Join(dir, "A_CAPS.txt"), "caps")

	sources, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(sources))
	}

	want := []string{"a.txt", "A_CAPS.txt", "b/file.txt"}
	for i, s := range sources {
		if s.Path != want[i] {
			t.Errorf("sources[%d].Path = %q, want %q", i, s.Path, want[i])
		}
	}
}

func TestOrderAppliesManifestThenAppendsRest(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "a")
	mustWrite(t, filepath.Join(dir, "b.txt"), "b")
	mustWrite(t, filepath.Join(dir, "c.txt"), "c")

	sources, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	manifest := &hgpak.Manifest{Paths: []string{"c.txt", "a.txt"}}
	ordered, err := Order(sources, manifest)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}

	want := []string{"c.txt", "a.txt", "b.txt"}
	for i, s := range ordered {
		if s.Path != want[i] {
			t.Errorf("ordered[%d].Path = %q, want %q", i, s.Path, want[i])
		}
	}
}

func TestOrderErrorsOnUnknownManifestEntry(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "a")

	sources, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	_, err = Order(sources, &hgpak.Manifest{Paths: []string{"missing.txt"}})
	if err == nil {
		t.Fatal("expected an error for a manifest entry not found on disk")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
