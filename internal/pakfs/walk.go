// Package pakfs walks a directory tree into the ordered []hgpak.FileSource
// slice the hgpak writer consumes, and applies a manifest's path order when
// one is given.
package pakfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sargunv/hgpaktool/lib/hgpak"
)

// Walk collects every regular file under root into []hgpak.FileSource,
// sorted by stored (lowercase, forward-slash) path for deterministic
// packing. Symlinks are skipped rather than followed.
func Walk(root string) ([]hgpak.FileSource, error) {
	var sources []hgpak.FileSource

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("pakfs: relativize %s: %w", p, err)
		}
		stored := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("pakfs: stat %s: %w", p, err)
		}

		sources = append(sources, hgpak.FileSource{
			Path: stored,
			Size: uint64(info.Size()),
			Open: func() (io.ReadCloser, error) {
				return os.Open(p)
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return strings.ToLower(sources[i].Path) < strings.ToLower(sources[j].Path)
	})
	return sources, nil
}

// Order reorders sources to match manifest's path order, appending any
// source not named in the manifest at the end (still sorted among
// themselves) and erroring if the manifest names a path Walk didn't find.
func Order(sources []hgpak.FileSource, manifest *hgpak.Manifest) ([]hgpak.FileSource, error) {
	byPath := make(map[string]hgpak.FileSource, len(sources))
	for _, s := range sources {
		byPath[strings.ToLower(filepath.ToSlash(s.Path))] = s
	}

	ordered := make([]hgpak.FileSource, 0, len(sources))
	seen := make(map[string]bool, len(sources))
	for _, p := range manifest.Paths {
		s, ok := byPath[p]
		if !ok {
			return nil, fmt.Errorf("pakfs: manifest names %q, not found under input directory", p)
		}
		ordered = append(ordered, s)
		seen[p] = true
	}

	for _, s := range sources {
		key := strings.ToLower(filepath.ToSlash(s.Path))
		if !seen[key] {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}
