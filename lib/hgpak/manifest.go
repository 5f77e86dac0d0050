package hgpak

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// lineSep is the line terminator used by both the in-archive filename
// blob and the on-disk manifest format.
const lineSep = "\r\n"

// normalizePath lowercases p and rewrites backslashes to forward
// slashes, the canonical form every stored path and every filter
// pattern is compared in.
func normalizePath(p string) string {
	return strings.ToLower(filepathToSlash(p))
}

// parseFilenameBlob splits a CRLF-terminated path list into its
// constituent names, discarding blank lines. Both the in-archive
// filename blob and a stand-alone manifest file use this same format.
func parseFilenameBlob(blob []byte) ([]string, error) {
	text := strings.ReplaceAll(string(blob), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		names = append(names, normalizePath(line))
	}
	return names, nil
}

// encodeFilenameBlob joins names into the CRLF-terminated byte form
// stored in the archive.
func encodeFilenameBlob(names []string) []byte {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(normalizePath(name))
		b.WriteString(lineSep)
	}
	return []byte(b.String())
}

// Manifest is the ordered list of paths a repack should reproduce,
// read from or written to a stand-alone manifest file. It shares its
// on-disk format with the archive's own filename blob.
type Manifest struct {
	Paths []string
}

// ReadManifest parses a manifest file from r.
func ReadManifest(r io.Reader) (*Manifest, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var paths []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		paths = append(paths, normalizePath(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("hgpak: read manifest: %w", err)
	}
	return &Manifest{Paths: paths}, nil
}

// ReadManifestFile opens path and parses it as a manifest.
func ReadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hgpak: open manifest %s: %w", path, err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// WriteTo emits m in the CRLF-terminated manifest format.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	blob := encodeFilenameBlob(m.Paths)
	n, err := w.Write(blob)
	return int64(n), err
}

// WriteManifestFile writes m to path, creating or truncating it.
func WriteManifestFile(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hgpak: create manifest %s: %w", path, err)
	}
	defer f.Close()
	if _, err := m.WriteTo(f); err != nil {
		return fmt.Errorf("hgpak: write manifest %s: %w", path, err)
	}
	return nil
}
