package codec

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Oodle selector/level used for compression.
const (
	oodleCompressor = 9 // OodleLZ_Compressor_Kraken
	oodleLevel      = 6 // OodleLZ_CompressionLevel_Normal
)

// ErrLibraryUnavailable is returned when the Oodle shared library is
// missing or fails to load. It is distinct from a codec failure on data
// already read from an archive.
var ErrLibraryUnavailable = errors.New("oodle: shared library unavailable")

// LibraryPathEnv names the environment variable holding the path to the
// platform's Oodle shared library (oo2core_*.dll / libooz.so / similar).
// HGPAK never downloads this library itself; it only loads what's
// already on disk.
const LibraryPathEnv = "HGPAK_OODLE_LIBRARY"

// oodleLibrary is the native entry points this package needs, resolved
// from the shared library by the build-tag-specific loader in
// oodle_cgo_unix.go / oodle_cgo_windows.go / oodle_nocgo.go.
type oodleLibrary interface {
	compress(decompressed []byte) ([]byte, error)
	decompress(payload []byte, expectedSize int) ([]byte, error)
}

var (
	libOnce sync.Once
	lib     oodleLibrary
	libErr  error
)

// loadLibrary lazily initializes the process-wide Oodle handle on first
// use. Subsequent Oodle codec instances share the loaded handle.
func loadLibrary() (oodleLibrary, error) {
	libOnce.Do(func() {
		path := os.Getenv(LibraryPathEnv)
		if path == "" {
			libErr = fmt.Errorf("%w: set %s to the Oodle shared library path", ErrLibraryUnavailable, LibraryPathEnv)
			return
		}
		lib, libErr = openLibrary(path)
		if libErr != nil {
			libErr = fmt.Errorf("%w: %v", ErrLibraryUnavailable, libErr)
		}
	})
	return lib, libErr
}

// oodleCodec implements Codec for Switch archives (ChunkSizeLarge).
type oodleCodec struct {
	lib oodleLibrary
}

func newOodle() (*oodleCodec, error) {
	l, err := loadLibrary()
	if err != nil {
		return nil, err
	}
	return &oodleCodec{lib: l}, nil
}

func (o *oodleCodec) Kind() Kind     { return Oodle }
func (o *oodleCodec) ChunkSize() int { return ChunkSizeLarge }

func (o *oodleCodec) Compress(decompressed []byte) ([]byte, error) {
	return o.lib.compress(decompressed)
}

func (o *oodleCodec) Decompress(payload []byte, expectedSize int) ([]byte, error) {
	return o.lib.decompress(payload, expectedSize)
}
