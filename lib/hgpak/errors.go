package hgpak

import (
	"fmt"

	"github.com/sargunv/hgpaktool/lib/hgpak/codec"
)

// Sentinel errors for conditions that carry no extra context. Wrap with
// fmt.Errorf("...: %w", ...) at the call site, matching the chd package's
// convention.
var (
	// ErrInvalidFormat indicates bad magic, an unsupported version, or an
	// inconsistent table of contents. A table of contents cut short by the
	// end of the file is reported as the underlying read error, not as
	// ErrInvalidFormat.
	ErrInvalidFormat = fmt.Errorf("hgpak: invalid format")

	// ErrUnsupported indicates an operation this implementation does not
	// perform.
	ErrUnsupported = fmt.Errorf("hgpak: unsupported operation")

	// ErrLibraryUnavailable indicates the Oodle shared library is missing
	// or failed to load. It is the same value as codec.ErrLibraryUnavailable,
	// which the Oodle loader wraps.
	ErrLibraryUnavailable = codec.ErrLibraryUnavailable
)

// NotFoundError indicates a requested path is not present in the archive.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hgpak: file not found: %q", e.Path)
}

// InvalidFormatError gives InvalidFormat conditions a reason string while
// still satisfying errors.Is(err, ErrInvalidFormat) via Unwrap.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("hgpak: invalid format: %s", e.Reason)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// CodecError wraps a failure from the codec layer that is not recoverable
// as a passthrough chunk.
type CodecError struct {
	Codec string
	Err   error
	// LooksLikeOodle is set when the payload begins with the 0x8C 0x0A
	// signature that marks a Switch/Oodle-compressed chunk being read with
	// a non-Oodle codec.
	LooksLikeOodle bool
}

func (e *CodecError) Error() string {
	if e.LooksLikeOodle {
		return fmt.Sprintf("hgpak: %s codec error: payload looks like an Oodle-compressed Switch chunk: %v", e.Codec, e.Err)
	}
	return fmt.Sprintf("hgpak: %s codec error: %v", e.Codec, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// UnsupportedVersionError is a specific InvalidFormat cause reported with
// the offending version number.
type UnsupportedVersionError struct {
	Version uint64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("hgpak: unsupported archive version %d (expected %d)", e.Version, CurrentVersion)
}

func (e *UnsupportedVersionError) Unwrap() error {
	return ErrInvalidFormat
}
