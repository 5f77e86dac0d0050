package hgpak

import (
	"fmt"

	"github.com/sargunv/hgpaktool/lib/hgpak/codec"
)

// Platform identifies which target an archive was (or will be) built
// for. The mapping to codec and chunk size is fixed per platform.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformMac     Platform = "mac"
	PlatformSwitch  Platform = "switch"
)

// codecKind returns the codec.Kind a platform uses.
func (p Platform) codecKind() (codec.Kind, error) {
	switch p {
	case PlatformWindows, PlatformLinux:
		return codec.Zstd, nil
	case PlatformMac:
		return codec.LZ4, nil
	case PlatformSwitch:
		return codec.Oodle, nil
	default:
		return 0, fmt.Errorf("hgpak: unknown platform %q", p)
	}
}

// ChunkSize returns the decompressed-chunk-size for the platform's codec:
// 0x10000 for Zstd, 0x20000 for LZ4 and Oodle.
func (p Platform) ChunkSize() (int, error) {
	kind, err := p.codecKind()
	if err != nil {
		return 0, err
	}
	switch kind {
	case codec.Zstd:
		return codec.ChunkSizeSmall, nil
	case codec.LZ4:
		return codec.ChunkSizeLarge, nil
	case codec.Oodle:
		return codec.ChunkSizeLarge, nil
	default:
		return 0, fmt.Errorf("hgpak: unknown codec kind %v", kind)
	}
}

// newCodec builds the Codec instance for this platform.
func (p Platform) newCodec() (codec.Codec, error) {
	kind, err := p.codecKind()
	if err != nil {
		return nil, err
	}
	c, err := codec.New(kind)
	if err != nil {
		return nil, err
	}
	return c, nil
}
