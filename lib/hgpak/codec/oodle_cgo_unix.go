//go:build cgo && !windows

package codec

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

// Oodle's C ABI, reproduced from its publicly documented function
// signatures. We resolve both entry points with dlsym and call through
// function-pointer typedefs because cgo can't declare an extern for a
// library that isn't linked at build time.
typedef int32_t (*OodleLZ_Compress_t)(
	int32_t compressor, const void* rawBuf, size_t rawLen, void* compBuf,
	int32_t level, void* pOptions, void* dictionaryBase, void* lrm,
	void* scratchMem, size_t scratchSize);

typedef int32_t (*OodleLZ_Decompress_t)(
	const void* compBuf, size_t compBufSize, void* rawBuf, size_t rawLen,
	int32_t fuzzSafe, int32_t checkCRC, int32_t verbosity, void* decBufBase,
	size_t decBufSize, void* fpCallback, void* callbackUserData,
	void* decoderMemory, size_t decoderMemorySize, int32_t threadPhase);

static void* hgpak_oodle_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW);
}

static void* hgpak_oodle_dlsym(void* handle, const char* name) {
	return dlsym(handle, name);
}

static int32_t hgpak_oodle_compress(void* fn, int32_t compressor, const void* rawBuf,
		size_t rawLen, void* compBuf, int32_t level) {
	OodleLZ_Compress_t f = (OodleLZ_Compress_t)fn;
	return f(compressor, rawBuf, rawLen, compBuf, level, NULL, NULL, NULL, NULL, 0);
}

static int32_t hgpak_oodle_decompress(void* fn, const void* compBuf, size_t compBufSize,
		void* rawBuf, size_t rawLen) {
	OodleLZ_Decompress_t f = (OodleLZ_Decompress_t)fn;
	return f(compBuf, compBufSize, rawBuf, rawLen, 0, 0, 0, NULL, 0, NULL, NULL, NULL, 0, 3);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type unixOodleLibrary struct {
	handle     unsafe.Pointer
	compressFn unsafe.Pointer
	decompFn   unsafe.Pointer
}

func openLibrary(path string) (oodleLibrary, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	handle := C.hgpak_oodle_dlopen(cPath)
	if handle == nil {
		return nil, fmt.Errorf("dlopen %s failed", path)
	}

	compressName := C.CString("OodleLZ_Compress")
	defer C.free(unsafe.Pointer(compressName))
	decompName := C.CString("OodleLZ_Decompress")
	defer C.free(unsafe.Pointer(decompName))

	compressFn := C.hgpak_oodle_dlsym(handle, compressName)
	decompFn := C.hgpak_oodle_dlsym(handle, decompName)
	if compressFn == nil || decompFn == nil {
		return nil, fmt.Errorf("%s: missing OodleLZ_Compress/OodleLZ_Decompress symbols", path)
	}

	return &unixOodleLibrary{handle: handle, compressFn: compressFn, decompFn: decompFn}, nil
}

func (l *unixOodleLibrary) compress(decompressed []byte) ([]byte, error) {
	out := make([]byte, len(decompressed))
	var rawPtr unsafe.Pointer
	if len(decompressed) > 0 {
		rawPtr = unsafe.Pointer(&decompressed[0])
	}
	ret := C.hgpak_oodle_compress(
		l.compressFn,
		C.int32_t(oodleCompressor),
		rawPtr,
		C.size_t(len(decompressed)),
		unsafe.Pointer(&out[0]),
		C.int32_t(oodleLevel),
	)
	if ret < 0 {
		return nil, fmt.Errorf("OodleLZ_Compress failed: ret=%d", int32(ret))
	}
	return out[:int32(ret)], nil
}

func (l *unixOodleLibrary) decompress(payload []byte, expectedSize int) ([]byte, error) {
	out := make([]byte, expectedSize)
	if expectedSize == 0 {
		return out, nil
	}
	var compPtr unsafe.Pointer
	if len(payload) > 0 {
		compPtr = unsafe.Pointer(&payload[0])
	}
	ret := C.hgpak_oodle_decompress(
		l.decompFn,
		compPtr,
		C.size_t(len(payload)),
		unsafe.Pointer(&out[0]),
		C.size_t(expectedSize),
	)
	if int(ret) != expectedSize {
		return nil, fmt.Errorf("OodleLZ_Decompress failed: ret=%d want=%d", int32(ret), expectedSize)
	}
	return out, nil
}
