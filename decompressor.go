package gozl

/*
#cgo CFLAGS: -O3
#cgo LDFLAGS: -lopenzl

#include <stddef.h>
#include "openzl.h"

typedef struct {
	size_t value;
	int    is_error;
	int    code;
} gozl_dresult;

static gozl_dresult gozl_dunpack(ZL_Report report) {
	gozl_dresult res;
	if (ZL_isError(report)) {
		res.value = 0;
		res.is_error = 1;
		res.code = (int)ZL_errorCode(report);
	} else {
		res.value = ZL_validResult(report);
		res.is_error = 0;
		res.code = 0;
	}
	return res;
}

static gozl_dresult gozl_decompressed_size(void *src, size_t srcLen) {
	return gozl_dunpack(ZL_getDecompressedSize(src, srcLen));
}

static gozl_dresult gozl_decompress(void *dst, size_t dstCap, void *src, size_t srcLen) {
	return gozl_dunpack(ZL_decompress(dst, dstCap, src, srcLen));
}

typedef struct {
	size_t value;
	size_t num_elts;
	int    is_error;
	int    code;
} gozl_typed_dresult;

static gozl_typed_dresult gozl_decompress_typed(ZL_DCtx *dctx, void *dst, size_t dstCap, void *src, size_t srcLen) {
	ZL_OutputInfo info;
	ZL_Report report = ZL_DCtx_decompressTyped(dctx, &info, dst, dstCap, src, srcLen);

	gozl_typed_dresult res;
	if (ZL_isError(report)) {
		res.value = 0;
		res.num_elts = 0;
		res.is_error = 1;
		res.code = (int)ZL_errorCode(report);
	} else {
		res.value = ZL_validResult(report);
		res.num_elts = info.numElts;
		res.is_error = 0;
		res.code = 0;
	}
	return res;
}
*/
import "C"

import (
	"runtime"

	"github.com/arloliu/gozl/internal/pool"
)

// Decompressor is a native decompression session.
//
// Serial decompression reads the decompressed size from the frame header and
// allocates the result exactly; typed numeric decompression additionally
// recovers the element count from the frame metadata.
//
// Like Compressor, a Decompressor must not be shared between goroutines
// while an operation is in flight. Distinct Decompressors are independent.
type Decompressor struct {
	dctx   *C.ZL_DCtx
	closed bool
}

// NewDecompressor creates a decompression session. Release it with Close.
func NewDecompressor() (*Decompressor, error) {
	ensureInit()

	dctx := C.ZL_DCtx_create()
	if dctx == nil {
		return nil, newError("create decompressor", "failed to create decompression context")
	}

	d := &Decompressor{dctx: dctx}
	runtime.SetFinalizer(d, freeDecompressor)

	return d, nil
}

// Close releases the native session. Safe to call more than once.
func (d *Decompressor) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.releaseNative()
	runtime.SetFinalizer(d, nil)

	return nil
}

func (d *Decompressor) releaseNative() {
	if d.dctx != nil {
		C.ZL_DCtx_free(d.dctx)
		d.dctx = nil
	}
}

func freeDecompressor(d *Decompressor) {
	d.closed = true
	d.releaseNative()
}

// Decompress decompresses a serial frame and returns the original bytes in
// a newly allocated buffer sized from the frame header.
func (d *Decompressor) Decompress(src []byte) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}

	size := C.gozl_decompressed_size(bufPtr(src), C.size_t(len(src)))
	if size.is_error != 0 {
		runtime.KeepAlive(src)
		return nil, newNativeError("decompress", int(size.code))
	}

	dst := make([]byte, int(size.value))
	res := C.gozl_decompress(bufPtr(dst), C.size_t(len(dst)), bufPtr(src), C.size_t(len(src)))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	if res.is_error != 0 {
		return nil, newNativeError("decompress", int(res.code))
	}

	return dst[:int(res.value)], nil
}

// DecompressInto decompresses a serial frame directly into dst and returns
// the number of bytes written. dst must be at least the frame's decompressed
// size. The count is only meaningful when the error is nil.
func (d *Decompressor) DecompressInto(dst, src []byte) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}

	res := C.gozl_decompress(bufPtr(dst), C.size_t(len(dst)), bufPtr(src), C.size_t(len(src)))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	if res.is_error != 0 {
		return 0, newNativeError("decompress", int(res.code))
	}

	return int(res.value), nil
}

// DecompressNumeric decompresses a numeric frame and returns the raw bytes
// of its elements. elemSize must match the element width the frame was
// compressed with; a frame whose recovered element count does not account
// for the whole decompressed size at that width returns ErrElemSizeMismatch.
// The returned length is the recovered element count times elemSize.
func (d *Decompressor) DecompressNumeric(src []byte, elemSize int) ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if elemSize <= 0 {
		return nil, ErrOutOfRange
	}

	size := C.gozl_decompressed_size(bufPtr(src), C.size_t(len(src)))
	if size.is_error != 0 {
		runtime.KeepAlive(src)
		return nil, newNativeError("decompress numeric", int(size.code))
	}

	dst := make([]byte, int(size.value))
	res := C.gozl_decompress_typed(d.dctx, bufPtr(dst), C.size_t(len(dst)), bufPtr(src), C.size_t(len(src)))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	if res.is_error != 0 {
		return nil, newNativeError("decompress numeric", int(res.code))
	}

	// The frame's element count must account for the whole decompressed
	// size at the requested width, or the frame was produced with a
	// different element width than the caller expects.
	if int(res.num_elts)*elemSize != int(size.value) {
		return nil, ErrElemSizeMismatch
	}

	return dst[:int(res.num_elts)*elemSize], nil
}

// DecompressInt32s decompresses a frame produced by CompressInt32s back
// into its original element sequence.
func (d *Decompressor) DecompressInt32s(src []byte) ([]int32, error) {
	return decompressNumeric[int32](d, "decompress int32", src, 4)
}

// DecompressInt64s decompresses a frame produced by CompressInt64s back
// into its original element sequence.
func (d *Decompressor) DecompressInt64s(src []byte) ([]int64, error) {
	return decompressNumeric[int64](d, "decompress int64", src, 8)
}

// DecompressFloat32s decompresses a frame produced by CompressFloat32s back
// into its original element sequence, bit-for-bit.
func (d *Decompressor) DecompressFloat32s(src []byte) ([]float32, error) {
	return decompressNumeric[float32](d, "decompress float32", src, 4)
}

// DecompressFloat64s decompresses a frame produced by CompressFloat64s back
// into its original element sequence, bit-for-bit.
func (d *Decompressor) DecompressFloat64s(src []byte) ([]float64, error) {
	return decompressNumeric[float64](d, "decompress float64", src, 8)
}

// decompressNumeric stages the typed decompression in a pooled scratch
// buffer, then copies exactly the recovered elements into a fresh slice.
// The element count comes from the frame metadata, not from the caller.
func decompressNumeric[T int32 | int64 | float32 | float64](d *Decompressor, op string, src []byte, elemSize int) ([]T, error) {
	if d.closed {
		return nil, ErrClosed
	}

	size := C.gozl_decompressed_size(bufPtr(src), C.size_t(len(src)))
	if size.is_error != 0 {
		runtime.KeepAlive(src)
		return nil, newNativeError(op, int(size.code))
	}

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	scratch.ExtendOrGrow(int(size.value))

	res := C.gozl_decompress_typed(d.dctx, bufPtr(scratch.B), C.size_t(len(scratch.B)), bufPtr(src), C.size_t(len(src)))
	runtime.KeepAlive(src)
	runtime.KeepAlive(scratch.B)

	if res.is_error != 0 {
		return nil, newNativeError(op, int(res.code))
	}

	count := int(res.num_elts)

	// Reconcile the recovered count with the decompressed byte size before
	// touching the scratch buffer: a frame produced with a narrower element
	// width would otherwise reslice past the decoded bytes into stale pool
	// memory.
	if count*elemSize != int(size.value) {
		return nil, ErrElemSizeMismatch
	}

	out := make([]T, count)
	if count > 0 {
		copy(numBytes(out), scratch.B[:count*elemSize])
	}

	return out, nil
}
