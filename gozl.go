// Package gozl provides Go bindings for the OpenZL compression engine.
//
// OpenZL is a format-aware compression framework that compresses data through
// configurable strategy graphs: a generic LZ backend, field-aware numeric
// transforms, entropy coders, bitpacking and more. This package wraps the
// native library behind a small, Go-safe API:
//
//   - Compressor / Decompressor handles that own the native session state
//   - Serial (opaque byte) and typed numeric compression variants
//   - Frame introspection that recovers sizes and the data kind of a
//     compressed buffer without decoding it
//
// # Basic Usage
//
// Compressing and decompressing a byte buffer:
//
//	c, err := gozl.NewCompressor(gozl.GraphZstd)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	compressed, err := c.Compress(data)
//	if err != nil {
//	    return err
//	}
//
//	d, err := gozl.NewDecompressor()
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	original, err := d.Decompress(compressed)
//
// Numeric data compresses better through the typed entry points, which let
// the engine see the element width instead of an opaque byte stream:
//
//	compressed, err := c.CompressInt64s(timestamps)
//
// For one-shot operations the package-level helpers (Compress, Decompress,
// CompressInt32s, ...) borrow a pooled handle and are safe for concurrent
// use.
//
// # Thread Safety
//
// A Compressor or Decompressor mutates native session state in place and
// must not be used from multiple goroutines at the same time. Distinct
// handles are fully independent and may be used concurrently.
package gozl

/*
#cgo CFLAGS: -O3
#cgo LDFLAGS: -lopenzl

#include <stddef.h>
#include "openzl.h"

static size_t gozl_compress_bound(size_t srcLen) {
	return ZL_compressBound(srcLen);
}
*/
import "C"

import (
	"reflect"
	"sync"
	"unsafe"
)

var initOnce sync.Once

// ensureInit runs one-time process-wide library setup. The current OpenZL
// release needs no explicit initialization; the gate exists so a future
// version that does can hook in without changing handle construction.
func ensureInit() {
	initOnce.Do(func() {})
}

// CompressBound returns the worst-case compressed size for a source of
// srcLen bytes. It is an upper bound: a compressed frame produced from any
// input of that length always fits in the returned size.
func CompressBound(srcLen int) int {
	return int(C.gozl_compress_bound(C.size_t(srcLen)))
}

// zeroByte anchors views over zero-length buffers. The native layer expects
// a non-NULL base pointer even when the view is empty.
var zeroByte byte

// bufPtr returns the base pointer of b for handing to a native call. The
// pointer goes through the slice header so typed references may hold it
// between two cgo calls; the caller must pin b with runtime.KeepAlive until
// the last native call that sees it returns.
func bufPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return unsafe.Pointer(&zeroByte)
	}
	hdr := (*reflect.SliceHeader)(unsafe.Pointer(&b))

	return unsafe.Pointer(hdr.Data)
}

// numPtr is bufPtr for fixed-width numeric element slices.
func numPtr[T int32 | int64 | float32 | float64](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return unsafe.Pointer(&zeroByte)
	}
	hdr := (*reflect.SliceHeader)(unsafe.Pointer(&s))

	return unsafe.Pointer(hdr.Data)
}

// numBytes views the storage of a numeric element slice as bytes, in native
// byte order.
func numBytes[T int32 | int64 | float32 | float64](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T

	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
