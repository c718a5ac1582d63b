package gozl

/*
#cgo CFLAGS: -O3
#cgo LDFLAGS: -lopenzl

#include <stddef.h>
#include "openzl.h"

// The wrapper functions below flatten ZL_Report results and ZL_GraphID
// struct constants into plain scalars that cross the cgo boundary cheaply.

typedef struct {
	size_t value;
	int    is_error;
	int    code;
} gozl_result;

static gozl_result gozl_unpack(ZL_Report report) {
	gozl_result res;
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

// Unknown ids intentionally fall back to the zstd graph instead of failing.
static ZL_GraphID gozl_graph_for_id(int id) {
	switch (id) {
	case 1:
	case 9:
		return ZL_GRAPH_COMPRESS_GENERIC;
	case 2:
		return ZL_GRAPH_FIELD_LZ;
	case 3:
		return ZL_GRAPH_STORE;
	case 4:
		return ZL_GRAPH_FSE;
	case 5:
		return ZL_GRAPH_HUFFMAN;
	case 6:
		return ZL_GRAPH_ENTROPY;
	case 7:
		return ZL_GRAPH_BITPACK;
	case 8:
		return ZL_GRAPH_CONSTANT;
	case 0:
	default:
		return ZL_GRAPH_ZSTD;
	}
}

static gozl_result gozl_set_format_version(ZL_CCtx *cctx) {
	return gozl_unpack(ZL_CCtx_setParameter(cctx, ZL_CParam_formatVersion, ZL_MAX_FORMAT_VERSION));
}

static gozl_result gozl_set_compression_level(ZL_CCtx *cctx) {
	return gozl_unpack(ZL_CCtx_setParameter(cctx, ZL_CParam_compressionLevel, ZL_COMPRESSIONLEVEL_DEFAULT));
}

static gozl_result gozl_select_graph(ZL_Compressor *comp, int id) {
	return gozl_unpack(ZL_Compressor_selectStartingGraphID(comp, gozl_graph_for_id(id)));
}

static gozl_result gozl_ref_compressor(ZL_CCtx *cctx, ZL_Compressor *comp) {
	return gozl_unpack(ZL_CCtx_refCompressor(cctx, comp));
}

static void *gozl_typed_ref_serial(void *src, size_t srcLen) {
	return (void *)ZL_TypedRef_createSerial(src, srcLen);
}

static void *gozl_typed_ref_numeric(void *src, size_t eltWidth, size_t eltCount) {
	return (void *)ZL_TypedRef_createNumeric(src, eltWidth, eltCount);
}

static void gozl_typed_ref_free(void *ref) {
	ZL_TypedRef_free((ZL_TypedRef *)ref);
}

static gozl_result gozl_compress_typed(ZL_CCtx *cctx, void *dst, size_t dstCap, void *ref) {
	return gozl_unpack(ZL_CCtx_compressTypedRef(cctx, dst, dstCap, (ZL_TypedRef *)ref));
}
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/arloliu/gozl/internal/pool"
)

// Compressor is a configured native compression session.
//
// A Compressor owns a native compression context and a compressor definition
// bound to the graph selected at construction time. It must be released with
// Close when no longer needed; the finalizer only exists as a backstop for
// leaked handles.
//
// A Compressor must not be used from multiple goroutines concurrently: the
// native session mutates parameter state and scratch buffers in place.
// Distinct Compressors are fully independent.
type Compressor struct {
	graph  Graph
	cctx   *C.ZL_CCtx
	comp   *C.ZL_Compressor
	closed bool
}

// NewCompressor creates a compression session using the given strategy
// graph. Ids outside the known set select the zstd fallback graph; this is
// deliberate, not an error.
//
// Construction is multi-step on the native side (context, compressor
// definition, fixed parameters, graph binding). If any step fails,
// everything allocated up to that point is released in reverse order and no
// handle is returned.
func NewCompressor(graph Graph) (*Compressor, error) {
	ensureInit()

	c := &Compressor{graph: graph}

	c.cctx = C.ZL_CCtx_create()
	if c.cctx == nil {
		return nil, newError("create compressor", "failed to create compression context")
	}

	c.comp = C.ZL_Compressor_create()
	if c.comp == nil {
		C.ZL_CCtx_free(c.cctx)
		return nil, newError("create compressor", "failed to create compressor object")
	}

	if res := C.gozl_set_format_version(c.cctx); res.is_error != 0 {
		c.releaseNative()
		return nil, newNativeError("create compressor", int(res.code))
	}

	if res := C.gozl_set_compression_level(c.cctx); res.is_error != 0 {
		c.releaseNative()
		return nil, newNativeError("create compressor", int(res.code))
	}

	if res := C.gozl_select_graph(c.comp, C.int(graph)); res.is_error != 0 {
		c.releaseNative()
		return nil, newNativeError("create compressor", int(res.code))
	}

	if res := C.gozl_ref_compressor(c.cctx, c.comp); res.is_error != 0 {
		c.releaseNative()
		return nil, newNativeError("create compressor", int(res.code))
	}

	runtime.SetFinalizer(c, freeCompressor)

	return c, nil
}

// Graph returns the strategy graph the session was created with.
func (c *Compressor) Graph() Graph {
	return c.graph
}

// Close releases the native session. It is safe to call more than once;
// any operation after Close returns ErrClosed.
func (c *Compressor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.releaseNative()
	runtime.SetFinalizer(c, nil)

	return nil
}

// releaseNative frees the compressor definition before the context, in
// reverse order of acquisition.
func (c *Compressor) releaseNative() {
	if c.comp != nil {
		C.ZL_Compressor_free(c.comp)
		c.comp = nil
	}
	if c.cctx != nil {
		C.ZL_CCtx_free(c.cctx)
		c.cctx = nil
	}
}

func freeCompressor(c *Compressor) {
	c.closed = true
	c.releaseNative()
}

// Compress compresses src as an opaque byte stream and returns a newly
// allocated compressed frame.
//
// The empty buffer is valid input and yields a small fixed-overhead frame.
func (c *Compressor) Compress(src []byte) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	ref := C.gozl_typed_ref_serial(bufPtr(src), C.size_t(len(src)))
	if ref == nil {
		return nil, newError("compress", "failed to create typed reference for serial data")
	}

	out, err := c.compressRef("compress", ref, len(src))
	runtime.KeepAlive(src)

	return out, err
}

// CompressInto compresses src directly into dst and returns the number of
// bytes written. dst must be large enough for the whole frame; size it with
// CompressBound. The count is only meaningful when the error is nil.
func (c *Compressor) CompressInto(dst, src []byte) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}

	ref := C.gozl_typed_ref_serial(bufPtr(src), C.size_t(len(src)))
	if ref == nil {
		return 0, newError("compress", "failed to create typed reference for serial data")
	}

	res := C.gozl_compress_typed(c.cctx, bufPtr(dst), C.size_t(len(dst)), ref)
	C.gozl_typed_ref_free(ref)
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)

	if res.is_error != 0 {
		return 0, newNativeError("compress", int(res.code))
	}

	return int(res.value), nil
}

// CompressNumeric compresses data interpreted as elemCount fixed-width
// elements of elemSize bytes each. elemSize times elemCount must equal
// len(data); anything else returns ErrOutOfRange before the native layer is
// touched.
func (c *Compressor) CompressNumeric(data []byte, elemSize, elemCount int) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	// Division instead of multiplication so a huge elemCount cannot wrap
	// the product around to len(data).
	if elemSize <= 0 || elemCount < 0 || elemCount != len(data)/elemSize || len(data)%elemSize != 0 {
		return nil, ErrOutOfRange
	}

	out, err := c.compressNumeric("compress numeric", bufPtr(data), elemSize, elemCount)
	runtime.KeepAlive(data)

	return out, err
}

// CompressInt32s compresses data through the numeric pipeline as 32-bit
// elements.
func (c *Compressor) CompressInt32s(data []int32) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	out, err := c.compressNumeric("compress int32", numPtr(data), 4, len(data))
	runtime.KeepAlive(data)

	return out, err
}

// CompressInt64s compresses data through the numeric pipeline as 64-bit
// elements.
func (c *Compressor) CompressInt64s(data []int64) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	out, err := c.compressNumeric("compress int64", numPtr(data), 8, len(data))
	runtime.KeepAlive(data)

	return out, err
}

// CompressFloat32s compresses data through the numeric pipeline as 32-bit
// elements. Values round-trip bit-for-bit.
func (c *Compressor) CompressFloat32s(data []float32) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	out, err := c.compressNumeric("compress float32", numPtr(data), 4, len(data))
	runtime.KeepAlive(data)

	return out, err
}

// CompressFloat64s compresses data through the numeric pipeline as 64-bit
// elements. Values round-trip bit-for-bit.
func (c *Compressor) CompressFloat64s(data []float64) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}

	out, err := c.compressNumeric("compress float64", numPtr(data), 8, len(data))
	runtime.KeepAlive(data)

	return out, err
}

// compressNumeric wraps ptr in a single-use numeric typed reference and
// runs one native compress call. The caller owns keeping the backing
// storage alive until this returns.
func (c *Compressor) compressNumeric(op string, ptr unsafe.Pointer, elemSize, elemCount int) ([]byte, error) {
	ref := C.gozl_typed_ref_numeric(ptr, C.size_t(elemSize), C.size_t(elemCount))
	if ref == nil {
		return nil, newError(op, "failed to create typed reference for numeric data")
	}

	return c.compressRef(op, ref, elemSize*elemCount)
}

// compressRef performs one native compress call against a typed reference
// and frees the reference before returning, on every path. The result is
// staged in a pooled scratch buffer sized by CompressBound and copied out
// at its exact size.
func (c *Compressor) compressRef(op string, ref unsafe.Pointer, srcLen int) ([]byte, error) {
	bound := CompressBound(srcLen)

	scratch := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(scratch)
	scratch.ExtendOrGrow(bound)

	res := C.gozl_compress_typed(c.cctx, bufPtr(scratch.B), C.size_t(len(scratch.B)), ref)
	C.gozl_typed_ref_free(ref)
	runtime.KeepAlive(scratch.B)

	if res.is_error != 0 {
		return nil, newNativeError(op, int(res.code))
	}

	out := make([]byte, int(res.value))
	copy(out, scratch.B[:int(res.value)])

	return out, nil
}
