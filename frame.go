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
} gozl_fresult;

static gozl_fresult gozl_funpack(ZL_Report report) {
	gozl_fresult res;
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

static gozl_fresult gozl_compressed_size(void *src, size_t srcLen) {
	return gozl_funpack(ZL_getCompressedSize(src, srcLen));
}

static ZL_FrameInfo *gozl_frame_info_create(void *src, size_t srcLen) {
	return ZL_FrameInfo_create(src, srcLen);
}

static void gozl_frame_info_free(ZL_FrameInfo *info) {
	ZL_FrameInfo_free(info);
}

static gozl_fresult gozl_frame_decompressed_size(ZL_FrameInfo *info, int output) {
	return gozl_funpack(ZL_FrameInfo_getDecompressedSize(info, output));
}

static gozl_fresult gozl_frame_output_type(ZL_FrameInfo *info, int output) {
	return gozl_funpack(ZL_FrameInfo_getOutputType(info, output));
}
*/
import "C"

import "runtime"

// DataKind labels the element kind of a compressed frame's first output,
// as recorded in the frame header.
type DataKind string

const (
	KindSerial  DataKind = "SERIAL"  // opaque byte stream
	KindStruct  DataKind = "STRUCT"  // fixed-size structured records
	KindNumeric DataKind = "NUMERIC" // fixed-width numeric elements
	KindString  DataKind = "STRING"  // variable-size string fields
	KindUnknown DataKind = "UNKNOWN" // unrecognized kind value
)

// CompressionInfo holds the facts recoverable from a compressed frame's
// header without decoding it.
//
// Graph is a coarse classification inferred from the output kind: frame
// metadata records the shape of the data, not the exact strategy graph that
// produced it, so numeric frames classify as GraphNumeric and everything
// else as GraphZstd.
type CompressionInfo struct {
	DecompressedSize uint64
	CompressedSize   uint64
	Graph            Graph
	DataKind         DataKind
}

// CompressionRatio returns CompressedSize / DecompressedSize, or 0 when the
// original data was empty.
func (i CompressionInfo) CompressionRatio() float64 {
	if i.DecompressedSize == 0 {
		return 0.0
	}

	return float64(i.CompressedSize) / float64(i.DecompressedSize)
}

// GetCompressionInfo reads frame metadata from a compressed buffer without
// performing a full decode. Each step is independently fallible: the
// compressed size, the frame-header view, the decompressed size of output 0
// and its element kind.
func GetCompressionInfo(src []byte) (CompressionInfo, error) {
	ensureInit()

	if len(src) == 0 {
		return CompressionInfo{}, ErrEmptyInput
	}

	srcPtr := bufPtr(src)

	csize := C.gozl_compressed_size(srcPtr, C.size_t(len(src)))
	if csize.is_error != 0 {
		runtime.KeepAlive(src)
		return CompressionInfo{}, newNativeError("get compressed size", int(csize.code))
	}

	info := C.gozl_frame_info_create(srcPtr, C.size_t(len(src)))
	if info == nil {
		runtime.KeepAlive(src)
		return CompressionInfo{}, newError("read frame header", "failed to create frame info")
	}

	dsize := C.gozl_frame_decompressed_size(info, 0)
	if dsize.is_error != 0 {
		C.gozl_frame_info_free(info)
		runtime.KeepAlive(src)

		return CompressionInfo{}, newNativeError("get decompressed size", int(dsize.code))
	}

	kind := C.gozl_frame_output_type(info, 0)
	C.gozl_frame_info_free(info)
	runtime.KeepAlive(src)

	if kind.is_error != 0 {
		return CompressionInfo{}, newNativeError("get output type", int(kind.code))
	}

	dataKind, graph := classifyOutputKind(int(kind.value))

	return CompressionInfo{
		DecompressedSize: uint64(dsize.value),
		CompressedSize:   uint64(csize.value),
		Graph:            graph,
		DataKind:         dataKind,
	}, nil
}

// classifyOutputKind maps the frame's raw output-kind value to its label
// and to the coarse graph classification.
func classifyOutputKind(kind int) (DataKind, Graph) {
	switch kind {
	case 0:
		return KindSerial, GraphZstd
	case 1:
		return KindStruct, GraphZstd
	case 2:
		return KindNumeric, GraphNumeric
	case 3:
		return KindString, GraphZstd
	default:
		return KindUnknown, GraphZstd
	}
}
