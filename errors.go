package gozl

/*
#cgo CFLAGS: -O3
#cgo LDFLAGS: -lopenzl

#include "openzl.h"

static const char *gozl_error_string(int code) {
	return ZL_ErrorCode_toString((ZL_ErrorCode)code);
}
*/
import "C"

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when an operation is attempted on a handle that
	// has already been closed. The native session is gone; no native call is
	// made.
	ErrClosed = errors.New("gozl: handle is closed")

	// ErrOutOfRange is returned when buffer or element arguments are
	// inconsistent (element size times count does not match the byte
	// length, non-positive element size, and similar). Checked before any
	// native resource is touched.
	ErrOutOfRange = errors.New("gozl: buffer or element arguments out of range")

	// ErrElemSizeMismatch is returned when the element width requested for
	// a typed decompression does not match the frame's contents: the
	// recovered element count times the requested width must equal the
	// frame's decompressed size.
	ErrElemSizeMismatch = errors.New("gozl: element size does not match frame contents")

	// ErrEmptyInput is returned when a compressed buffer is required but
	// the input is empty.
	ErrEmptyInput = errors.New("gozl: compressed input is empty")
)

// ErrorCode is a numeric error code reported by the native engine.
// The zero value means the failure was detected by the binding itself
// (for example a native constructor returning NULL) and carries no code.
type ErrorCode int

// Error is a failure reported across the native boundary. It retains the
// engine's numeric code alongside the decoded message so callers can match
// on the code programmatically instead of parsing the message.
type Error struct {
	Op   string    // operation that failed, e.g. "compress"
	Code ErrorCode // native error code, 0 if the engine reported none
	Msg  string    // human-readable message
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("gozl: %s: %s", e.Op, e.Msg)
	}

	return fmt.Sprintf("gozl: %s: %s (code %d)", e.Op, e.Msg, int(e.Code))
}

// newNativeError builds an *Error from an engine-reported code, decoding the
// message through the engine's own code-to-string facility.
func newNativeError(op string, code int) *Error {
	return &Error{
		Op:   op,
		Code: ErrorCode(code),
		Msg:  C.GoString(C.gozl_error_string(C.int(code))),
	}
}

// newError builds an *Error for failures the binding detects itself, such
// as a native constructor returning NULL.
func newError(op, msg string) *Error {
	return &Error{Op: op, Msg: msg}
}
