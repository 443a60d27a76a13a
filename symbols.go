package modload

import (
	"errors"
	"unsafe"
)

// Sym is the raw address of a symbol inside a loaded unit.
type Sym uintptr

// As convert a Sym holding the address of a T to the T value.
func As[T any](ptr Sym) (x T) {
	if ptr == 0 {
		return
	}
	x = *(*T)(unsafe.Pointer(ptr))
	return
}

// Ptr convert a Sym to a typed pointer, nil when the Sym is empty.
func Ptr[T any](ptr Sym) *T {
	if ptr == 0 {
		return nil
	}
	return (*T)(unsafe.Pointer(ptr))
}

var (
	// ErrMissingSymbol occurs when a loaded unit does not export a symbol.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrMissingModule occurs when no unit can be opened for a (type, keyword) pair.
	ErrMissingModule = errors.New("missing module")
	// ErrNotFound occurs when a loader can't find a unit under any candidate name.
	ErrNotFound = errors.New("unit not found")
	// ErrUnsupported occurs when a loader backend is not available on the host.
	ErrUnsupported = errors.New("loader unsupported on this platform")
	// ErrReleased occurs when a handle is used after it was closed.
	ErrReleased = errors.New("module already released")
)
