// Package tfcstype defines shared types used across the tfcs package and its
// internal packages. This avoids circular imports between tfcs and the
// codec, table and patch packages.
package tfcstype

import "errors"

// Sentinel errors for TFCS operations.
var (
	// ErrHeaderMismatch is returned when a buffer does not start with a TFCS header.
	ErrHeaderMismatch = errors.New("tfcs: header mismatch")

	// ErrDecompression is returned when the payload cannot be inflated.
	ErrDecompression = errors.New("tfcs: decompression failed")

	// ErrCompression is returned when the patched payload cannot be deflated
	// into the available space.
	ErrCompression = errors.New("tfcs: compression failed")

	// ErrBufferOverrun is returned when a read or write would cross the
	// bounds of its buffer.
	ErrBufferOverrun = errors.New("tfcs: buffer overrun")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("tfcs: size overflow")

	// ErrInvalidPatch is returned when a patch document cannot be parsed.
	ErrInvalidPatch = errors.New("tfcs: invalid patch document")
)
