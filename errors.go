package tfcs

import "github.com/meigma/tfcs/internal/tfcstype"

// Sentinel errors re-exported from internal/tfcstype.
var (
	// ErrHeaderMismatch is returned when a buffer does not start with a TFCS header.
	ErrHeaderMismatch = tfcstype.ErrHeaderMismatch

	// ErrDecompression is returned when the payload cannot be inflated.
	ErrDecompression = tfcstype.ErrDecompression

	// ErrCompression is returned when the patched payload cannot be deflated
	// into the available space.
	ErrCompression = tfcstype.ErrCompression

	// ErrBufferOverrun is returned when a read or write would cross the
	// bounds of its buffer.
	ErrBufferOverrun = tfcstype.ErrBufferOverrun

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = tfcstype.ErrSizeOverflow

	// ErrInvalidPatch is returned when a patch document cannot be parsed.
	ErrInvalidPatch = tfcstype.ErrInvalidPatch
)
