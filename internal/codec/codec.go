// Package codec wraps zlib for single-shot TFCS payload compression.
package codec

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"

	"github.com/meigma/tfcs/internal/sizing"
	"github.com/meigma/tfcs/internal/tfcstype"
)

// Re-exported sentinels.
var (
	ErrDecompression = tfcstype.ErrDecompression
	ErrCompression   = tfcstype.ErrCompression
	ErrBufferOverrun = tfcstype.ErrBufferOverrun
)

// Zlib inflates and deflates whole payloads.
//
// A Zlib is safe for concurrent use. The zero value is not usable; call New.
type Zlib struct {
	readers readerPool
	writers *writerPool
}

// New returns a codec that deflates at zlib.BestCompression.
func New() *Zlib {
	return &Zlib{writers: newWriterPool(zlib.BestCompression)}
}

// maxExpansion bounds how many bytes a deflate stream can expand to per
// compressed byte. A stream claiming more is rejected before inflating.
const (
	maxExpansion      = 1032
	maxExpansionSlack = 1024
)

// Inflate decompresses src, which must hold a complete zlib stream that
// expands to exactly size bytes.
//
// Memory grows with the data actually inflated, never with size alone.
func (z *Zlib) Inflate(src []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrDecompression, size)
	}
	if bound, ok := maxInflated(len(src)); !ok || size > bound {
		return nil, fmt.Errorf("%w: %d compressed bytes cannot expand to %d",
			ErrDecompression, len(src), size)
	}

	zr, release, err := z.readers.get(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	defer release()

	out, err := sizing.ReadAllWithLimit(zr, uint64(size), tfcstype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrDecompression, len(out), size)
	}
	return out, nil
}

// maxInflated returns the largest size n compressed bytes can inflate to.
func maxInflated(n int) (int, bool) {
	bound, ok := sizing.MulDivCeil(n, maxExpansion, 1)
	if !ok {
		return 0, false
	}
	return sizing.AddInt(bound, maxExpansionSlack)
}

// Deflate compresses src into at most limit bytes.
//
// When the stream does not fit, the first limit bytes are returned together
// with an error wrapping ErrCompression, the same result a fixed size output
// buffer would hold.
func (z *Zlib) Deflate(src []byte, limit int) ([]byte, error) {
	if limit < 0 {
		limit = 0
	}

	bw := &boundedWriter{buf: make([]byte, 0, min(limit, len(src)+64)), limit: limit}
	zw, release, err := z.writers.get(bw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompression, err)
	}
	defer release()

	if _, err := zw.Write(src); err != nil {
		return bw.buf, fmt.Errorf("%w: %w", ErrCompression, err)
	}
	if err := zw.Close(); err != nil {
		return bw.buf, fmt.Errorf("%w: %w", ErrCompression, err)
	}
	if bw.truncated() {
		return bw.buf, fmt.Errorf("%w: stream of %d bytes exceeds %d available: %w",
			ErrCompression, bw.N, limit, ErrBufferOverrun)
	}
	return bw.buf, nil
}
