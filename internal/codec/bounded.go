package codec

import (
	"io"

	"github.com/meigma/tfcs/internal/tfcstype"
)

// boundedWriter keeps at most limit bytes and counts everything written.
//
// Writes never fail because of the limit: the compressor must be allowed to
// finish so the caller learns the full stream size.
type boundedWriter struct {
	buf   []byte
	limit int
	N     uint64
}

var _ io.Writer = (*boundedWriter)(nil)

// Write implements io.Writer.
func (w *boundedWriter) Write(p []byte) (int, error) {
	if room := w.limit - len(w.buf); room > 0 {
		w.buf = append(w.buf, p[:min(room, len(p))]...)
	}
	//nolint:gosec // len is always non-negative
	if w.N > ^uint64(0)-uint64(len(p)) {
		return 0, tfcstype.ErrSizeOverflow
	}
	w.N += uint64(len(p)) //nolint:gosec // overflow checked above
	return len(p), nil
}

// truncated reports whether bytes were dropped because of the limit.
func (w *boundedWriter) truncated() bool {
	return w.N > uint64(len(w.buf)) //nolint:gosec // len is always non-negative
}
