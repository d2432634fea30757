package table

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/tfcs/internal/sizing"
	"github.com/meigma/tfcs/internal/tfcstype"
)

// Writer serializes a table into a buffer that never grows past its capacity.
type Writer struct {
	buf   []byte
	limit int
}

// NewWriter returns a writer that accepts at most limit bytes.
func NewWriter(limit int) *Writer {
	if limit < 0 {
		limit = 0
	}
	return &Writer{buf: make([]byte, 0, min(limit, 1<<16)), limit: limit}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the serialized table. It aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PutUint32 appends a little-endian word.
func (w *Writer) PutUint32(v uint32) error {
	if err := w.reserve(wordSize); err != nil {
		return err
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return nil
}

// WriteRow appends a row built from cols. Nothing is written if the row does
// not fit.
func (w *Writer) WriteRow(cols []string) error {
	size := wordSize
	for _, col := range cols {
		var ok bool
		if size, ok = sizing.AddInt(size, wordSize+len(col)); !ok {
			return tfcstype.ErrSizeOverflow
		}
	}
	if err := w.reserve(size); err != nil {
		return err
	}

	ncols, err := sizing.ToUint32(len(cols), tfcstype.ErrSizeOverflow)
	if err != nil {
		return err
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, ncols)
	for _, col := range cols {
		n, err := sizing.ToUint32(len(col), tfcstype.ErrSizeOverflow)
		if err != nil {
			return err
		}
		w.buf = binary.LittleEndian.AppendUint32(w.buf, n)
		w.buf = append(w.buf, col...)
	}
	return nil
}

// SkipRow copies row to the output unchanged.
func (w *Writer) SkipRow(row Row) error {
	size, ok := sizing.AddInt(wordSize, len(row.raw))
	if !ok {
		return tfcstype.ErrSizeOverflow
	}
	if err := w.reserve(size); err != nil {
		return err
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, row.ncols)
	w.buf = append(w.buf, row.raw...)
	return nil
}

func (w *Writer) reserve(n int) error {
	end, ok := sizing.AddInt(len(w.buf), n)
	if !ok || end > w.limit {
		return fmt.Errorf("%w: writing %d bytes at offset %d, capacity %d",
			ErrBufferOverrun, n, len(w.buf), w.limit)
	}
	return nil
}
