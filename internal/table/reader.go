// Package table reads and writes the row-major table stored in a TFCS
// payload: a row count, then rows of length-prefixed columns.
//
// Every read is checked against the payload and every write against the
// writer's capacity; inconsistent lengths fail with ErrBufferOverrun.
package table

import (
	"encoding/binary"
	"fmt"
	"iter"

	"github.com/meigma/tfcs/internal/tfcstype"
)

// ErrBufferOverrun is returned when a length points past the end of a buffer.
var ErrBufferOverrun = tfcstype.ErrBufferOverrun

const wordSize = 4

// Row is one table row. It aliases the reader's buffer and must be treated
// as immutable.
type Row struct {
	// Index is the 0-based position of the row in the table.
	Index int

	ncols uint32
	raw   []byte // column data, length prefixes included
}

// NumColumns returns the declared column count.
func (r Row) NumColumns() int {
	return int(r.ncols)
}

// Raw returns the encoded column data, excluding the column count.
func (r Row) Raw() []byte {
	return r.raw
}

// Columns decodes the row's columns. The returned strings copy the data.
func (r Row) Columns() []string {
	cols := make([]string, 0, r.ncols)
	c := cursor{buf: r.raw}
	for range r.ncols {
		// Spans were validated when the row was read.
		b, _ := c.field() //nolint:errcheck // validated in Reader.next
		cols = append(cols, string(b))
	}
	return cols
}

// Reader iterates the rows of a decompressed payload.
type Reader struct {
	c     cursor
	nrows uint32
}

// NewReader validates the row count prefix of payload.
func NewReader(payload []byte) (*Reader, error) {
	r := &Reader{c: cursor{buf: payload}}
	n, err := r.c.uint32()
	if err != nil {
		return nil, fmt.Errorf("read row count: %w", err)
	}
	r.nrows = n
	return r, nil
}

// RowCount returns the declared number of rows.
func (r *Reader) RowCount() int {
	return int(r.nrows)
}

// Offset returns how many payload bytes have been consumed.
func (r *Reader) Offset() int {
	return r.c.off
}

// Rows lazily yields the declared rows in order. Iteration stops after the
// first error, which is yielded with a zero Row.
func (r *Reader) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for i := range int(r.nrows) {
			row, err := r.next(i)
			if err != nil {
				yield(Row{}, fmt.Errorf("row %d: %w", i, err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (r *Reader) next(index int) (Row, error) {
	ncols, err := r.c.uint32()
	if err != nil {
		return Row{}, err
	}
	start := r.c.off
	for col := range ncols {
		if _, err := r.c.field(); err != nil {
			return Row{}, fmt.Errorf("column %d: %w", col, err)
		}
	}
	return Row{Index: index, ncols: ncols, raw: r.c.buf[start:r.c.off]}, nil
}

// cursor is a forward-only, bounds-checked view over a byte slice.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) uint32() (uint32, error) {
	if c.remaining() < wordSize {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrBufferOverrun, wordSize, c.off, c.remaining())
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += wordSize
	return v, nil
}

func (c *cursor) field() ([]byte, error) {
	n, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.remaining()) { //nolint:gosec // remaining is non-negative
		c.off -= wordSize
		return nil, fmt.Errorf("%w: column of %d bytes at offset %d, have %d",
			ErrBufferOverrun, n, c.off, c.remaining()-wordSize)
	}
	b := c.buf[c.off : c.off+int(n)]
	c.off += int(n)
	return b, nil
}
