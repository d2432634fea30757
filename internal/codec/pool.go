package codec

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// readerPool manages reusable zlib readers to reduce allocation overhead.
//
// A zlib reader consumes the stream header on construction, so the pool
// starts empty and only holds readers that have already been used once.
type readerPool struct {
	pool sync.Pool
}

// get returns a reader configured to read from r.
// The caller must call the returned release function when done.
// If an error is returned, no release function needs to be called.
func (p *readerPool) get(r io.Reader) (io.ReadCloser, func(), error) {
	if value := p.pool.Get(); value != nil {
		zr, ok := value.(io.ReadCloser)
		if ok {
			if resetter, ok := zr.(zlib.Resetter); ok {
				if err := resetter.Reset(r, nil); err != nil {
					// Header is bad; the reader is still reusable.
					p.pool.Put(zr)
					return nil, nil, err
				}
				return zr, func() { p.pool.Put(zr) }, nil
			}
		}
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return zr, func() { p.pool.Put(zr) }, nil
}

// writerPool manages reusable zlib writers at a fixed level.
type writerPool struct {
	pool  sync.Pool
	level int
}

func newWriterPool(level int) *writerPool {
	return &writerPool{level: level}
}

// get returns a writer configured to write to w.
func (p *writerPool) get(w io.Writer) (*zlib.Writer, func(), error) {
	if value := p.pool.Get(); value != nil {
		if zw, ok := value.(*zlib.Writer); ok {
			zw.Reset(w)
			return zw, func() { p.put(zw) }, nil
		}
	}

	zw, err := zlib.NewWriterLevel(w, p.level)
	if err != nil {
		return nil, nil, err
	}
	return zw, func() { p.put(zw) }, nil
}

func (p *writerPool) put(zw *zlib.Writer) {
	zw.Reset(io.Discard)
	p.pool.Put(zw)
}
