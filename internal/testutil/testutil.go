package testutil

import (
	"sync"

	"github.com/meigma/tfcs/internal/codec"
	"github.com/meigma/tfcs/internal/patchdoc"
)

// MockCodec wraps the zlib codec and counts calls.
type MockCodec struct {
	inner *codec.Zlib

	mu       sync.Mutex
	Inflates int
	Deflates int
}

// NewMockCodec returns a counting codec backed by the real implementation.
func NewMockCodec() *MockCodec {
	return &MockCodec{inner: codec.New()}
}

// Inflate counts the call and delegates.
func (c *MockCodec) Inflate(src []byte, size int) ([]byte, error) {
	c.mu.Lock()
	c.Inflates++
	c.mu.Unlock()
	return c.inner.Inflate(src, size)
}

// Deflate counts the call and delegates.
func (c *MockCodec) Deflate(src []byte, limit int) ([]byte, error) {
	c.mu.Lock()
	c.Deflates++
	c.mu.Unlock()
	return c.inner.Deflate(src, limit)
}

// Calls returns the total number of codec calls.
func (c *MockCodec) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Inflates + c.Deflates
}

// PlainCall records one call to a MockPlain.
type PlainCall struct {
	FileName string
	SizeIn   int
	SizeOut  int
}

// MockPlain records fallback calls and returns a fixed result.
type MockPlain struct {
	Result int
	Err    error

	mu    sync.Mutex
	calls []PlainCall
}

// Calls returns a copy of the recorded calls.
func (p *MockPlain) Calls() []PlainCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PlainCall(nil), p.calls...)
}

// Patch records the call and returns Result rows with the size unchanged.
func (p *MockPlain) Patch(buf []byte, sizeIn int, fileName string, _ patchdoc.Document) (rows, size int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, PlainCall{FileName: fileName, SizeIn: sizeIn, SizeOut: len(buf)})
	return p.Result, sizeIn, p.Err
}
