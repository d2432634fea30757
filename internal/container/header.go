// Package container reads and writes the fixed TFCS header.
package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"

	"github.com/meigma/tfcs/internal/tfcstype"
)

// HeaderSize is the packed size of Header on disk.
const HeaderSize = 13

// Magic opens every TFCS container.
var Magic = [5]byte{'T', 'F', 'C', 'S', 0}

// Header is the little-endian TFCS container header. The compressed payload
// follows immediately.
type Header struct {
	Magic            [5]byte
	CompressedSize   uint32
	UncompressedSize uint32
}

// HasMagic reports whether buf starts with a complete TFCS header.
func HasMagic(buf []byte) bool {
	return len(buf) >= HeaderSize && bytes.Equal(buf[:len(Magic)], Magic[:])
}

// ReadHeader decodes the header at the start of buf.
func ReadHeader(buf []byte) (Header, error) {
	var h Header
	if !HasMagic(buf) {
		return h, tfcstype.ErrHeaderMismatch
	}
	if err := restruct.Unpack(buf[:HeaderSize], binary.LittleEndian, &h); err != nil {
		return h, fmt.Errorf("%w: %w", tfcstype.ErrHeaderMismatch, err)
	}
	return h, nil
}

// WriteHeader encodes h into the first HeaderSize bytes of buf.
func WriteHeader(buf []byte, h Header) error {
	if len(buf) < HeaderSize {
		return tfcstype.ErrBufferOverrun
	}
	data, err := restruct.Pack(binary.LittleEndian, &h)
	if err != nil {
		return fmt.Errorf("pack header: %w", err)
	}
	if len(data) != HeaderSize {
		return fmt.Errorf("pack header: got %d bytes, want %d", len(data), HeaderSize)
	}
	copy(buf, data)
	return nil
}

// Payload returns the compressed payload described by h, checking it lies
// within the first size bytes of buf.
func Payload(buf []byte, size int, h Header) ([]byte, error) {
	if size > len(buf) {
		return nil, fmt.Errorf("%w: input size %d exceeds buffer of %d bytes", tfcstype.ErrBufferOverrun, size, len(buf))
	}
	end := uint64(HeaderSize) + uint64(h.CompressedSize)
	if end > uint64(size) { //nolint:gosec // size is non-negative here
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds input of %d bytes",
			tfcstype.ErrBufferOverrun, h.CompressedSize, size)
	}
	return buf[HeaderSize:end], nil
}
