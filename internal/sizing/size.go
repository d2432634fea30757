// Package sizing provides safe size arithmetic and conversions to prevent overflow.
package sizing

import (
	"io"
	"math"
)

// ToInt converts a uint32 to int, returning overflowErr if it doesn't fit.
func ToInt(size uint32, overflowErr error) (int, error) {
	if uint64(size) > uint64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(size), nil
}

// ToUint32 converts a non-negative int to uint32, returning overflowErr if it
// doesn't fit.
func ToUint32(size int, overflowErr error) (uint32, error) {
	if size < 0 || uint64(size) > math.MaxUint32 {
		return 0, overflowErr
	}
	return uint32(size), nil //nolint:gosec // range checked above
}

// AddInt adds two non-negative ints, returning (result, false) on overflow.
func AddInt(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// MulDivCeil returns ceil(n * num / den) for non-negative operands,
// returning (result, false) on overflow or a zero denominator.
func MulDivCeil(n, num, den int) (int, bool) {
	if n < 0 || num < 0 || den <= 0 {
		return 0, false
	}
	if num != 0 && n > math.MaxInt/num {
		return 0, false
	}
	p := n * num
	q := p / den
	if p%den != 0 {
		q++
	}
	return q, true
}

// ReadAllWithLimit reads up to maxSize bytes from r.
// Returns overflowErr if more than maxSize bytes are available.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize > uint64(math.MaxInt-1) {
		return nil, overflowErr
	}
	limit := int64(maxSize) + 1 //nolint:gosec // checked above
	lr := &io.LimitedReader{R: r, N: limit}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > maxSize { //nolint:gosec // len is always non-negative
		return nil, overflowErr
	}
	return data, nil
}
