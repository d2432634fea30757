// Package testutil builds TFCS tables and containers for tests.
package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/tfcs/internal/codec"
	"github.com/meigma/tfcs/internal/container"
	"github.com/meigma/tfcs/internal/table"
)

// BuildTable encodes rows as a decompressed TFCS payload.
func BuildTable(rows [][]string) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(rows))) //nolint:gosec // test data
	for _, row := range rows {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(row))) //nolint:gosec // test data
		for _, col := range row {
			out = binary.LittleEndian.AppendUint32(out, uint32(len(col))) //nolint:gosec // test data
			out = append(out, col...)
		}
	}
	return out
}

// BuildContainer compresses rows into a TFCS container followed by extra
// bytes of spare capacity. It returns the buffer and the input size.
func BuildContainer(tb testing.TB, rows [][]string, extra int) ([]byte, int) {
	tb.Helper()

	payload := BuildTable(rows)
	compressed, err := codec.New().Deflate(payload, len(payload)+1024)
	require.NoError(tb, err)

	size := container.HeaderSize + len(compressed)
	buf := make([]byte, size+extra)
	require.NoError(tb, container.WriteHeader(buf, container.Header{
		Magic:            container.Magic,
		CompressedSize:   uint32(len(compressed)), //nolint:gosec // test data
		UncompressedSize: uint32(len(payload)),    //nolint:gosec // test data
	}))
	copy(buf[container.HeaderSize:], compressed)
	return buf, size
}

// ReadContainer decompresses a TFCS container and decodes its rows.
func ReadContainer(tb testing.TB, buf []byte) [][]string {
	tb.Helper()

	payload := InflateContainer(tb, buf)
	return ReadTable(tb, payload)
}

// InflateContainer returns the decompressed payload of a TFCS container.
func InflateContainer(tb testing.TB, buf []byte) []byte {
	tb.Helper()

	h, err := container.ReadHeader(buf)
	require.NoError(tb, err)
	compressed, err := container.Payload(buf, len(buf), h)
	require.NoError(tb, err)
	payload, err := codec.New().Inflate(compressed, int(h.UncompressedSize))
	require.NoError(tb, err)
	return payload
}

// ReadTable decodes every row of a decompressed payload.
func ReadTable(tb testing.TB, payload []byte) [][]string {
	tb.Helper()

	r, err := table.NewReader(payload)
	require.NoError(tb, err)
	rows := make([][]string, 0, r.RowCount())
	for row, err := range r.Rows() {
		require.NoError(tb, err)
		rows = append(rows, row.Columns())
	}
	require.Equal(tb, len(payload), r.Offset(), "trailing bytes after last row")
	return rows
}
