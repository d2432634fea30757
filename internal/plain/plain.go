// Package plain patches tables stored in their natural comma-separated form,
// the fallback used when a buffer carries no TFCS header.
package plain

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/meigma/tfcs/internal/patchdoc"
	"github.com/meigma/tfcs/internal/rowpatch"
	"github.com/meigma/tfcs/internal/tfcstype"
)

// Patcher applies row patches to CSV tables in place.
type Patcher struct {
	applier *rowpatch.Applier
	logger  *slog.Logger
}

// New returns a Patcher that rewrites rows with applier.
func New(applier *rowpatch.Applier, logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Patcher{applier: applier, logger: logger}
}

// Patch rewrites the CSV table in buf[:sizeIn] and returns the number of
// patched rows and the new table size. buf is left untouched when nothing
// applies or the result does not fit in len(buf).
func (p *Patcher) Patch(buf []byte, sizeIn int, fileName string, doc patchdoc.Document) (rows, size int, err error) {
	if len(doc) == 0 {
		return 0, sizeIn, nil
	}
	if sizeIn < 0 || sizeIn > len(buf) {
		return 0, sizeIn, fmt.Errorf("%w: input size %d, buffer %d", tfcstype.ErrBufferOverrun, sizeIn, len(buf))
	}
	in := buf[:sizeIn]

	r := csv.NewReader(bytes.NewReader(in))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return 0, sizeIn, fmt.Errorf("parse %s: %w", fileName, err)
	}

	for i, rec := range records {
		rp := doc.Row(i)
		if rp == nil {
			continue
		}
		p.applier.Apply(rec, rp, i)
		rows++
	}
	if rows == 0 {
		return 0, sizeIn, nil
	}

	var out bytes.Buffer
	w := csv.NewWriter(&out)
	w.UseCRLF = bytes.Contains(in, []byte("\r\n"))
	if err := w.WriteAll(records); err != nil {
		return 0, sizeIn, fmt.Errorf("write %s: %w", fileName, err)
	}
	if out.Len() > len(buf) {
		return 0, sizeIn, fmt.Errorf("%w: patched table is %d bytes, buffer %d",
			tfcstype.ErrBufferOverrun, out.Len(), len(buf))
	}

	n := copy(buf, out.Bytes())
	clear(buf[n:])
	p.logger.Debug("patched plain table",
		slog.String("file", fileName),
		slog.Int("rows", rows),
		slog.Int("size", n))
	return rows, n, nil
}
