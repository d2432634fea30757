package tfcs

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/meigma/tfcs/internal/codec"
	"github.com/meigma/tfcs/internal/container"
	"github.com/meigma/tfcs/internal/lines"
	"github.com/meigma/tfcs/internal/plain"
	"github.com/meigma/tfcs/internal/rowpatch"
	"github.com/meigma/tfcs/internal/sizing"
	"github.com/meigma/tfcs/internal/table"
	"github.com/meigma/tfcs/patchstack"
)

// Patcher applies patch documents to TFCS containers.
//
// A Patcher is immutable once built and safe for concurrent use; every call
// works on its own buffers.
type Patcher struct {
	cfg               Config
	codec             Codec
	plain             PlainPatcher
	plainSet          bool
	expander          Expander
	subtitles         Resolver
	strictCompression bool
	logger            *slog.Logger

	applier *rowpatch.Applier
}

// New creates a Patcher for the given run configuration.
func New(cfg Config, opts ...Option) *Patcher {
	p := &Patcher{
		cfg:      cfg,
		expander: lines.BalloonExpander{MaxLines: lines.DefaultMaxLines},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.codec == nil {
		p.codec = codec.New()
	}
	if p.subtitles == nil && len(cfg.Subtitles.Layers) > 0 {
		stack := patchstack.FromDirs(cfg.Subtitles.Layers, patchstack.WithLogger(p.log()))
		p.log().Debug("subtitle layers", slog.Int("layers", stack.Len()))
		p.subtitles = stack
	}
	p.applier = rowpatch.New(cfg.settings(), p.expander, p.log())
	if !p.plainSet {
		p.plain = plain.New(p.applier, p.log())
	}
	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Patcher) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Config returns the configuration the Patcher was built with.
func (p *Patcher) Config() Config {
	return p.cfg
}

// PatchTable applies doc to the container in buf[:sizeIn].
//
// len(buf) is the output capacity; the patched container, header included,
// never grows past it. On success the header and payload in buf are
// rewritten and Result.Rows reports how many rows changed. Whenever the
// container cannot be patched safely (corrupt payload, inconsistent lengths,
// not enough room) buf is left untouched and an error is returned; the
// caller can keep using the original file.
func (p *Patcher) PatchTable(buf []byte, sizeIn int, fileName string, doc Document) (res Result, err error) {
	res.Size = sizeIn
	defer func() {
		if r := recover(); r != nil {
			res = Result{Size: sizeIn}
			err = fmt.Errorf("tfcs: patching %s panicked: %v", fileName, r)
			p.log().Error("TFCS: patching failed, keeping original file",
				slog.String("file", fileName),
				slog.Any("panic", r))
		}
	}()

	if len(doc) == 0 {
		return res, nil
	}
	if sizeIn < 0 || sizeIn > len(buf) {
		return res, fmt.Errorf("%s: %w: input size %d, buffer %d", fileName, ErrBufferOverrun, sizeIn, len(buf))
	}
	if !container.HasMagic(buf[:sizeIn]) {
		return p.patchPlain(buf, sizeIn, fileName, doc)
	}

	h, err := container.ReadHeader(buf[:sizeIn])
	if err != nil {
		return res, fmt.Errorf("%s: %w", fileName, err)
	}
	compressed, err := container.Payload(buf, sizeIn, h)
	if err != nil {
		return res, p.passThrough(fileName, err)
	}
	uncompressedSize, err := sizing.ToInt(h.UncompressedSize, ErrSizeOverflow)
	if err != nil {
		return res, p.passThrough(fileName, err)
	}
	payload, err := p.codec.Inflate(compressed, uncompressedSize)
	if err != nil {
		return res, p.passThrough(fileName, err)
	}

	// There is no patch size here, but the caller grew the buffer by it.
	capacity, ok := sizing.AddInt(uncompressedSize, len(buf)-sizeIn)
	if !ok {
		return res, p.passThrough(fileName, ErrSizeOverflow)
	}
	out, rows, err := p.patchRows(payload, capacity, fileName, doc)
	if err != nil {
		return res, p.passThrough(fileName, err)
	}
	if rows == 0 {
		return res, nil
	}

	return p.writeBack(buf, sizeIn, fileName, h, out, rows)
}

// patchRows streams the table in payload into a new table of at most limit
// bytes, rewriting the rows doc names.
func (p *Patcher) patchRows(payload []byte, limit int, fileName string, doc Document) ([]byte, int, error) {
	r, err := table.NewReader(payload)
	if err != nil {
		return nil, 0, err
	}
	nrows, err := sizing.ToUint32(r.RowCount(), ErrSizeOverflow)
	if err != nil {
		return nil, 0, err
	}
	w := table.NewWriter(limit)
	if err := w.PutUint32(nrows); err != nil {
		return nil, 0, err
	}

	rows := 0
	for row, err := range r.Rows() {
		if err != nil {
			return nil, 0, err
		}
		rp := doc.Row(row.Index)
		if rp == nil {
			if err := w.SkipRow(row); err != nil {
				return nil, 0, err
			}
			continue
		}

		patched := p.applier.Apply(row.Columns(), rp, row.Index)
		if err := w.WriteRow(patched.Columns); err != nil {
			if !errors.Is(err, ErrBufferOverrun) {
				return nil, 0, err
			}
			p.log().Warn("TFCS: patched row does not fit, keeping the original",
				slog.String("file", fileName),
				slog.Int("row", row.Index))
			if err := w.SkipRow(row); err != nil {
				return nil, 0, err
			}
			continue
		}
		rows++
	}

	if trailing := len(payload) - r.Offset(); trailing > 0 {
		p.log().Debug("ignoring bytes after the last row",
			slog.String("file", fileName),
			slog.Int("bytes", trailing))
	}
	if keys := doc.Rows(); len(keys) > 0 && keys[len(keys)-1] >= r.RowCount() {
		p.log().Debug("patch names rows past the end of the table",
			slog.String("file", fileName),
			slog.Int("rows", r.RowCount()),
			slog.Int("last", keys[len(keys)-1]))
	}
	return w.Bytes(), rows, nil
}

// writeBack compresses out into buf after the header and updates the header.
func (p *Patcher) writeBack(buf []byte, sizeIn int, fileName string, h Header, out []byte, rows int) (Result, error) {
	res := Result{Size: sizeIn}

	compressed, cerr := p.codec.Deflate(out, len(buf)-container.HeaderSize)
	if cerr != nil {
		if p.strictCompression || !errors.Is(cerr, ErrBufferOverrun) {
			return res, p.passThrough(fileName, cerr)
		}
		// A truncated stream still gets the game to load something.
		p.log().Warn("TFCS: compression failed, writing truncated payload",
			slog.String("file", fileName),
			slog.String("error", cerr.Error()))
		res.Truncated = true
	}

	compressedSize, err := sizing.ToUint32(len(compressed), ErrSizeOverflow)
	if err != nil {
		return Result{Size: sizeIn}, p.passThrough(fileName, err)
	}
	uncompressedSize, err := sizing.ToUint32(len(out), ErrSizeOverflow)
	if err != nil {
		return Result{Size: sizeIn}, p.passThrough(fileName, err)
	}
	h.CompressedSize = compressedSize
	h.UncompressedSize = uncompressedSize
	if err := container.WriteHeader(buf, h); err != nil {
		return Result{Size: sizeIn}, p.passThrough(fileName, err)
	}
	copy(buf[container.HeaderSize:], compressed)

	res.Rows = rows
	res.Size = container.HeaderSize + len(compressed)
	p.log().Debug("patched TFCS table",
		slog.String("file", fileName),
		slog.Int("rows", rows),
		slog.Int("size", res.Size))
	return res, nil
}

func (p *Patcher) patchPlain(buf []byte, sizeIn int, fileName string, doc Document) (Result, error) {
	res := Result{Size: sizeIn, Plain: true}
	if p.plain == nil {
		p.log().Debug("no TFCS header and no plain patcher, skipping", slog.String("file", fileName))
		return res, nil
	}
	rows, size, err := p.plain.Patch(buf, sizeIn, fileName, doc)
	if err != nil {
		return res, p.passThrough(fileName, err)
	}
	res.Rows = rows
	res.Size = size
	return res, nil
}

// passThrough logs why fileName is served unpatched and wraps err.
func (p *Patcher) passThrough(fileName string, err error) error {
	p.log().Warn("TFCS: patching failed, keeping original file",
		slog.String("file", fileName),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w", fileName, err)
}
