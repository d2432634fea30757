// Package batch runs a transform over many files concurrently and writes the
// results through a Sink.
package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Entry is one file to process.
type Entry struct {
	// Path is the file's location on disk.
	Path string

	// Name is the slash-separated name the file is known by inside the
	// game data; sinks that write elsewhere keep it as the relative path.
	Name string

	Mode    fs.FileMode
	ModTime time.Time
}

// Func transforms the contents of one entry. Returning nil output skips the
// entry without writing anything.
type Func func(entry *Entry, data []byte) ([]byte, error)

// Committer is a writer whose output only becomes visible on Commit.
type Committer interface {
	io.Writer
	Commit() error
	Discard() error
}

// Sink receives processed entries.
type Sink interface {
	// ShouldProcess reports whether entry needs processing at all.
	ShouldProcess(entry *Entry) bool

	// Writer returns where the output for entry goes.
	Writer(entry *Entry) (Committer, error)
}

// Stats counts what a Process call did.
type Stats struct {
	Written int
	Skipped int
}

// Processor applies a Func to entries.
type Processor struct {
	fn      Func
	workers int // 0 = GOMAXPROCS, <0 = serial, >0 = fixed count
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of files processed concurrently.
// Values < 0 force serial processing. Zero uses GOMAXPROCS.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		p.workers = n
	}
}

// NewProcessor creates a processor that applies fn to every entry.
func NewProcessor(fn Func, opts ...ProcessorOption) *Processor {
	p := &Processor{fn: fn}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewEntry stats path and returns its entry.
func NewEntry(path, name string) (*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("batch: %s is not a regular file", path)
	}
	return &Entry{Path: path, Name: name, Mode: info.Mode(), ModTime: info.ModTime()}, nil
}

// Process reads, transforms and writes entries.
//
// Entries are filtered through sink.ShouldProcess first. Processing stops on
// the first error; entries already committed stay written.
func (p *Processor) Process(ctx context.Context, entries []*Entry, sink Sink) (Stats, error) {
	var written, skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount(len(entries)))
	for _, entry := range entries {
		if !sink.ShouldProcess(entry) {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok, err := p.processEntry(entry, sink)
			if err != nil {
				return err
			}
			if ok {
				written.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	return Stats{Written: int(written.Load()), Skipped: int(skipped.Load())}, err
}

// processEntry transforms a single entry and commits the output.
func (p *Processor) processEntry(entry *Entry, sink Sink) (bool, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return false, fmt.Errorf("batch: %w", err)
	}
	out, err := p.fn(entry, data)
	if err != nil {
		return false, fmt.Errorf("batch: %s: %w", entry.Name, err)
	}
	if out == nil {
		return false, nil
	}

	w, err := sink.Writer(entry)
	if err != nil {
		return false, fmt.Errorf("batch: %s: %w", entry.Name, err)
	}
	if err := writeAll(w, out); err != nil {
		_ = w.Discard() //nolint:errcheck // best-effort cleanup
		return false, fmt.Errorf("batch: %s: %w", entry.Name, err)
	}
	if err := w.Commit(); err != nil {
		return false, fmt.Errorf("batch: %s: commit: %w", entry.Name, err)
	}
	return true, nil
}

// workerCount determines the number of concurrent workers.
func (p *Processor) workerCount(entries int) int {
	if p.workers < 0 || entries < 2 {
		return 1
	}
	workers := p.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(min(workers, entries), 1)
}

func writeAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}
