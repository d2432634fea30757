package batch

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSink stages each patched table next to its output path and renames it
// into place on Commit, so a game never loads a half-written table. With an
// empty destination directory the source files themselves are replaced.
type FileSink struct {
	destDir       string
	overwrite     bool
	preserveMode  bool
	preserveTimes bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithOverwrite replaces tables already present in the destination
// directory instead of skipping them. In-place sinks always replace.
func WithOverwrite(overwrite bool) FileSinkOption {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// WithPreserveMode copies the source file's permission bits onto the
// patched table. Otherwise the staged file keeps its 0600 mode.
func WithPreserveMode(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveMode = preserve
	}
}

// WithPreserveTimes stamps the patched table with the source file's
// modification time.
func WithPreserveTimes(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveTimes = preserve
	}
}

// NewFileSink returns a sink writing below destDir at each entry's Name, or
// over Entry.Path when destDir is empty.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{destDir: destDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileSink) destPath(entry *Entry) string {
	if s.destDir == "" {
		return entry.Path
	}
	return filepath.Join(s.destDir, filepath.FromSlash(entry.Name))
}

// ShouldProcess skips entries whose output already exists, unless the sink
// overwrites or patches in place.
func (s *FileSink) ShouldProcess(entry *Entry) bool {
	if s.overwrite || s.destDir == "" {
		return true
	}
	_, err := os.Stat(s.destPath(entry))
	return os.IsNotExist(err)
}

// Writer returns a staging file next to the entry's output path.
func (s *FileSink) Writer(entry *Entry) (Committer, error) {
	dst := s.destPath(entry)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	// Same directory, so the final rename never crosses filesystems.
	staged, err := os.CreateTemp(dir, ".tfcs-*")
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", entry.Name, err)
	}
	return &stagedFile{File: staged, entry: entry, dst: dst, sink: s}, nil
}

// stagedFile collects a patched table until it replaces dst.
type stagedFile struct {
	*os.File
	entry *Entry
	dst   string
	sink  *FileSink
}

// Commit publishes the staged table at its output path.
func (f *stagedFile) Commit() error {
	if err := f.Close(); err != nil {
		return f.abandon(fmt.Errorf("close staged %s: %w", f.entry.Name, err))
	}
	if f.sink.preserveMode {
		if err := os.Chmod(f.Name(), f.entry.Mode.Perm()); err != nil {
			return f.abandon(fmt.Errorf("chmod: %w", err))
		}
	}
	if f.sink.preserveTimes {
		if err := os.Chtimes(f.Name(), f.entry.ModTime, f.entry.ModTime); err != nil {
			return f.abandon(fmt.Errorf("chtimes: %w", err))
		}
	}
	if err := os.Rename(f.Name(), f.dst); err != nil {
		return f.abandon(fmt.Errorf("replace %s: %w", f.dst, err))
	}
	return nil
}

// Discard drops the staged table; the output path is left as it was.
func (f *stagedFile) Discard() error {
	_ = f.Close() //nolint:errcheck // the file is removed next
	return os.Remove(f.Name())
}

func (f *stagedFile) abandon(err error) error {
	_ = os.Remove(f.Name()) //nolint:errcheck // err is what the caller needs
	return err
}
