package patchstack

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Extension is appended to a game file name to find its patch document.
const Extension = ".jdiff"

// Layer is one patch in the stack.
type Layer struct {
	// Name identifies the layer in logs.
	Name string
	// FS holds the layer's patch documents.
	FS fs.FS
}

// DirLayer returns a layer rooted at a directory on disk.
func DirLayer(dir string) Layer {
	return Layer{Name: filepath.Base(dir), FS: os.DirFS(dir)}
}

// Option configures a Stack.
type Option func(*Stack)

// WithLogger sets the logger used to report skipped layer documents.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stack) {
		s.logger = logger
	}
}

// Stack resolves patch documents across layers. It is safe for concurrent
// use as long as its layers are.
type Stack struct {
	layers []Layer
	logger *slog.Logger
}

// New returns a stack over layers, lowest priority first.
func New(layers []Layer, opts ...Option) *Stack {
	s := &Stack{layers: append([]Layer(nil), layers...)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromDirs returns a stack over directories, lowest priority first.
func FromDirs(dirs []string, opts ...Option) *Stack {
	layers := make([]Layer, 0, len(dirs))
	for _, dir := range dirs {
		layers = append(layers, DirLayer(dir))
	}
	return New(layers, opts...)
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

func (s *Stack) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

// Resolve merges the patch documents for fileName across all layers.
//
// It returns the merged document and the combined size of the layer files
// that contributed to it. A file no layer patches yields a nil document and
// no error. Layer documents that are not valid JSON are logged and skipped.
func (s *Stack) Resolve(fileName string) ([]byte, int, error) {
	name, err := docPath(fileName)
	if err != nil {
		return nil, 0, err
	}

	var (
		doc  []byte
		size int
	)
	for _, layer := range s.layers {
		data, err := fs.ReadFile(layer.FS, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read %s from %s: %w", name, layer.Name, err)
		}

		merged, err := Merge(doc, data)
		if err != nil {
			s.log().Warn("skipping patch document",
				slog.String("layer", layer.Name),
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}
		doc = merged
		size += len(data)
	}
	return doc, size, nil
}

// docPath maps a game file name to a slash-separated fs path.
func docPath(fileName string) (string, error) {
	name := strings.ReplaceAll(fileName, `\`, "/")
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		return "", fmt.Errorf("patchstack: invalid file name %q", fileName)
	}
	return name + Extension, nil
}
