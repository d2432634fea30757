package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEntries(t *testing.T, dir string, files map[string]string) []*Entry {
	t.Helper()

	entries := make([]*Entry, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		entry, err := NewEntry(path, name)
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	return entries
}

func upper(_ *Entry, data []byte) ([]byte, error) {
	return bytes.ToUpper(data), nil
}

func TestProcessInPlace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := writeEntries(t, dir, map[string]string{
		"a.csv":      "alpha",
		"data/b.csv": "beta",
	})

	stats, err := NewProcessor(upper, WithWorkers(2)).Process(context.Background(), entries, NewFileSink(""))
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 2}, stats)

	got, err := os.ReadFile(filepath.Join(dir, "data", "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, "BETA", string(got))

	// No temp files left behind.
	matches, err := filepath.Glob(filepath.Join(dir, "data", ".tfcs-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestProcessToDirectory(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	entries := writeEntries(t, src, map[string]string{"data/c.csv": "gamma"})
	require.NoError(t, os.MkdirAll(filepath.Join(dst, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "data", "c.csv"), []byte("old"), 0o600))

	// Existing output is kept without overwrite.
	stats, err := NewProcessor(upper).Process(context.Background(), entries, NewFileSink(dst))
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 1}, stats)

	stats, err = NewProcessor(upper).Process(context.Background(), entries, NewFileSink(dst, WithOverwrite(true)))
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 1}, stats)

	got, err := os.ReadFile(filepath.Join(dst, "data", "c.csv"))
	require.NoError(t, err)
	assert.Equal(t, "GAMMA", string(got))

	orig, err := os.ReadFile(filepath.Join(src, "data", "c.csv"))
	require.NoError(t, err)
	assert.Equal(t, "gamma", string(orig))
}

func TestProcessSkipsNilOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := writeEntries(t, dir, map[string]string{"a.csv": "alpha", "b.csv": "beta"})

	fn := func(e *Entry, data []byte) ([]byte, error) {
		if e.Name == "a.csv" {
			return nil, nil
		}
		return upper(e, data)
	}
	stats, err := NewProcessor(fn).Process(context.Background(), entries, NewFileSink(""))
	require.NoError(t, err)
	assert.Equal(t, Stats{Written: 1, Skipped: 1}, stats)

	got, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))
}

func TestProcessStopsOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files[name+".csv"] = name
	}
	entries := writeEntries(t, dir, files)

	boom := errors.New("boom")
	var calls atomic.Int32
	fn := func(e *Entry, data []byte) ([]byte, error) {
		calls.Add(1)
		if strings.HasPrefix(e.Name, "c") {
			return nil, boom
		}
		return data, nil
	}
	_, err := NewProcessor(fn, WithWorkers(-1)).Process(context.Background(), entries, NewFileSink(""))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c.csv")
	assert.LessOrEqual(t, int(calls.Load()), len(entries))
}

func TestProcessCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := writeEntries(t, dir, map[string]string{"a.csv": "alpha"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(upper).Process(ctx, entries, NewFileSink(""))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileSinkPreservesMetadata(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	entries := writeEntries(t, src, map[string]string{"a.csv": "alpha"})

	mtime := time.Date(2015, 5, 10, 12, 0, 0, 0, time.UTC)
	entries[0].ModTime = mtime
	entries[0].Mode = 0o640

	sink := NewFileSink(dst, WithPreserveMode(true), WithPreserveTimes(true))
	_, err := NewProcessor(upper).Process(context.Background(), entries, sink)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dst, "a.csv"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestFileSinkDiscard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entries := writeEntries(t, dir, map[string]string{"a.csv": "alpha"})

	w, err := NewFileSink("").Writer(entries[0])
	require.NoError(t, err)
	_, err = w.Write([]byte("half"))
	require.NoError(t, err)
	require.NoError(t, w.Discard())

	got, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(got))

	staged, err := filepath.Glob(filepath.Join(dir, ".tfcs-*"))
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestNewEntryRejectsDirectories(t *testing.T) {
	t.Parallel()

	_, err := NewEntry(t.TempDir(), "dir")
	require.Error(t, err)
}

func TestWorkerCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NewProcessor(upper, WithWorkers(-1)).workerCount(10))
	assert.Equal(t, 1, NewProcessor(upper, WithWorkers(8)).workerCount(1))
	assert.Equal(t, 3, NewProcessor(upper, WithWorkers(8)).workerCount(3))
	assert.Equal(t, 4, NewProcessor(upper, WithWorkers(4)).workerCount(10))
}
