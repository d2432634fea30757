//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/tfcs"
	"github.com/meigma/tfcs/internal/batch"
	"github.com/meigma/tfcs/internal/testutil"
	"github.com/meigma/tfcs/patchstack"
)

// --- Test Data Helpers ---

// createTestFiles writes test files to a directory.
func createTestFiles(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(tb, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(tb, os.WriteFile(fullPath, content, 0o644))
	}
}

// container builds a TFCS file holding rows.
func container(tb testing.TB, rows [][]string) []byte {
	tb.Helper()
	buf, size := testutil.BuildContainer(tb, rows, 0)
	return buf[:size]
}

// messageRow returns a modern-layout win message row with 23 columns.
func messageRow(speaker, text string) []string {
	row := make([]string, 23)
	for i := range row {
		row[i] = fmt.Sprintf("c%d", i)
	}
	row[0] = speaker
	row[11] = ""
	row[12] = text
	row[21] = ""
	row[22] = ""
	return row
}

// --- Pipeline ---

// patchTree patches every file under root in place, the way the tfcs
// command does, and returns the batch statistics.
func patchTree(tb testing.TB, p *tfcs.Patcher, stack *patchstack.Stack, root string, names []string, subtitles bool) batch.Stats {
	tb.Helper()

	entries := make([]*batch.Entry, 0, len(names))
	for _, name := range names {
		entry, err := batch.NewEntry(filepath.Join(root, filepath.FromSlash(name)), name)
		require.NoError(tb, err)
		entries = append(entries, entry)
	}

	proc := batch.NewProcessor(func(entry *batch.Entry, data []byte) ([]byte, error) {
		raw, size, err := stack.Resolve(entry.Name)
		if err != nil {
			return nil, err
		}
		doc, err := tfcs.ParsePatch(raw)
		if err != nil {
			return nil, err
		}
		extra := p.EstimateSize(entry.Name, doc, size)
		if subtitles {
			extra += p.EstimateSubtitlesSize(entry.Name)
		}
		if extra == 0 {
			return nil, nil
		}

		buf := make([]byte, len(data)+extra)
		copy(buf, data)
		res, err := p.PatchTable(buf, len(data), entry.Name, doc)
		if err != nil {
			return nil, nil
		}
		rows := res.Rows
		if subtitles {
			sub, err := p.PatchSubtitles(buf, res.Size, entry.Name)
			require.NoError(tb, err)
			res.Size = sub.Size
			rows += sub.Rows
		}
		if rows == 0 {
			return nil, nil
		}
		return buf[:res.Size], nil
	}, batch.WithWorkers(4))

	stats, err := proc.Process(context.Background(), entries, batch.NewFileSink(""))
	require.NoError(tb, err)
	return stats
}

// readRows decodes the TFCS file at path.
func readRows(tb testing.TB, path string) [][]string {
	tb.Helper()
	data, err := os.ReadFile(path)
	require.NoError(tb, err)
	return testutil.ReadContainer(tb, data)
}
