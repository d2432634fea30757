package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/tfcs/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func setup(t *testing.T) (root, stack, file string) {
	t.Helper()

	dir := t.TempDir()
	root = filepath.Join(dir, "game")
	stack = filepath.Join(dir, "patch")
	file = filepath.Join(root, "data", "talk.csv")

	buf, size := testutil.BuildContainer(t, [][]string{{"orig1", "orig2"}, {"keep"}}, 0)
	writeFile(t, file, buf[:size])
	writeFile(t, filepath.Join(stack, "data", "talk.csv.jdiff"), []byte(`{"0": {"0": "new1"}}`))
	return root, stack, file
}

func TestPatchCommand(t *testing.T) {
	t.Parallel()

	root, stack, file := setup(t)
	out := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "patch", "--game", "th155", "--root", root, "--stack", stack, "--out", out, file)
	require.NoError(t, err)

	patched, err := os.ReadFile(filepath.Join(out, "data", "talk.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"new1", "orig2"}, {"keep"}}, testutil.ReadContainer(t, patched))

	// The input is untouched when writing elsewhere.
	orig, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"orig1", "orig2"}, {"keep"}}, testutil.ReadContainer(t, orig))
}

func TestPatchCommandInPlace(t *testing.T) {
	t.Parallel()

	root, stack, file := setup(t)
	_, err := execute(t, "patch", "--root", root, "--stack", stack, "-j", "2", file)
	require.NoError(t, err)

	patched, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"new1", "orig2"}, {"keep"}}, testutil.ReadContainer(t, patched))
}

func TestPatchCommandOutsideRoot(t *testing.T) {
	t.Parallel()

	root, stack, _ := setup(t)
	_, err := execute(t, "patch", "--root", root, "--stack", stack, filepath.Join(t.TempDir(), "x.csv"))
	require.Error(t, err)
}

func TestDumpCommand(t *testing.T) {
	t.Parallel()

	_, _, file := setup(t)
	out, err := execute(t, "dump", file)
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows")
	assert.Contains(t, out, "row 0 (2 columns, 22 bytes)")
	assert.Contains(t, out, "row 1 (1 columns, 12 bytes)")
	assert.Contains(t, out, `0: "orig1"`)
	assert.Contains(t, out, `0: "keep"`)

	out, err = execute(t, "dump", "--row", "1", file)
	require.NoError(t, err)
	assert.NotContains(t, out, "orig1")
	assert.Contains(t, out, "keep")

	_, err = execute(t, "dump", "--encoding", "latin9", file)
	require.Error(t, err)
}

func TestDumpShiftJIS(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "sjis.csv")
	// "こんにちは" in Shift-JIS.
	hello := "\x82\xb1\x82\xf1\x82\xc9\x82\xbf\x82\xcd"
	buf, size := testutil.BuildContainer(t, [][]string{{hello}}, 0)
	writeFile(t, file, buf[:size])

	out, err := execute(t, "dump", "--encoding", "sjis", file)
	require.NoError(t, err)
	assert.Contains(t, out, "こんにちは")
}

func TestEstimateCommand(t *testing.T) {
	t.Parallel()

	root, stack, file := setup(t)
	out, err := execute(t, "estimate", "--root", root, "--stack", stack, file)
	require.NoError(t, err)
	assert.Contains(t, out, "data/talk.csv")
	// 20 byte patch: ceil(20*1.2) + 2049.
	assert.Contains(t, out, "2073")
}
