package infer_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdstudio/mdstudio-cli/internal/cli/args"
	"github.com/mdstudio/mdstudio-cli/internal/cli/infer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolver_ScalarFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.txt", "DATA")

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, "DATA", r.Resolve("data.txt"))
}

func TestResolver_AbsolutePathWithoutReading(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.txt", "DATA")

	r := infer.Resolver{Dir: dir}
	got := r.Resolve("data.txt")
	assert.Equal(t, path, got)
	assert.True(t, filepath.IsAbs(got.(string)))
}

func TestResolver_LeavesOtherValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, "missing.txt", r.Resolve("missing.txt"))
	assert.Equal(t, "sub", r.Resolve("sub"))
	assert.Equal(t, int64(5), r.Resolve(int64(5)))
	assert.Equal(t, true, r.Resolve(true))
	assert.Equal(t, map[string]any{"a": 1.0}, r.Resolve(map[string]any{"a": 1.0}))
}

func TestResolver_SequenceDropsNonFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "X")

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, []any{"X"}, r.Resolve([]any{"a.txt", "notfound.txt"}))
}

func TestResolver_SequenceKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "A")
	writeFile(t, dir, "b.txt", "B")

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, []any{"B", "A"}, r.Resolve([]any{"b.txt", int64(3), "a.txt"}))
}

func TestResolver_SequenceWithoutFiles(t *testing.T) {
	r := infer.Resolver{Dir: t.TempDir(), ReadFiles: true}
	in := []any{int64(1), int64(2), "x"}
	assert.Equal(t, in, r.Resolve(in))
}

func TestResolver_SequencePathsWithoutReading(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "A")

	r := infer.Resolver{Dir: dir}
	assert.Equal(t, []any{path, "b.txt"}, r.Resolve([]any{"a.txt", "b.txt"}))
}

func TestResolver_UnreadableFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := t.TempDir()
	path := writeFile(t, dir, "secret.txt", "S")
	require.NoError(t, os.Chmod(path, 0))

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, "secret.txt", r.Resolve("secret.txt"))
	assert.Equal(t, []any{"secret.txt"}, r.Resolve([]any{"secret.txt"}))
}

func TestInfer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "in.pdb", "ATOM")

	groups := args.Groups{
		"x":     []string{"1", "2"},
		"y":     true,
		"ratio": "3.14",
		"name":  "hello",
		"mol":   "in.pdb",
	}

	got := infer.Infer(groups, infer.Resolver{Dir: dir, ReadFiles: true})
	assert.Equal(t, map[string]any{
		"x":     []any{int64(1), int64(2)},
		"y":     true,
		"ratio": 3.14,
		"name":  "hello",
		"mol":   "ATOM",
	}, got)

	// input is left untouched
	assert.Equal(t, []string{"1", "2"}, groups["x"])
}

func TestResolver_InvalidUTF8Warns(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	writeFile(t, dir, "traj.bin", "\xff\xfeAB")
	writeFile(t, dir, "ok.txt", "fine")

	r := infer.Resolver{Dir: dir, ReadFiles: true}
	assert.Equal(t, "fine", r.Resolve("ok.txt"))
	assert.Empty(t, logs.String())

	assert.Equal(t, "\xff\xfeAB", r.Resolve("traj.bin"))
	assert.Contains(t, logs.String(), "not valid UTF-8")
	assert.Contains(t, logs.String(), "traj.bin")
}
