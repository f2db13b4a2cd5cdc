package script_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdstudio/mdstudio-cli/internal/cli/script"
	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T) call.Payload {
	t.Helper()
	p, err := call.Build("md.atb.get", map[string]any{"molid": int64(21), "flag": true})
	require.NoError(t, err)
	return p
}

func TestTransformer_Apply(t *testing.T) {
	tr := script.New("add.js", `
		args.isomeric = uri.endsWith(".get");
		args.molid = args.molid + 1;
		return args;
	`)

	out, err := tr.Apply(payload(t))
	require.NoError(t, err)
	assert.Equal(t, "md.atb.get", out.URI())
	assert.Equal(t, true, out["isomeric"])
	assert.EqualValues(t, 22, out["molid"])
	assert.Equal(t, true, out["flag"])
}

func TestTransformer_CannotChangeURI(t *testing.T) {
	tr := script.New("uri.js", `return {uri: "other.method", a: 1};`)

	out, err := tr.Apply(payload(t))
	require.NoError(t, err)
	assert.Equal(t, "md.atb.get", out.URI())
	assert.EqualValues(t, 1, out["a"])
}

func TestTransformer_NotObject(t *testing.T) {
	_, err := script.New("num.js", `return 5;`).Apply(payload(t))
	assert.ErrorIs(t, err, script.ErrNotObject)
}

func TestTransformer_SyntaxError(t *testing.T) {
	_, err := script.New("bad.js", `return {`).Apply(payload(t))
	assert.ErrorContains(t, err, "bad.js")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.js")
	require.NoError(t, os.WriteFile(path, []byte(`delete args.flag; return args;`), 0644))

	tr, err := script.Load(path)
	require.NoError(t, err)

	out, err := tr.Apply(payload(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "flag")

	_, err = script.Load(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestTransformer_Log(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tr := script.New("log.js", `log("molid " + args.molid); return args;`)
	_, err := tr.Apply(payload(t))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "molid 21")
	assert.Contains(t, logs.String(), "script=log.js")
}
