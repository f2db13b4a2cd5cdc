package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// ErrNoResponse is returned when a module exits without writing a response.
var ErrNoResponse = errors.New("module wrote no JSON-RPC response")

// WASMWorker runs a single WASI module.
type WASMWorker struct {
	runtime wazero.Runtime
	module  wazero.CompiledModule
}

// NewWASMWorker creates a runtime whose modules are closed once ctx is done,
// so a call deadline also stops a module stuck in a loop.
func NewWASMWorker(ctx context.Context) *WASMWorker {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, r)
	return &WASMWorker{runtime: r}
}

// Load compiles a WASM file from disk.
func (w *WASMWorker) Load(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mod, err := w.runtime.CompileModule(ctx, data)
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	w.module = mod
	return nil
}

// Execute runs the module to completion with the given stdio.
func (w *WASMWorker) Execute(ctx context.Context, stdin io.Reader, stdout io.Writer, env map[string]string) error {
	config := wazero.NewModuleConfig().
		WithStdin(stdin).
		WithStdout(stdout).
		WithStderr(os.Stderr).
		WithArgs("mdstudio-method")

	for k, v := range env {
		config = config.WithEnv(k, v)
	}

	// Instantiation runs _start and blocks until the module exits.
	mod, err := w.runtime.InstantiateModule(ctx, w.module, config)
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
			return nil
		}
		return err
	}
	return mod.Close(ctx)
}

func (w *WASMWorker) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}

// WASMInvoker calls a method by running a local WASI module. The request is
// one JSON-RPC line on the module's stdin; the first JSON line on its
// stdout is the response.
type WASMInvoker struct {
	path string
	env  map[string]string
}

func NewWASMInvoker(path string, env map[string]string) *WASMInvoker {
	return &WASMInvoker{path: path, env: env}
}

// Invoke runs the module once for this call.
func (i *WASMInvoker) Invoke(ctx context.Context, uri string, payload call.Payload) (*Result, error) {
	rpcReq, err := newRequest(1, uri, payload)
	if err != nil {
		return nil, err
	}
	line, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, err
	}

	worker := NewWASMWorker(ctx)
	defer worker.Close(context.WithoutCancel(ctx))
	if err := worker.Load(ctx, i.path); err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	stdin := bytes.NewReader(append(line, '\n'))
	slog.Debug("running wasm method", "module", i.path, "uri", uri)
	if err := worker.Execute(ctx, stdin, &stdout, i.env); err != nil {
		return nil, fmt.Errorf("run %s: %w", i.path, err)
	}
	return readResponse(&stdout)
}

// readResponse returns the first line of r that decodes as a JSON-RPC
// response. Other output is skipped.
func readResponse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var resp JSONRPCResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil || resp.JSONRPC == "" {
			continue
		}
		return toResult(&resp)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoResponse
}
