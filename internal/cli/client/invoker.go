// Package client implements the invocation boundary: it delivers a payload
// to a remote method and returns the method's result.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
)

// ErrNoEndpoint is returned when no endpoint is configured.
var ErrNoEndpoint = errors.New("no endpoint configured (use --endpoint or a profile)")

// Invoker calls a remote method with a payload.
type Invoker interface {
	Invoke(ctx context.Context, uri string, payload call.Payload) (*Result, error)
}

// Result is the opaque value returned by a remote method.
type Result struct {
	Value json.RawMessage `json:"result"`
}

// Decode unmarshals the result value into v.
func (r *Result) Decode(v interface{}) error {
	if len(r.Value) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal(r.Value, v)
}

// Options configure the invoker built by New.
type Options struct {
	// HTTPClient is used for http(s) endpoints. nil means a default client.
	HTTPClient *http.Client
	// Env is passed to WASM modules.
	Env map[string]string
}

const wasmScheme = "wasm://"

// New returns the invoker for endpoint: an http(s) URL is called over
// JSON-RPC/HTTP, a wasm:// URL or a .wasm path runs a local module.
func New(endpoint string, opts Options) (Invoker, error) {
	switch {
	case endpoint == "":
		return nil, ErrNoEndpoint
	case strings.HasPrefix(endpoint, wasmScheme):
		return NewWASMInvoker(strings.TrimPrefix(endpoint, wasmScheme), opts.Env), nil
	case strings.HasSuffix(endpoint, ".wasm"):
		return NewWASMInvoker(endpoint, opts.Env), nil
	default:
		return NewHTTPInvoker(endpoint, opts.HTTPClient), nil
	}
}
