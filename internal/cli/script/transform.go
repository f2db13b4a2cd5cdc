// Package script runs user JavaScript that rewrites a payload before it is
// sent.
package script

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dop251/goja"
	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
)

// ErrNotObject is returned when a script does not return an object.
var ErrNotObject = errors.New("script must return an object")

// Transformer runs a script body with the payload bound to `args` and the
// method URI bound to `uri`. The value the script returns becomes the new
// payload.
type Transformer struct {
	source string
	name   string
}

// New creates a transformer for the given script body.
func New(name, source string) *Transformer {
	return &Transformer{name: name, source: source}
}

// Load reads a script from path.
func Load(path string) (*Transformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return New(path, string(data)), nil
}

// Apply runs the script over p and returns the rewritten payload. The uri
// entry is always restored from p.
func (t *Transformer) Apply(p call.Payload) (call.Payload, error) {
	vm := goja.New()

	if err := vm.Set("args", map[string]interface{}(p.Kwargs())); err != nil {
		return nil, err
	}
	if err := vm.Set("uri", p.URI()); err != nil {
		return nil, err
	}
	if err := vm.Set("log", func(msg interface{}) {
		slog.Info("script", "script", t.name, "msg", msg)
	}); err != nil {
		return nil, err
	}

	// Wrap script in an IIFE to support 'return'
	fullScript := fmt.Sprintf("(function() { %s\n})()", t.source)
	value, err := vm.RunScript(t.name, fullScript)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", t.name, err)
	}

	out, ok := value.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("script %s: %w", t.name, ErrNotObject)
	}
	delete(out, call.URIKey)
	return call.Build(p.URI(), out)
}
