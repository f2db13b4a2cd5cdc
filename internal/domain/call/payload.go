// Package call assembles the request payload sent to a remote method.
package call

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mdstudio/mdstudio-cli/internal/cli/args"
	"github.com/mdstudio/mdstudio-cli/internal/cli/infer"
)

// URIKey is the reserved payload key holding the method URI.
const URIKey = "uri"

// ErrMissingURI is returned when no method URI was given.
var ErrMissingURI = errors.New("method uri is required (--uri/-u)")

// ReservedKeywordError is returned when a keyword collides with a key the
// payload reserves for itself.
type ReservedKeywordError struct {
	Keyword string
}

func (e *ReservedKeywordError) Error() string {
	return fmt.Sprintf("keyword %q is reserved", e.Keyword)
}

// Payload is the keyword mapping handed to the invocation boundary.
type Payload map[string]any

// URI returns the method URI stored in the payload.
func (p Payload) URI() string {
	s, _ := p[URIKey].(string)
	return s
}

// Kwargs returns a copy of the payload without the reserved URI entry.
func (p Payload) Kwargs() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if k != URIKey {
			out[k] = v
		}
	}
	return out
}

// Build creates a payload from typed keyword values and the method URI.
func Build(uri string, kwargs map[string]any) (Payload, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	if _, ok := kwargs[URIKey]; ok {
		return nil, &ReservedKeywordError{Keyword: URIKey}
	}

	p := make(Payload, len(kwargs)+1)
	for k, v := range kwargs {
		p[k] = v
	}
	p[URIKey] = uri
	return p, nil
}

// Options control how Parse reads keyword tokens.
type Options struct {
	Prefix    string
	ReadFiles bool
	// Dir is the base directory for relative file paths.
	Dir string
}

// DefaultOptions uses the default prefix and reads files.
func DefaultOptions() Options {
	return Options{
		Prefix:    args.DefaultPrefix,
		ReadFiles: true,
	}
}

// Parse splits tokens into keywords, infers their types and returns the
// payload for uri.
func Parse(tokens []string, uri string, opts Options) (Payload, error) {
	if uri == "" {
		return nil, ErrMissingURI
	}
	if opts.Prefix == "" {
		opts.Prefix = args.DefaultPrefix
	}

	groups, err := args.Split(tokens, opts.Prefix)
	if err != nil {
		return nil, err
	}
	slog.Debug("split keyword arguments", "uri", uri, "keywords", len(groups))

	typed := infer.Infer(groups, infer.Resolver{Dir: opts.Dir, ReadFiles: opts.ReadFiles})
	return Build(uri, typed)
}
