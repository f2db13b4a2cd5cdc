package infer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mdstudio/mdstudio-cli/internal/cli/args"
)

var (
	errNotPath = errors.New("value does not support path operations")
	errNoFile  = errors.New("no regular file at path")
)

// Resolver replaces values that name existing files with their absolute
// path and, when ReadFiles is set, with the file contents.
type Resolver struct {
	// Dir is the base for relative paths. Empty means the working directory.
	Dir       string
	ReadFiles bool
}

// locate returns the absolute path of the regular file named by v.
func (r Resolver) locate(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%T: %w", v, errNotPath)
	}
	p := s
	if !filepath.IsAbs(p) && r.Dir != "" {
		p = filepath.Join(r.Dir, p)
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", errNoFile
	}
	return filepath.Abs(p)
}

// readText returns the file contents. Bytes that are not valid UTF-8 cannot
// survive JSON encoding and are sent as U+FFFD, which is logged.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		slog.Warn("file is not valid UTF-8, invalid bytes will be replaced", "path", path, "size", len(data))
	}
	return string(data), nil
}

func (r Resolver) resolveScalar(v any) (any, error) {
	path, err := r.locate(v)
	if err != nil {
		return nil, err
	}
	if !r.ReadFiles {
		return path, nil
	}
	return readText(path)
}

// resolveSequence resolves every element. Once any element yields file
// content the result holds only the contents, in order; elements that are
// not files are dropped from it.
func (r Resolver) resolveSequence(seq []any) (any, error) {
	resolved := make([]any, len(seq))
	var contents []any
	for i, el := range seq {
		path, err := r.locate(el)
		if err != nil {
			resolved[i] = el
			continue
		}
		resolved[i] = path
		if !r.ReadFiles {
			continue
		}
		text, err := readText(path)
		if err != nil {
			return nil, err
		}
		contents = append(contents, text)
	}
	if len(contents) == 0 {
		return resolved, nil
	}
	if len(contents) != len(seq) {
		slog.Warn("sequence mixes files and plain values, plain values dropped",
			"given", len(seq), "kept", len(contents))
	}
	return contents, nil
}

// Resolve applies path and file resolution to v. Errors are not reported:
// the value comes back unchanged instead.
func (r Resolver) Resolve(v any) any {
	var (
		out any
		err error
	)
	if seq, ok := v.([]any); ok {
		out, err = r.resolveSequence(seq)
	} else {
		out, err = r.resolveScalar(v)
	}
	if err != nil {
		if !errors.Is(err, errNotPath) && !errors.Is(err, errNoFile) && !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("file resolution skipped", "error", err)
		}
		return v
	}
	return out
}

// Infer converts every group value with Convert, then resolves files over
// the converted values. The groups are not modified.
func Infer(groups args.Groups, r Resolver) map[string]any {
	typed := make(map[string]any, len(groups))
	for k, v := range groups {
		typed[k] = Convert(v)
	}
	for k, v := range typed {
		typed[k] = r.Resolve(v)
	}
	return typed
}
