package commands

import (
	"strings"

	"github.com/spf13/pflag"
)

// splitKnown separates the flags defined on fs from free-form keyword
// tokens. Known flags may appear anywhere; a non-boolean flag without an
// inline value takes the next token as its value. A bare "--" ends flag
// extraction and is dropped.
func splitKnown(fs *pflag.FlagSet, argv []string) (known, rest []string) {
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == "--" {
			rest = append(rest, argv[i+1:]...)
			break
		}

		f, inline := lookup(fs, tok)
		if f == nil {
			rest = append(rest, tok)
			continue
		}

		known = append(known, tok)
		if !inline && f.NoOptDefVal == "" && i+1 < len(argv) {
			known = append(known, argv[i+1])
			i++
		}
	}
	return known, rest
}

// lookup finds the flag named by tok. Shorthands are only matched in their
// exact "-x" form so keywords like "-ux" are never taken for "-u x".
func lookup(fs *pflag.FlagSet, tok string) (f *pflag.Flag, inline bool) {
	switch {
	case strings.HasPrefix(tok, "--") && len(tok) > 2:
		name := tok[2:]
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			name, inline = name[:idx], true
		}
		return fs.Lookup(name), inline
	case len(tok) == 2 && tok[0] == '-' && tok[1] != '-':
		return fs.ShorthandLookup(tok[1:]), false
	}
	return nil, false
}
