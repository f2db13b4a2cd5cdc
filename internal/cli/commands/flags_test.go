package commands

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func testFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("uri", "u", "", "")
	fs.Bool("json", false, "")
	fs.Int("timeout", 0, "")
	return fs
}

func TestSplitKnown(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		known []string
		rest  []string
	}{
		{
			name:  "long flag with value",
			argv:  []string{"--uri", "a.b", "-x", "1"},
			known: []string{"--uri", "a.b"},
			rest:  []string{"-x", "1"},
		},
		{
			name:  "shorthand and inline value",
			argv:  []string{"-x", "-u", "a.b", "--timeout=5"},
			known: []string{"-u", "a.b", "--timeout=5"},
			rest:  []string{"-x"},
		},
		{
			name:  "bool flag takes no value",
			argv:  []string{"--json", "-y", "2"},
			known: []string{"--json"},
			rest:  []string{"-y", "2"},
		},
		{
			name:  "attached shorthand is a keyword",
			argv:  []string{"-ux", "1"},
			known: nil,
			rest:  []string{"-ux", "1"},
		},
		{
			name:  "double dash stops extraction",
			argv:  []string{"-u", "a.b", "--", "--json", "-u"},
			known: []string{"-u", "a.b"},
			rest:  []string{"--json", "-u"},
		},
		{
			name:  "negative number is not a shorthand",
			argv:  []string{"-n", "-5"},
			known: nil,
			rest:  []string{"-n", "-5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			known, rest := splitKnown(testFlagSet(), tt.argv)
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
