// Package args splits free-form command line tokens into keyword groups.
package args

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultPrefix marks keyword tokens unless configured otherwise.
const DefaultPrefix = "-"

// ErrEmptyPrefix is returned when Split is called without a prefix.
var ErrEmptyPrefix = errors.New("keyword prefix must not be empty")

// signedInteger matches tokens such as -5 or +12 that share the prefix
// character but are values, not keywords.
var signedInteger = regexp.MustCompile(`^[-+]?[0-9]+$`)

// Groups maps a keyword name to its raw value: true for a bare flag, a string
// for a single value and a []string for two or more values.
type Groups map[string]any

// DuplicateKeywordError is returned when a keyword is declared twice.
type DuplicateKeywordError struct {
	Keyword string
}

func (e *DuplicateKeywordError) Error() string {
	return fmt.Sprintf("keyword declared twice: %s", e.Keyword)
}

// MalformedKeywordError is returned for a marker that has no name left once
// the prefix is stripped, such as "-" or "--".
type MalformedKeywordError struct {
	Token string
}

func (e *MalformedKeywordError) Error() string {
	return fmt.Sprintf("malformed keyword %q: missing name", e.Token)
}

// IsKeyword reports whether token starts a new keyword group.
func IsKeyword(token, prefix string) bool {
	return strings.HasPrefix(token, prefix) && !signedInteger.MatchString(token)
}

// Split partitions tokens into keyword groups. Every token starting with
// prefix, other than signed integers, opens a group that runs until the next
// keyword. Tokens before the first keyword are ignored.
func Split(tokens []string, prefix string) (Groups, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	// Keyword positions
	var positions []int
	for i, tok := range tokens {
		if IsKeyword(tok, prefix) {
			positions = append(positions, i)
		}
	}

	groups := make(Groups, len(positions))
	for i, start := range positions {
		end := len(tokens)
		if i+1 < len(positions) {
			end = positions[i+1]
		}

		marker := tokens[start]
		name := strings.Trim(marker, prefix)
		if name == "" {
			return nil, &MalformedKeywordError{Token: marker}
		}
		if _, ok := groups[name]; ok {
			return nil, &DuplicateKeywordError{Keyword: name}
		}

		values := tokens[start+1 : end]
		switch len(values) {
		case 0:
			groups[name] = true
		case 1:
			groups[name] = values[0]
		default:
			seq := make([]string, len(values))
			copy(seq, values)
			groups[name] = seq
		}
	}

	return groups, nil
}
