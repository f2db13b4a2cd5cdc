package args_test

import (
	"errors"
	"testing"

	"github.com/mdstudio/mdstudio-cli/internal/cli/args"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   args.Groups
	}{
		{
			name:   "empty input",
			tokens: nil,
			want:   args.Groups{},
		},
		{
			name:   "no keywords",
			tokens: []string{"a", "b", "-5"},
			want:   args.Groups{},
		},
		{
			name:   "bare flag is true",
			tokens: []string{"--flag"},
			want:   args.Groups{"flag": true},
		},
		{
			name:   "single value",
			tokens: []string{"-name", "value"},
			want:   args.Groups{"name": "value"},
		},
		{
			name:   "multiple values keep order",
			tokens: []string{"-x", "3", "1", "2"},
			want:   args.Groups{"x": []string{"3", "1", "2"}},
		},
		{
			name:   "negative integer after keyword is a value",
			tokens: []string{"-offset", "-5"},
			want:   args.Groups{"offset": "-5"},
		},
		{
			name:   "signed integers inside a sequence",
			tokens: []string{"-range", "-5", "+5", "-y"},
			want:   args.Groups{"range": []string{"-5", "+5"}, "y": true},
		},
		{
			name:   "leading tokens without keyword are ignored",
			tokens: []string{"stray", "-a", "1"},
			want:   args.Groups{"a": "1"},
		},
		{
			name:   "mixed groups",
			tokens: []string{"-x", "1", "2", "-y", "--flag"},
			want:   args.Groups{"x": []string{"1", "2"}, "y": true, "flag": true},
		},
		{
			name:   "prefix stripped from both ends",
			tokens: []string{"--name-", "v"},
			want:   args.Groups{"name": "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := args.Split(tt.tokens, args.DefaultPrefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_DuplicateKeyword(t *testing.T) {
	got, err := args.Split([]string{"-a", "1", "--a", "2"}, args.DefaultPrefix)
	assert.Nil(t, got)

	var dup *args.DuplicateKeywordError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Keyword)
	assert.Contains(t, err.Error(), "a")
}

func TestSplit_MalformedKeyword(t *testing.T) {
	_, err := args.Split([]string{"-a", "1", "--"}, args.DefaultPrefix)

	var malformed *args.MalformedKeywordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "--", malformed.Token)
}

func TestSplit_CustomPrefix(t *testing.T) {
	got, err := args.Split([]string{"+a", "-1", "+b", "x", "y"}, "+")
	require.NoError(t, err)
	assert.Equal(t, args.Groups{"a": "-1", "b": []string{"x", "y"}}, got)
}

func TestSplit_EmptyPrefix(t *testing.T) {
	_, err := args.Split([]string{"-a"}, "")
	assert.ErrorIs(t, err, args.ErrEmptyPrefix)
}

func TestSplit_DoesNotAliasInput(t *testing.T) {
	tokens := []string{"-x", "1", "2"}
	got, err := args.Split(tokens, args.DefaultPrefix)
	require.NoError(t, err)

	tokens[1] = "changed"
	assert.Equal(t, []string{"1", "2"}, got["x"])
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, args.IsKeyword("-x", "-"))
	assert.True(t, args.IsKeyword("--flag", "-"))
	assert.True(t, args.IsKeyword("-1.5", "-"))
	assert.False(t, args.IsKeyword("-5", "-"))
	assert.False(t, args.IsKeyword("+5", "+"))
	assert.False(t, args.IsKeyword("value", "-"))
}
