// Package logger configures the process-wide slog logger for the CLI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control where and how much the CLI logs.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// File, when set, receives JSON lines through a rotating writer instead
	// of text on Writer.
	File string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

var (
	// Redaction of bearer tokens and key=value secrets in messages
	bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`)
	kvRegex     = regexp.MustCompile(`(?i)((?:token|secret|password)=)[^\s&]+`)

	sensitiveKeys = map[string]bool{
		"token":         true,
		"access_token":  true,
		"client_secret": true,
		"password":      true,
		"authorization": true,
	}
)

// Redact masks secrets in s.
func Redact(s string) string {
	s = bearerRegex.ReplaceAllString(s, "${1}REDACTED")
	return kvRegex.ReplaceAllString(s, "${1}REDACTED")
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "REDACTED")
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Redact(a.Value.String()))
	}
	return a
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// New builds a logger from opts. The returned close function releases the
// log file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	hopts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}

	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(lj, hopts)), lj.Close, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, hopts)), func() error { return nil }, nil
}

// Init builds a logger from opts and installs it as the slog default.
func Init(opts Options) (func() error, error) {
	l, closeFn, err := New(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return closeFn, nil
}
