// Package infer turns raw keyword values into typed values and resolves
// values that name local files.
package infer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the type a token was detected as.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStructured:
		return "structured"
	default:
		return "string"
	}
}

// Detector recognises one format and converts a token into it.
type Detector struct {
	Kind    Kind
	Convert func(token string) (any, bool)
}

var (
	intPattern   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[-+]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][-+]?[0-9]+)?$`)
)

// Detectors are tried in order; the first match wins.
var Detectors = []Detector{
	{Kind: KindBool, Convert: detectBool},
	{Kind: KindInt, Convert: detectInt},
	{Kind: KindFloat, Convert: detectFloat},
	{Kind: KindStructured, Convert: detectStructured},
}

func detectBool(token string) (any, bool) {
	switch {
	case strings.EqualFold(token, "true"):
		return true, true
	case strings.EqualFold(token, "false"):
		return false, true
	}
	return nil, false
}

func detectInt(token string) (any, bool) {
	if !intPattern.MatchString(token) {
		return nil, false
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

// NaN and Inf are accepted by strconv but cannot travel as JSON, so only
// decimal and exponent notation count as floats.
func detectFloat(token string) (any, bool) {
	if !floatPattern.MatchString(token) {
		return nil, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func detectStructured(token string) (any, bool) {
	s := strings.TrimSpace(token)
	if len(s) < 2 {
		return nil, false
	}
	if !(s[0] == '{' && s[len(s)-1] == '}') && !(s[0] == '[' && s[len(s)-1] == ']') {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// DetectKind runs the detectors over token and reports the converted value
// and its kind. Unrecognised tokens come back unchanged as KindString.
func DetectKind(token string) (any, Kind) {
	for _, d := range Detectors {
		if v, ok := d.Convert(token); ok {
			return v, d.Kind
		}
	}
	return token, KindString
}

// Detect is DetectKind without the kind.
func Detect(token string) any {
	v, _ := DetectKind(token)
	return v
}

// Convert applies Detect to a raw keyword value: once for a string,
// element-wise for a sequence. Anything else is returned as is.
func Convert(raw any) any {
	switch v := raw.(type) {
	case string:
		return Detect(v)
	case []string:
		out := make([]any, len(v))
		for i, tok := range v {
			out[i] = Detect(tok)
		}
		return out
	default:
		return raw
	}
}
