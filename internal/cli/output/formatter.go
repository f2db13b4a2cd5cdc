package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/mdstudio/mdstudio-cli/internal/cli/client"
	"github.com/mdstudio/mdstudio-cli/internal/cli/errors"
	"github.com/mdstudio/mdstudio-cli/internal/cli/infer"
	"github.com/mdstudio/mdstudio-cli/internal/domain/call"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw"
	FormatYAML OutputFormat = "yaml"
)

// previewWidth caps the value column of the payload table.
const previewWidth = 60

type Formatter struct {
	format OutputFormat
	color  bool
}

func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
	}
}

// FormatResult renders the value returned by a remote method.
func (f *Formatter) FormatResult(result *client.Result) (string, error) {
	var v interface{}
	if err := result.Decode(&v); err != nil {
		return "", fmt.Errorf("decode result: %w", err)
	}

	switch f.format {
	case FormatJSON:
		return indentJSON(result)
	case FormatRaw:
		var buf bytes.Buffer
		if len(result.Value) == 0 {
			return "null", nil
		}
		if err := json.Compact(&buf, result.Value); err != nil {
			return "", err
		}
		return buf.String(), nil
	case FormatYAML:
		return toYAML(v)
	}

	// Default text format: strings as is, everything else as JSON
	if s, ok := v.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON || f.format == FormatRaw {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

// WritePayload renders a payload preview to w: a keyword table in text
// mode, the payload document otherwise.
func (f *Formatter) WritePayload(w io.Writer, p call.Payload) error {
	switch f.format {
	case FormatJSON, FormatRaw:
		enc := json.NewEncoder(w)
		if f.format == FormatJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(p)
	case FormatYAML:
		s, err := toYAML(map[string]any(p))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}

	if f.color {
		fmt.Fprintln(w, color.CyanString("Method: %s", p.URI()))
	} else {
		fmt.Fprintf(w, "Method: %s\n", p.URI())
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Keyword", "Type", "Value"}),
	)
	kwargs := p.Kwargs()
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := kwargs[k]
		table.Append([]string{k, TypeName(v), preview(v)})
	}
	return table.Render()
}

// TypeName names the inferred type of a payload value.
func TypeName(v any) string {
	switch x := v.(type) {
	case bool:
		return infer.KindBool.String()
	case int64:
		return infer.KindInt.String()
	case float64:
		return infer.KindFloat.String()
	case string:
		return infer.KindString.String()
	case map[string]any:
		return infer.KindStructured.String()
	case []any:
		return fmt.Sprintf("list[%d]", len(x))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func preview(v any) string {
	var s string
	if str, ok := v.(string); ok {
		s = str
	} else {
		data, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprint(v)
		} else {
			s = string(data)
		}
	}
	s = oneLine(s)
	if r := []rune(s); len(r) > previewWidth {
		s = string(r[:previewWidth-3]) + "..."
	}
	return s
}

func oneLine(s string) string {
	return string(bytes.Join(bytes.Fields([]byte(s)), []byte(" ")))
}

func indentJSON(result *client.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
