package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/lsexpr/lang/token"
)

// String returns v in native source syntax. Strings are quoted and
// objects keep insertion order.
func (v *Value) String() string {
	var sb strings.Builder

	writeValue(&sb, v)

	return sb.String()
}

// Format writes v in native source syntax followed by a newline.
func (v *Value) Format(_ context.Context, w io.Writer, _ int) error {
	_, err := fmt.Fprintln(w, v.String())

	return err
}

// FormatJSON writes v as JSON to the writer.
func (v *Value) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v.ToNative(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v.ToNative())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes v as YAML to the writer.
func (v *Value) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v.ToNative(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

func writeValue(sb *strings.Builder, v *Value) {
	switch v.Type {
	case TypeString:
		sb.WriteString(`"` + v.Text + `"`)

	case TypeArray:
		sb.WriteByte('[')

		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, e)
		}

		sb.WriteByte(']')

	case TypeObject:
		sb.WriteByte('{')

		for i, e := range v.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, e.Key)
			sb.WriteString(": ")
			writeValue(sb, e.Value)
		}

		sb.WriteByte('}')

	case TypeFunction:
		sb.WriteString("function(")
		sb.WriteString(strings.Join(v.Params, ", "))
		sb.WriteString(") {")

		if len(v.Body) > 0 {
			sb.WriteString(" " + token.Join(v.Body) + " ")
		}

		sb.WriteByte('}')

	default:
		sb.WriteString(v.Text)
	}
}

// FormatTokens writes one token per line as "line:column kind text".
func FormatTokens(w io.Writer, tokens []token.Token) error {
	for _, tok := range tokens {
		text := tok.String()
		if tok.Kind == token.NewLine {
			text = `\n`
		}

		if _, err := fmt.Fprintf(w, "%-6s %-12s %s\n", tok.Pos, tok.Kind, text); err != nil {
			return err
		}
	}

	return nil
}
