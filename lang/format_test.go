package lang

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardnew/lsexpr/lang/token"
)

func sampleValue() *Value {
	return NewObject(
		&Entry{Key: NewString("name"), Value: NewString("demo")},
		&Entry{Key: NewString("count"), Value: NewNumber("3")},
		&Entry{Key: NewString("ratio"), Value: NewNumber("0.5")},
		&Entry{Key: NewString("tags"), Value: NewArray(NewBoolean(true), NewNull())},
	)
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value *Value
		want  string
	}{
		{"number", NewNumber("-4.5"), "-4.5"},
		{"string", NewString("a b"), `"a b"`},
		{"null", NewNull(), "null"},
		{"empty array", NewArray(), "[]"},
		{"pointer", NewArray(NewPointer("x")), "[x]"},
		{"object", sampleValue(), `{"name": "demo", "count": 3, "ratio": 0.5, "tags": [true, null]}`},
		{"empty function", NewFunction(nil, nil), "function() {}"},
		{
			"function",
			NewFunction([]string{"a", "b"}, []token.Token{token.Lit("a"), token.Make(token.Mult), token.Lit("b")}),
			"function(a, b) { a * b }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue_FormatJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := sampleValue().FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	want := `{"name":"demo","count":3,"ratio":0.5,"tags":[true,null]}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatJSON = %s, want %s", got, want)
	}

	buf.Reset()

	if err := NewArray(NewNumber("1")).FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "[\n  1\n]\n" {
		t.Errorf("indented FormatJSON = %q", got)
	}
}

func TestValue_FormatYAML(t *testing.T) {
	var buf bytes.Buffer

	if err := sampleValue().FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, want := range []string{"name: demo", "count: 3", "ratio: 0.5", "tags:"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatYAML output lacks %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "name:") > strings.Index(out, "tags:") {
		t.Errorf("FormatYAML reordered keys:\n%s", out)
	}
}

func TestValue_Format(t *testing.T) {
	var buf bytes.Buffer

	if err := NewString("x").Format(t.Context(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "\"x\"\n" {
		t.Errorf("Format = %q", got)
	}
}

func TestValue_ToNative(t *testing.T) {
	tests := []struct {
		value *Value
		want  any
	}{
		{NewNumber("7"), int64(7)},
		{NewNumber("7.25"), 7.25},
		{NewNumber("word"), "word"},
		{NewBoolean(false), false},
		{NewNull(), nil},
		{NewString("s"), "s"},
	}

	for _, tt := range tests {
		t.Run(tt.value.String(), func(t *testing.T) {
			if got := tt.value.ToNative(); got != tt.want {
				t.Errorf("ToNative() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFormatTokens(t *testing.T) {
	var buf bytes.Buffer

	if err := FormatTokens(&buf, mustLex(t, "x >= \"a\"\n")); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("FormatTokens wrote %d lines:\n%s", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[0], "1:1") || !strings.HasSuffix(lines[0], " x") {
		t.Errorf("first line = %q", lines[0])
	}

	if !strings.HasSuffix(lines[5], `\n`) {
		t.Errorf("newline token line = %q", lines[5])
	}
}
