package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ardnew/lsexpr/lang"
)

func outputContext(t *testing.T, format string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	return WithOutput(t.Context(), Output{W: &buf, Format: format}), &buf
}

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name    string
		exprs   []string
		format  string
		want    string
		wantErr error
	}{
		{
			name:  "arithmetic",
			exprs: []string{"(3 - 5) * 12"},
			want:  "-24\n",
		},
		{
			name:  "bindings carry over",
			exprs: []string{"var x is 4", "x mod 3"},
			want:  "4\n1\n",
		},
		{
			name:  "array pointer resolved",
			exprs: []string{"var x is 1", "var xs is [x, 2]"},
			want:  "1\n[1, 2]\n",
		},
		{
			name:   "json",
			exprs:  []string{`{name: "demo", n: 1 + 1}`},
			format: FormatJSON,
			want:   `{"name":"demo","n":2}` + "\n",
		},
		{
			name:   "yaml",
			exprs:  []string{`"hello"`},
			format: FormatYAML,
			want:   "hello\n",
		},
		{
			name:  "empty argument",
			exprs: []string{"", "1"},
			want:  "1\n",
		},
		{
			name:    "type mismatch",
			exprs:   []string{`1 + "a"`},
			wantErr: lang.ErrTypeMismatch,
		},
		{
			name:    "stops at first error",
			exprs:   []string{"1", "var", "2"},
			want:    "1\n",
			wantErr: lang.ErrSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, buf := outputContext(t, tt.format)

			err := (&Eval{Expr: tt.exprs}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalRun_Quiet(t *testing.T) {
	ctx, buf := outputContext(t, "")

	if err := (&Eval{Expr: []string{"1 + 1"}, Quiet: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if buf.Len() != 0 {
		t.Errorf("quiet eval wrote %q", buf.String())
	}
}

func TestEvalRun_ErrorAttrs(t *testing.T) {
	ctx, _ := outputContext(t, "")

	err := (&Eval{Expr: []string{"1", "1 / 0"}}).Run(ctx)

	var le *lang.Error
	if !errors.As(err, &le) {
		t.Fatalf("error %T is not a *lang.Error", err)
	}

	attrs := map[string]string{}
	for _, a := range le.Attrs() {
		attrs[a.Key] = a.Value.String()
	}

	if attrs["command"] != "eval" || attrs["arg"] != "2" {
		t.Errorf("attrs = %v", attrs)
	}
}
