package cmd

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/lsexpr/cli/cmd/repl"
	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/log"
)

// Repl starts an interactive session.
//
// When stdin is not a terminal, lines are read from stdin and evaluated in
// one session, reporting errors and continuing.
type Repl struct {
	Line bool `help:"Use a line editor instead of the full-screen interface." short:"l"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)
	in := lang.New(lang.WithLogger(log.Default()))

	if !isTerminal(os.Stdin) {
		return pipe(ctx, in, os.Stdin, out)
	}

	cfg := repl.Config{
		CacheDir: cacheDirFrom(ctx),
		Logger:   log.Default(),
		Format: func(ctx context.Context, v *lang.Value) (string, error) {
			var buf bytes.Buffer

			err := out.WithWriter(&buf).Write(ctx, v)

			return buf.String(), err
		},
	}

	if r.Line {
		return repl.RunLine(ctx, in, cfg, out.W)
	}

	return repl.Run(ctx, in, cfg)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// pipe evaluates every line of r in one session. Errors are written to
// out as diagnostics and do not stop evaluation.
func pipe(ctx context.Context, in *lang.Interpreter, r io.Reader, out Output) error {
	return in.Run(ctx, r, func(res lang.Result, err error) error {
		if err == nil && res.Value != nil {
			var v *lang.Value

			if v, err = in.Resolve(res.Value); err == nil {
				err = out.Write(ctx, v)
			}
		}

		if err != nil {
			return writeDiagnostic(out.W, stdinSource, res.Line, err)
		}

		return nil
	})
}

// cacheDirFrom returns the cache directory variable of the kong context in
// ctx, or the empty string.
func cacheDirFrom(ctx context.Context) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[CacheIdentifier]
}
