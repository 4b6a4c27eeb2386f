package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/log"
)

// Eval evaluates each argument as one line of source in a single session.
type Eval struct {
	Expr []string `arg:"" help:"Statements to evaluate, one per argument. Bindings carry over." name:"expr"`

	Quiet bool `help:"Evaluate without printing results." short:"q"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)
	in := lang.New(lang.WithLogger(log.Default()))

	for i, src := range e.Expr {
		res, err := in.Exec(ctx, src)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "eval"),
				slog.Int("arg", i+1),
			)
		}

		if res.Value == nil || e.Quiet {
			continue
		}

		v, err := in.Resolve(res.Value)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "eval"),
				slog.Int("arg", i+1),
			)
		}

		if err := out.Write(ctx, v); err != nil {
			return err
		}
	}

	return nil
}
