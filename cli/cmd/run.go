package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/log"
)

// Run evaluates script files line by line.
//
// Each script runs in its own session. Scripts may run concurrently, but
// their output is always written in argument order.
type Run struct {
	Scripts []string `arg:"" help:"Script files, searched for in --path and ${pathVar}, or '-' for stdin." name:"script"`

	Jobs      int  `default:"1" help:"Maximum number of scripts evaluated concurrently."         short:"j"`
	KeepGoing bool `            help:"Report failing lines and continue with the next one."     short:"k"`
	Quiet     bool `            help:"Evaluate without printing results."                       short:"q"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scripts, err := openScripts(r.Scripts, searchPathFrom(ctx))
	if err != nil {
		return err
	}

	defer func() {
		for _, s := range scripts {
			_ = s.Close()
		}
	}()

	out := outputFrom(ctx)
	bufs := make([]bytes.Buffer, len(scripts))
	errs := make([]error, len(scripts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Jobs, 1))

	for i, s := range scripts {
		g.Go(func() error {
			errs[i] = r.exec(gctx, s, out.WithWriter(&bufs[i]))
			if errs[i] != nil && !r.KeepGoing {
				return errs[i]
			}

			return nil
		})
	}

	gerr := g.Wait()

	for i := range scripts {
		if _, err := bufs[i].WriteTo(out.W); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	}

	if gerr != nil {
		return gerr
	}

	for i, err := range errs {
		if err != nil {
			log.WarnContext(ctx, "script failed",
				scriptAttr(scripts[i].name),
				slog.Any("error", err),
			)
		}
	}

	if failed := countErrors(errs); failed > 0 {
		return ErrScriptFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(scripts)),
		)
	}

	return nil
}

// exec evaluates one script. With KeepGoing, failing lines are written to
// out as diagnostics and the returned error reports how many lines failed.
func (r *Run) exec(ctx context.Context, s script, out Output) error {
	in := lang.New(lang.WithLogger(log.Default().With(scriptAttr(s.name))))
	failed := 0

	err := in.Run(ctx, s, func(res lang.Result, err error) error {
		if err == nil {
			err = r.emit(ctx, in, res, out)
		}

		if err == nil {
			return nil
		}

		if !r.KeepGoing || errors.Is(err, context.Canceled) {
			return err
		}

		failed++

		return writeDiagnostic(out.W, s.name, res.Line, err)
	})
	if err != nil {
		return lang.WrapError(err).With(scriptAttr(s.name))
	}

	if failed > 0 {
		return ErrScriptFailed.With(scriptAttr(s.name), slog.Int("lines", failed))
	}

	return nil
}

func (r *Run) emit(ctx context.Context, in *lang.Interpreter, res lang.Result, out Output) error {
	if res.Value == nil || r.Quiet {
		return nil
	}

	v, err := in.Resolve(res.Value)
	if err != nil {
		return err
	}

	return out.Write(ctx, v)
}

// writeDiagnostic reports err at line of the named source. The prefix
// carries the source line, so the per-statement line attributes are dropped.
func writeDiagnostic(w io.Writer, name string, line int, err error) error {
	msg := lang.Describe(err, "line", "source_line")
	if _, werr := fmt.Fprintf(w, "%s:%d: %s\n", name, line, msg); werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	return nil
}

func countErrors(errs []error) (n int) {
	for _, err := range errs {
		if err != nil {
			n++
		}
	}

	return n
}
