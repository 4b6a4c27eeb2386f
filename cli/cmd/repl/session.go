package repl

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/log"
)

// Config configures a REPL session.
type Config struct {
	// CacheDir holds the history file. Empty disables persistent history.
	CacheDir string
	Logger   log.Logger
	// Format renders an evaluated value. Nil renders native syntax.
	Format func(context.Context, *lang.Value) (string, error)
}

func (c Config) historyPath() string {
	if c.CacheDir == "" {
		return ""
	}

	return filepath.Join(c.CacheDir, baseHistory)
}

// evaluate executes src in in and renders the result. Statements without a
// value, such as blank lines, render as the empty string.
func (c Config) evaluate(ctx context.Context, in *lang.Interpreter, src string) (string, error) {
	res, err := in.Exec(ctx, src)
	if err != nil {
		return "", err
	}

	if res.Value == nil {
		return "", nil
	}

	v, err := in.Resolve(res.Value)
	if err != nil {
		return "", err
	}

	if c.Format == nil {
		return v.String(), nil
	}

	out, err := c.Format(ctx, v)

	return strings.TrimRight(out, "\n"), err
}
