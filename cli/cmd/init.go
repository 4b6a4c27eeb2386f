package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lsexpr/log"
	"github.com/ardnew/lsexpr/profile"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the configuration file named by the config variable. An
// existing file is replaced only with --force.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	mode := os.O_EXCL
	if i.Force {
		mode = os.O_TRUNC
	}

	file := slog.String("file", path)

	f, err := os.OpenFile(path, mode|os.O_CREATE|os.O_WRONLY, 0o644)

	switch {
	case errors.Is(err, fs.ErrExist):
		return ErrWriteConfig.With(file, slog.Bool("exists", true)).Wrap(ErrFileExists)
	case err != nil:
		return ErrWriteConfig.With(file).Wrap(err)
	}

	if err := errors.Join(writeConfig(f, ktx), f.Close()); err != nil {
		return ErrWriteConfig.With(file).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", path))

	return nil
}

// ignoredFlags are flag name prefixes never written to the configuration.
var ignoredFlags = []string{"help", "version", profile.Tag}

// writeConfig writes one assignment per configurable flag of ktx:
//
//	var log_level is "info"
func writeConfig(w io.Writer, ktx *kong.Context) error {
	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		expr, ok := flagExpr(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		if _, err := fmt.Fprintf(w, "var %s is %s\n", name, expr); err != nil {
			return err
		}
	}

	return nil
}

// flagExpr returns the source expression for a flag value, or false if the
// value is unset or cannot be written as a literal.
//
// The language has no escape sequences, so strings containing a double
// quote are skipped.
func flagExpr(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false

	case bool:
		return strconv.FormatBool(v), true

	case string:
		if v == "" || strings.Contains(v, `"`) {
			return "", false
		}

		return `"` + v + `"`, true

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), true

	case float32, float64:
		return fmt.Sprint(v), true

	case []string:
		return arrayExpr(v)

	case []int:
		return arrayExpr(v)

	case []bool:
		return arrayExpr(v)
	}

	return flagExpr(fmt.Sprint(val))
}

func arrayExpr[T any](v []T) (string, bool) {
	if len(v) == 0 {
		return "", false
	}

	elems := make([]string, 0, len(v))

	for _, e := range v {
		expr, ok := flagExpr(e)
		if !ok {
			return "", false
		}

		elems = append(elems, expr)
	}

	return "[" + strings.Join(elems, ", ") + "]", true
}
