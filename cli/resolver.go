package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/log"
)

// resolve returns a [kong.ConfigurationLoader] that evaluates a
// configuration file written in the expression language:
//
//	var log_level is "debug"
//	var jobs is 2 * 2
//	var path is ["/opt/scripts", "lib"]
//
// Every name bound in the root frame supplies the default of the flag with
// the same name, where underscores stand for hyphens. Lines that fail to
// evaluate are logged and skipped. Command-line flags override these values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		in := lang.New(lang.WithLogger(log.Default()), lang.WithCacheSize(0))

		err := in.Run(ctx, r, func(_ lang.Result, err error) error {
			if err != nil {
				log.WarnContext(ctx, "configuration line skipped", slog.Any("error", err))
			}

			return nil
		})
		if err != nil {
			log.WarnContext(ctx, "configuration unreadable", slog.Any("error", err))

			return config{}, nil
		}

		return rootConfig(in), nil
	}
}

// config implements [kong.Resolver] for evaluated configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}

// rootConfig converts the root frame bindings of in to flag values.
func rootConfig(in *lang.Interpreter) config {
	c := config{}

	for depth, bindings := range in.Scope().Frames() {
		if depth != 0 {
			continue
		}

		for _, b := range bindings {
			v, err := in.Resolve(b.Value)
			if err != nil {
				continue
			}

			if native, ok := flagValue(v); ok {
				c[b.Name] = native
			}
		}
	}

	return c
}

// flagValue returns v in a form kong can decode into a flag. Numbers are
// kept as their source text so kong parses them with the flag's own type.
func flagValue(v *lang.Value) (any, bool) {
	switch v.Type {
	case lang.TypeNumber, lang.TypeString:
		return v.Text, true

	case lang.TypeBoolean:
		return v.ToNative(), true

	case lang.TypeArray:
		elems := make([]any, 0, len(v.Elems))

		for _, e := range v.Elems {
			native, ok := flagValue(e)
			if !ok {
				return nil, false
			}

			elems = append(elems, native)
		}

		return elems, true
	}

	return nil, false
}
