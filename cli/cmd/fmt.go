package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/lsexpr/lang"
)

// Output formats.
const (
	FormatNative = "native"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Formats lists the accepted values of the --output flag.
var Formats = []string{FormatNative, FormatJSON, FormatYAML}

// Output writes evaluated values in one of [Formats].
type Output struct {
	W      io.Writer
	Format string
	Indent int
}

// Write writes v to o.W. Array pointers in v should already be resolved.
func (o Output) Write(ctx context.Context, v *lang.Value) error {
	var err error

	switch o.Format {
	case FormatJSON:
		if err = v.FormatJSON(ctx, o.W, o.Indent); err != nil {
			return ErrJSONMarshal.With(slog.String("type", v.Type.String())).Wrap(err)
		}

	case FormatYAML:
		if err = v.FormatYAML(ctx, o.W, o.Indent); err != nil {
			return ErrYAMLMarshal.With(slog.String("type", v.Type.String())).Wrap(err)
		}

	default:
		if err = v.Format(ctx, o.W, o.Indent); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// WithWriter returns a copy of o writing to w.
func (o Output) WithWriter(w io.Writer) Output {
	o.W = w

	return o
}
