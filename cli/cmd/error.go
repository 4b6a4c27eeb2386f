package cmd

import (
	"log/slog"

	"github.com/ardnew/lsexpr/lang"
)

// Error is a command failure. Commands share the structured error of the
// interpreter, so a failed script and a failed statement log alike.
type Error = lang.Error

// NewError returns a sentinel command error.
func NewError(msg string) *Error { return lang.NewError(msg) }

func scriptAttr(name string) slog.Attr { return slog.String("script", name) }

var (
	ErrJSONMarshal    = NewError("marshal JSON")
	ErrYAMLMarshal    = NewError("marshal YAML")
	ErrWriteOutput    = NewError("write output")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
	ErrScriptNotFound = NewError("script not found")
	ErrOpenScript     = NewError("open script")
	ErrScriptFailed   = NewError("script failed")
)
