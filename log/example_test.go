package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/lsexpr/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout)
	logger.Info("session started", slog.Int("depth", 1))
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Trace("postfix", slog.String("tokens", "3 4 +"))
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn))

	logger.Debug("lexed line")
	logger.Info("bound name")
	logger.Warn("scope already at root", slog.Int("depth", 1))
	logger.Error("evaluation failed", slog.String("error", "division by zero"))
}

func Example_textFormat() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatText), log.WithPretty(false))
	logger.Info("text format message", slog.String("name", "x"))
}

func Example_wrap() {
	base := log.Make(os.Stdout, log.WithLevel(log.LevelDebug))
	quiet := base.Wrap(log.WithLevel(log.LevelError))

	quiet.Info("dropped")
	base.Debug("kept")
}

func Example_withContext() {
	type scriptKey struct{}

	ctx := context.WithValue(context.Background(), scriptKey{}, "init.lsx")

	logger := log.Make(os.Stdout).With(slog.String("component", "run"))

	logger.InfoContext(ctx, "executing script")
	logger.DebugContext(ctx, "line", slog.Int("number", 3))
}
