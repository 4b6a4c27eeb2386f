// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The zero [Logger] discards everything, so types can embed one without
// requiring callers to configure logging.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session started", slog.Int("depth", 1))
//
// # Configuration
//
// Options are applied at creation time. [Logger.Wrap] derives a new logger
// from an existing one:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	quiet := logger.Wrap(log.WithLevel(log.LevelWarn))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's Debug and is used
// for per-stage evaluation output. [ParseLevel] accepts the lowercase
// names and slog's offset syntax.
//
// # Context
//
// Every level has a context-aware variant. The context-unaware variants use
// [DefaultContextProvider], which returns [context.TODO].
//
// # Output
//
// [FormatJSON] is the default; [FormatText] writes key=value pairs. Both
// have a pretty, colorized form enabled with [WithPretty].
//
// # Package Logger
//
// The package-level functions ([Info], [Trace], ...) write through a shared
// logger on standard error, configured with [Config] and returned by
// [Default].
package log
