package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	logger := Make(&bytes.Buffer{})

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.cfg.caller {
		t.Error("caller enabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.fn(Make(&buf, WithLevel(tt.min)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestLogger_LevelNames(t *testing.T) {
	tests := []struct {
		fn   func(Logger, string, ...slog.Attr)
		want string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))
			tt.fn(logger, "message")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("unmarshal: %v\n%s", err, buf.String())
			}

			if entry["level"] != tt.want {
				t.Errorf("level = %v, want %s", entry["level"], tt.want)
			}
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
			Info("bound", slog.String("name", "x"))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if entry["msg"] != "bound" || entry["name"] != "x" {
			t.Errorf("entry = %v", entry)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithPretty(false)).
			Info("bound", slog.String("name", "x"))

		if out := buf.String(); !strings.Contains(out, "msg=bound") || !strings.Contains(out, "name=x") {
			t.Errorf("text output = %s", out)
		}
	})

	t.Run("pretty text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatText), WithPretty(true)).Info("bound")

		if !strings.Contains(buf.String(), "bound") {
			t.Errorf("pretty output = %s", buf.String())
		}
	})
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("message")

	if !strings.Contains(buf.String(), "source") {
		t.Errorf("caller output lacks source: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithPretty(false)).Info("message")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("source present with caller disabled: %s", buf.String())
	}
}

func TestLogger_NoTimestamp(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("none"), WithPretty(false)).Info("message")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("time field present: %s", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelDebug), WithPretty(false))
	quiet := base.Wrap(WithLevel(LevelError))

	if base.Level() != LevelDebug || quiet.Level() != LevelError {
		t.Errorf("levels = %v, %v", base.Level(), quiet.Level())
	}

	quiet.Info("dropped")

	if buf.Len() != 0 {
		t.Errorf("wrapped logger ignored level: %s", buf.String())
	}

	base.Debug("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Error("base logger lost its level after Wrap")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
		With(slog.String("component", "repl")).
		Info("message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if entry["component"] != "repl" {
		t.Errorf("component = %v, want repl", entry["component"])
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("x")
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.TraceContext(t.Context(), "x")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on zero logger produced a live logger")
	}

	if l.Level() != DefaultLevel {
		t.Errorf("zero Level() = %v", l.Level())
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf syncBuffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Go(func() { logger.Info("concurrent", slog.Int("id", i)) })
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 100 {
		t.Errorf("got %d lines, want 100", n)
	}
}

func TestPackage_ContextFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	tests := []struct {
		name string
		fn   func(msg string)
	}{
		{"TraceContext", func(msg string) { TraceContext(t.Context(), msg) }},
		{"DebugContext", func(msg string) { DebugContext(t.Context(), msg) }},
		{"InfoContext", func(msg string) { InfoContext(t.Context(), msg) }},
		{"WarnContext", func(msg string) { WarnContext(t.Context(), msg) }},
		{"ErrorContext", func(msg string) { ErrorContext(t.Context(), msg) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			Config(WithOutput(&buf), WithLevel(LevelTrace))
			tt.fn("package context test")

			if !strings.Contains(buf.String(), "package context test") {
				t.Errorf("%s wrote nothing to the default logger", tt.name)
			}
		})
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := Make(&bytes.Buffer{}, WithPretty(false))

	for b.Loop() {
		logger.Info("benchmark", slog.Int("n", 1))
	}
}

func BenchmarkLogger_TraceDisabled(b *testing.B) {
	logger := Make(&bytes.Buffer{}, WithLevel(LevelInfo))

	for b.Loop() {
		logger.Trace("postfix", slog.String("tokens", "3 4 +"))
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.String()
}
