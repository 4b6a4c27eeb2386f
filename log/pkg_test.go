package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestPackage_Config(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Trace, ""},
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			if tt.level == "" {
				if buf.Len() != 0 {
					t.Errorf("trace written at debug level: %s", buf.String())
				}

				return
			}

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("unmarshal: %v\n%s", err, buf.String())
			}

			if entry["level"] != tt.level || entry["key"] != "value" {
				t.Errorf("entry = %v", entry)
			}
		})
	}
}

func TestPackage_With(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithPretty(false), WithFormat(FormatText))
	With(slog.String("command", "run")).Info("started")

	if !strings.Contains(buf.String(), "command=run") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestPackage_Caller(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithPretty(false), WithFormat(FormatJSON), WithCaller(true))
	Info("where")

	if !strings.Contains(buf.String(), "pkg_test.go") {
		t.Errorf("source does not point at the caller: %s", buf.String())
	}
}

func TestPackage_ConcurrentConfig(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			if i%2 == 0 {
				Config(WithOutput(nil), WithLevel(LevelError))
			} else {
				Info("concurrent")
			}
		})
	}

	wg.Wait()
}
