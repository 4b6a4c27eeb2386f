package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelWarn), func(c config) bool { return c.level == LevelWarn }},
		{"format", WithFormat(FormatText), func(c config) bool { return c.format == FormatText }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output", WithOutput(&buf), func(c config) bool { return c.output == &buf }},
		{"nil output", WithOutput(nil), func(c config) bool { return c.output != nil }},
		{"nil option", nil, func(c config) bool { return c.level == DefaultLevel }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := defaultConfig(nil)
			got := base.with(tt.opt)

			if !tt.check(got) {
				t.Errorf("option not applied: %+v", got)
			}

			if base.level != DefaultLevel || base.format != DefaultFormat || !base.pretty {
				t.Errorf("option mutated its base: %+v", base)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := defaultConfig(nil).with(WithLevel(LevelError), WithDefaults(nil))

	if c.level != DefaultLevel || c.format != DefaultFormat ||
		c.caller != DefaultCaller || c.pretty != DefaultPretty {
		t.Errorf("WithDefaults = %+v", c)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"Kitchen", "2:30PM"},
		{"ms", "Oct 15 14:30:45.123"},
		{"2006/01/02", "2023/10/15"},
		{"  15:04  ", "  14:30  "},
		{"", ""},
		{" \t ", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(now); got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestConfig_ReplaceAttr(t *testing.T) {
	c := defaultConfig(nil).with(WithTimeLayout("none"))

	if a := c.replaceAttr(nil, slog.Time(slog.TimeKey, time.Now())); !a.Equal(slog.Attr{}) {
		t.Errorf("time attr kept with layout none: %v", a)
	}

	if a := c.replaceAttr(nil, slog.Any(slog.LevelKey, slog.Level(LevelTrace))); a.Value.String() != "TRACE" {
		t.Errorf("level label = %q, want TRACE", a.Value.String())
	}

	grouped := slog.String(slog.LevelKey, "nested")
	if a := c.replaceAttr([]string{"g"}, grouped); !a.Equal(grouped) {
		t.Errorf("grouped attr rewritten: %v", a)
	}
}

func TestPrettyHandler(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{"text", FormatText, []string{"msg", "bound", "script", "a.lsx", "eval.depth", "2"}},
		{"json", FormatJSON, []string{"{\n", "script", "a.lsx", "eval.depth", "\n}\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			Make(&buf, WithFormat(tt.format), WithTimeLayout("none")).
				With(slog.String("script", "a.lsx")).
				Info("bound", slog.Group("eval", slog.Int("depth", 2)))

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output lacks %q:\n%s", want, out)
				}
			}

			if strings.Contains(out, slog.TimeKey) {
				t.Errorf("time present with layout none:\n%s", out)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for s, want := range map[string]Format{
		"json":   FormatJSON,
		" Text ": FormatText,
		"yaml":   DefaultFormat,
	} {
		if got := ParseFormat(s); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}

	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}

	if s := Level(3).String(); s != "Level(3)" {
		t.Errorf("Level(3).String() = %q", s)
	}
}

func BenchmarkFormatTime(b *testing.B) {
	format := makeFormatTimeFunc("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
