package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal, either as
// unquoted key=value pairs on one line or as an indented JSON-like block.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	json   bool
	prefix string      // dotted group path for attrs added later
	attrs  []slog.Attr // attrs from WithAttrs, keys already qualified
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, json: json}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		out = append(out, a)
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify([]slog.Attr{a})...)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeBlock(&buf, fields)
	} else {
		h.writeLine(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	for _, a := range flatten(fields) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(ansiGray + a.Key + ansiReset + "=")
		writeValue(buf, a)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeBlock(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range flatten(fields) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  " + ansiGray + a.Key + ansiReset + ": ")
		writeValue(buf, a)
	}

	buf.WriteString("\n}\n")
}

// flatten expands group values into dotted keys and drops empty attrs.
func flatten(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		switch {
		case a.Equal(slog.Attr{}):
			continue

		case a.Value.Kind() == slog.KindGroup:
			group := flatten(a.Value.Group())
			for _, g := range group {
				if a.Key != "" {
					g.Key = a.Key + "." + g.Key
				}

				out = append(out, g)
			}

		default:
			out = append(out, a)
		}
	}

	return out
}

func writeValue(buf *bytes.Buffer, a slog.Attr) {
	v := a.Value
	color, text := ansiCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()
		if a.Key == slog.LevelKey {
			color = levelColor(text)
		}

	case slog.KindInt64:
		color, text = ansiYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = ansiYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = ansiYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = ansiRed, "false"
		if v.Bool() {
			color, text = ansiGreen, "true"
		}

	case slog.KindDuration:
		color, text = ansiMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = ansiBlue, v.Time().Format(time.RFC3339)

	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			color, text = ansiGray, "null"
		case slog.Level:
			text = Level(x).label()
			color = levelColor(text)
		case error:
			color, text = ansiRed, x.Error()
		default:
			text = fmt.Sprint(x)
		}

	default:
		text = v.String()
	}

	buf.WriteString(color + text + ansiReset)
}

// levelColor returns the color of a level label such as "WARN".
func levelColor(label string) string {
	switch {
	case strings.HasPrefix(label, "ERROR"):
		return ansiRed
	case strings.HasPrefix(label, "WARN"):
		return ansiYellow
	case strings.HasPrefix(label, "INFO"):
		return ansiGreen
	}

	return ansiBlue
}
