package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/lsexpr/lang/token"
)

// Sentinel errors. Every interpreter failure matches one of these.
var (
	ErrLex               = NewError("lexical error")
	ErrSyntax            = NewError("syntax error")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrRedefinition      = NewError("name already defined in scope")
	ErrUndefinedOperator = NewError("undefined operator")
	ErrDivisionByZero    = NewError("division by zero")
	ErrUnboundReference  = NewError("unbound reference")
	ErrScope             = NewError("scope stack underflow")
	ErrReadInput         = NewError("failed to read input")
)

// Error is an interpreter error carrying structured attributes for
// logging. Errors derived with [Error.With] or [Error.Wrap] match their
// sentinel under [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	base  *Error
}

// NewError returns a sentinel Error with message msg.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it in a message-less Error
// unless it already is one.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	}

	return e.msg + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, so that
// errors.Is(ErrSyntax.With(...), ErrSyntax) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (e == t || e.root() == t.root())
}

func (e *Error) root() *Error {
	if e.base == nil {
		return e
	}

	return e.base
}

// LogValue groups the message, the cause and the attributes of e.
func (e *Error) LogValue() slog.Value {
	var head []slog.Attr

	if e.msg != "" {
		head = append(head, slog.String("error", e.msg))
	}

	if e.err != nil {
		head = append(head, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(slices.Concat(head, e.attrs)...)
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// derive returns a copy of e with cause err and attrs appended.
func (e *Error) derive(err error, attrs []slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: slices.Concat(e.attrs, attrs),
		base:  e.root(),
	}
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error { return e.derive(err, nil) }

// With returns a copy of e with attrs appended. e is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error { return e.derive(e.err, attrs) }

// WithPosition adds line and column attributes.
func (e *Error) WithPosition(pos token.Position) *Error {
	return e.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
}

// WithToken adds the token text and, when known, its position.
func (e *Error) WithToken(tok token.Token) *Error {
	err := e.With(slog.String("token", tok.String()))
	if tok.Pos.Line > 0 {
		err = err.WithPosition(tok.Pos)
	}

	return err
}

// Describe renders err on one line followed by the attributes of the
// outermost [*Error] in its chain, except those keyed in omit:
//
//	type mismatch (token=+ column=3 left=integer right=string)
func Describe(err error, omit ...string) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	var b strings.Builder

	b.WriteString(err.Error())

	sep := " ("
	for _, a := range e.attrs {
		if slices.Contains(omit, a.Key) {
			continue
		}

		b.WriteString(sep + a.Key + "=" + attrText(a.Value.String()))
		sep = " "
	}

	if sep == " " {
		b.WriteByte(')')
	}

	return b.String()
}

// attrText quotes s when it would not read back as a single word.
func attrText(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=()") {
		return strconv.Quote(s)
	}

	return s
}
