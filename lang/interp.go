package lang

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/lsexpr/lang/lexer"
	"github.com/ardnew/lsexpr/lang/token"
	"github.com/ardnew/lsexpr/log"
)

// Interpreter is one evaluation session. It owns a [Scope] whose root
// frame lives as long as the interpreter. An Interpreter is not safe for
// concurrent use; independent sessions each need their own.
type Interpreter struct {
	scope  *Scope
	cache  *lexCache
	logger log.Logger
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithLogger sets the logger used to trace evaluation.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithCacheSize sets how many lexed source lines are memoized. Zero
// disables the cache.
func WithCacheSize(n int) Option {
	return func(in *Interpreter) { in.cache = newLexCache(n) }
}

// New returns an interpreter with an empty root frame.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		scope: NewScope(),
		cache: newLexCache(DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Scope returns the interpreter's scope stack.
func (in *Interpreter) Scope() *Scope { return in.scope }

// Result is the outcome of one statement.
type Result struct {
	// Value is the evaluated value. Array elements may still be pointers;
	// see [Interpreter.Resolve]. It is nil for empty statements.
	Value     *Value
	Statement Statement
	// Line is the 1-based source line the statement came from.
	Line int
}

// Lex tokenizes src, wrapping failures in [ErrLex].
func (in *Interpreter) Lex(src string) ([]token.Token, error) {
	if tokens, ok := in.cache.get(src); ok {
		return tokens, nil
	}

	tokens, err := lexer.Lex(src)
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return nil, ErrLex.Wrap(err).WithPosition(lexErr.Pos)
		}

		return nil, ErrLex.Wrap(err)
	}

	in.cache.put(src, tokens)

	return tokens, nil
}

// Exec evaluates every statement in src and returns the result of the last
// one. It stops at the first error. A failed assignment binds nothing.
func (in *Interpreter) Exec(ctx context.Context, src string) (Result, error) {
	tokens, err := in.Lex(src)
	if err != nil {
		return Result{}, err
	}

	in.logger.TraceContext(ctx, "lex",
		slog.String("tokens", token.Join(tokens)),
		slog.Int("count", len(tokens)),
	)

	var last Result

	for _, line := range Lines(tokens) {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		res, err := in.exec(ctx, line)
		if err != nil {
			return res, err
		}

		if res.Statement.Kind != StatementEmpty {
			last = res
		}
	}

	return last, nil
}

// Statement executes one parsed statement.
func (in *Interpreter) Statement(ctx context.Context, st Statement) (Result, error) {
	res := Result{Statement: st}
	if len(st.Expr) > 0 {
		res.Line = st.Expr[0].Pos.Line
	}

	switch st.Kind {
	case StatementEmpty:
		return res, nil

	case StatementUnsupported:
		res.Line = st.Keyword.Pos.Line

		return res, unsupported(st)
	}

	p := pipeline{ctx: ctx, scope: in.scope, logger: in.logger}

	v, err := p.value(st.Expr)
	if err != nil {
		return res, err
	}

	if st.Kind == StatementAssignment {
		if err := in.scope.Bind(st.Name, v); err != nil {
			return res, err
		}

		in.logger.TraceContext(ctx, "bind",
			slog.String("name", st.Name),
			slog.String("type", v.Type.String()),
			slog.Int("depth", in.scope.Depth()),
		)
	}

	res.Value = v

	return res, nil
}

func (in *Interpreter) exec(ctx context.Context, tokens []token.Token) (Result, error) {
	st, err := ParseStatement(tokens)
	if err != nil {
		return Result{Statement: st}, err
	}

	return in.Statement(ctx, st)
}

// Resolve replaces array pointers in v with the values currently bound to
// their names.
func (in *Interpreter) Resolve(v *Value) (*Value, error) {
	return Resolve(v, in.scope)
}

// Run reads r line by line and executes each line. fn receives every
// result and error; Run stops when fn returns a non-nil error, which Run
// then returns. Errors from reading r are wrapped in [ErrReadInput].
func (in *Interpreter) Run(
	ctx context.Context,
	r io.Reader,
	fn func(Result, error) error,
) error {
	ra := readahead.NewReader(r)
	defer ra.Close()

	scan := bufio.NewScanner(ra)

	for n := 1; scan.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := in.Exec(ctx, scan.Text())
		res.Line = n

		if res.Statement.Kind == StatementEmpty && err == nil {
			continue
		}

		if err != nil {
			err = WrapError(err).With(slog.Int("source_line", n))
		}

		if ferr := fn(res, err); ferr != nil {
			return ferr
		}
	}

	if err := scan.Err(); err != nil {
		return ErrReadInput.Wrap(err)
	}

	return nil
}
