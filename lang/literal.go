package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/lsexpr/lang/token"
	"github.com/ardnew/lsexpr/log"
)

// ParseString parses exactly Quote, Literal, Quote into a string value.
func ParseString(tokens []token.Token) (*Value, error) {
	if len(tokens) != 3 ||
		tokens[0].Kind != token.Quote ||
		tokens[1].Kind != token.Literal ||
		tokens[2].Kind != token.Quote {
		err := ErrSyntax.With(slog.String("reason", "malformed string literal"))
		if len(tokens) > 0 {
			err = err.WithToken(tokens[0])
		}

		return nil, err
	}

	return NewString(tokens[1].Text), nil
}

// ParseValue evaluates the tokens of one expression: an array, object,
// string or function literal, or a scalar expression. Names are resolved
// through r.
func ParseValue(ctx context.Context, tokens []token.Token, r Resolver) (*Value, error) {
	p := pipeline{ctx: ctx, scope: r}

	return p.value(tokens)
}

// pipeline evaluates expressions against a scope.
type pipeline struct {
	ctx    context.Context
	scope  Resolver
	logger log.Logger
}

func (p pipeline) trace(stage string, tokens []token.Token) {
	p.logger.TraceContext(p.ctx, stage,
		slog.String("tokens", token.Join(tokens)),
		slog.Int("count", len(tokens)),
	)
}

// value dispatches on the lead token.
func (p pipeline) value(tokens []token.Token) (*Value, error) {
	if len(tokens) == 0 {
		return nil, ErrSyntax.With(slog.String("reason", "missing value"))
	}

	switch tokens[0].Kind {
	case token.OpenBracket:
		return p.array(tokens)
	case token.OpenBrace:
		return p.object(tokens)
	case token.Function:
		return p.function(tokens)
	case token.Quote:
		if len(tokens) == 3 {
			return ParseString(tokens)
		}
	}

	// A lone name bound to a collection or function evaluates to the binding.
	if len(tokens) == 1 && tokens[0].IsLiteral() && p.scope != nil {
		if v, ok := p.scope.Lookup(tokens[0].Text); ok && !v.Type.IsScalar() {
			return v, nil
		}
	}

	return p.scalar(tokens)
}

// scalar runs the expression pipeline: fold strings, substitute names,
// resolve unary operators, compile to postfix and evaluate.
func (p pipeline) scalar(tokens []token.Token) (*Value, error) {
	folded, err := FoldStrings(tokens)
	if err != nil {
		return nil, err
	}

	subst, err := Substitute(folded, p.scope)
	if err != nil {
		return nil, err
	}

	p.trace("substitute", subst)

	unary, err := ResolveUnary(subst)
	if err != nil {
		return nil, err
	}

	p.trace("unary", unary)

	postfix, err := Compile(unary)
	if err != nil {
		return nil, err
	}

	p.trace("postfix", postfix)

	res, err := Evaluate(postfix, p.scope)
	if err != nil {
		return nil, err
	}

	p.trace("eval", []token.Token{res})

	if !res.Quoted && classify(res).class == classUndefined {
		return nil, ErrUnboundReference.WithToken(res).
			With(slog.String("name", res.Text))
	}

	return FromToken(res), nil
}

// array parses "[" elem ("," elem)* "]". A lone name bound in scope becomes
// a pointer to that binding. A lone unbound literal keeps its raw text.
func (p pipeline) array(tokens []token.Token) (*Value, error) {
	inner, err := enclosed(tokens, token.OpenBracket, token.CloseBracket)
	if err != nil {
		return nil, err
	}

	elems := make([]*Value, 0)

	if len(inner) == 0 {
		return NewArray(elems...), nil
	}

	for _, elem := range split(inner, token.Comma) {
		v, err := p.element(elem, tokens[0])
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	return NewArray(elems...), nil
}

func (p pipeline) element(elem []token.Token, open token.Token) (*Value, error) {
	if len(elem) == 0 {
		return nil, ErrSyntax.WithToken(open).
			With(slog.String("reason", "empty array element"))
	}

	if len(elem) == 1 && elem[0].IsLiteral() {
		if p.scope != nil {
			if _, ok := p.scope.Lookup(elem[0].Text); ok {
				return NewPointer(elem[0].Text), nil
			}
		}

		return FromToken(elem[0]), nil
	}

	return p.value(elem)
}

// object parses "{" (key ":" value ("," key ":" value)*)? "}". Keys and
// values are full expressions. A key that is a lone unbound name is taken
// as a string. Entries keep insertion order and keys must be unique.
func (p pipeline) object(tokens []token.Token) (*Value, error) {
	inner, err := enclosed(tokens, token.OpenBrace, token.CloseBrace)
	if err != nil {
		return nil, err
	}

	obj := NewObject()

	if len(inner) == 0 {
		return obj, nil
	}

	for _, entry := range split(inner, token.Comma) {
		kv := split(entry, token.Colon)
		if len(kv) != 2 || len(kv[0]) == 0 || len(kv[1]) == 0 {
			err := ErrSyntax.With(slog.String("reason", "object entry must be key: value"))
			if len(entry) > 0 {
				err = err.WithToken(entry[0])
			} else {
				err = err.WithToken(tokens[0])
			}

			return nil, err
		}

		key, err := p.key(kv[0])
		if err != nil {
			return nil, err
		}

		if _, dup := obj.Lookup(key); dup {
			return nil, ErrSyntax.WithToken(kv[0][0]).With(
				slog.String("reason", "duplicate object key"),
				slog.String("key", key.Text),
			)
		}

		val, err := p.value(kv[1])
		if err != nil {
			return nil, err
		}

		obj.Entries = append(obj.Entries, &Entry{Key: key, Value: val})
	}

	return obj, nil
}

func (p pipeline) key(tokens []token.Token) (*Value, error) {
	if len(tokens) == 1 && tokens[0].IsLiteral() &&
		classify(tokens[0]).class == classUndefined {
		if p.scope == nil || !bound(p.scope, tokens[0].Text) {
			return NewString(tokens[0].Text), nil
		}
	}

	key, err := p.value(tokens)
	if err != nil {
		return nil, err
	}

	if !key.Type.IsScalar() {
		return nil, ErrTypeMismatch.WithToken(tokens[0]).With(
			slog.String("type", key.Type.String()),
			slog.String("reason", "object key must be scalar"),
		)
	}

	return key, nil
}

// function parses "function" "(" [name ("," name)*] ")" "{" body "}". The
// body is kept unevaluated.
func (p pipeline) function(tokens []token.Token) (*Value, error) {
	if len(tokens) < 2 || tokens[1].Kind != token.OpenParen {
		return nil, ErrSyntax.WithToken(tokens[0]).
			With(slog.String("reason", "function expects a parameter list"))
	}

	end := matching(tokens, 1)
	if end < 0 {
		return nil, ErrSyntax.WithToken(tokens[1]).
			With(slog.String("reason", "unbalanced parentheses"))
	}

	params := make([]string, 0)
	seen := make(map[string]struct{})

	if list := tokens[2:end]; len(list) > 0 {
		for _, param := range split(list, token.Comma) {
			if len(param) != 1 || !param[0].IsLiteral() || !isName(param[0].Text) {
				return nil, ErrSyntax.WithToken(tokens[1]).
					With(slog.String("reason", "invalid parameter"))
			}

			if _, dup := seen[param[0].Text]; dup {
				return nil, ErrSyntax.WithToken(param[0]).
					With(slog.String("reason", "duplicate parameter"))
			}

			seen[param[0].Text] = struct{}{}
			params = append(params, param[0].Text)
		}
	}

	body, err := enclosed(tokens[end+1:], token.OpenBrace, token.CloseBrace)
	if err != nil {
		return nil, err
	}

	return NewFunction(params, append([]token.Token(nil), body...)), nil
}

func bound(r Resolver, name string) bool {
	_, ok := r.Lookup(name)

	return ok
}

// enclosed returns the tokens strictly between an opening delimiter at
// index 0 and its matching close, which must be the last token.
func enclosed(tokens []token.Token, open, closer token.Kind) ([]token.Token, error) {
	if len(tokens) == 0 || tokens[0].Kind != open {
		err := ErrSyntax.With(slog.String("expected", open.Lexeme()))
		if len(tokens) > 0 {
			err = err.WithToken(tokens[0])
		}

		return nil, err
	}

	end := matching(tokens, 0)
	if end < 0 {
		return nil, ErrSyntax.WithToken(tokens[0]).With(
			slog.String("reason", "unterminated literal"),
			slog.String("expected", closer.Lexeme()),
		)
	}

	if end != len(tokens)-1 {
		return nil, ErrSyntax.WithToken(tokens[end+1]).
			With(slog.String("reason", "unexpected token after literal"))
	}

	return tokens[1:end], nil
}

// matching returns the index of the delimiter closing tokens[start], or -1.
// Brackets, braces and parentheses must nest properly.
func matching(tokens []token.Token, start int) int {
	stack := make([]token.Kind, 0, 4)

	for i := start; i < len(tokens); i++ {
		switch k := tokens[i].Kind; k {
		case token.OpenBracket, token.OpenBrace, token.OpenParen:
			stack = append(stack, k)

		case token.CloseBracket, token.CloseBrace, token.CloseParen:
			if len(stack) == 0 || stack[len(stack)-1] != opener(k) {
				return -1
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}

	return -1
}

func opener(k token.Kind) token.Kind {
	switch k {
	case token.CloseBracket:
		return token.OpenBracket
	case token.CloseBrace:
		return token.OpenBrace
	default:
		return token.OpenParen
	}
}

// split divides tokens at every sep outside nested delimiters. It always
// returns at least one part; parts may be empty.
func split(tokens []token.Token, sep token.Kind) [][]token.Token {
	var (
		parts [][]token.Token
		depth int
		start int
	)

	for i, tok := range tokens {
		switch tok.Kind {
		case token.OpenBracket, token.OpenBrace, token.OpenParen:
			depth++
		case token.CloseBracket, token.CloseBrace, token.CloseParen:
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, tokens[start:])
}
