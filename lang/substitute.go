package lang

import (
	"log/slog"

	"github.com/ardnew/lsexpr/lang/token"
)

// FoldStrings replaces every Quote, Literal, Quote triple with a single
// quoted literal. A quote outside such a triple is a syntax error.
func FoldStrings(in []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(in))

	for i := 0; i < len(in); i++ {
		if in[i].Kind != token.Quote {
			out = append(out, in[i])

			continue
		}

		if i+2 >= len(in) {
			return nil, ErrSyntax.WithToken(in[i]).
				With(slog.String("reason", "malformed string literal"))
		}

		v, err := ParseString(in[i : i+3])
		if err != nil {
			return nil, err
		}

		tok, _ := v.Token()
		tok.Pos = in[i].Pos
		out = append(out, tok)
		i += 2
	}

	return out, nil
}

// Substitute replaces every unquoted literal naming a binding in r with the
// textual form of the bound scalar.
//
// An array or object may only be named as the right operand of "in"; it is
// left in place for the evaluator. Any other non-scalar binding in
// expression position is a type mismatch. Literals that name nothing pass
// through unchanged.
func Substitute(in []token.Token, r Resolver) ([]token.Token, error) {
	out := make([]token.Token, len(in))

	if r == nil {
		copy(out, in)

		return out, nil
	}

	for i, tok := range in {
		out[i] = tok

		if !tok.IsLiteral() {
			continue
		}

		v, ok := r.Lookup(tok.Text)
		if !ok {
			continue
		}

		if sub, ok := v.Token(); ok {
			sub.Pos = tok.Pos
			out[i] = sub

			continue
		}

		collection := v.Type == TypeArray || v.Type == TypeObject
		if collection && i > 0 && in[i-1].Kind == token.In {
			continue
		}

		return nil, ErrTypeMismatch.WithToken(tok).With(
			slog.String("name", tok.Text),
			slog.String("type", v.Type.String()),
			slog.String("reason", "non-scalar value in expression"),
		)
	}

	return out, nil
}
