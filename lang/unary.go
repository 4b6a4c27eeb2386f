package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/lsexpr/lang/token"
)

// ResolveUnary normalizes prefix operators so later stages only see binary
// operators and operands.
//
//   - A run of "-" in operand position followed by a literal folds into the
//     literal's sign. A sign before a string, boolean or null is a type
//     mismatch. Before "(" an odd run becomes the operand "-1"
//     followed by "*".
//   - "not" followed by a literal is evaluated immediately and replaced by
//     the negated boolean literal.
//   - "not =" becomes a single [token.NotEqual].
//   - "not" before "(", "-" or another "not" is left in place for the
//     evaluator.
func ResolveUnary(in []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(in))

	for i := 0; i < len(in); i++ {
		tok := in[i]

		switch {
		case tok.Kind == token.Minus && operandPosition(out):
			j := i
			for j < len(in) && in[j].Kind == token.Minus {
				j++
			}

			odd := (j-i)%2 == 1
			if j == len(in) {
				return nil, ErrSyntax.WithToken(tok).
					With(slog.String("reason", "missing operand after sign"))
			}

			next := in[j]

			switch {
			case next.Kind == token.Literal && next.Quoted:
				return nil, ErrTypeMismatch.WithToken(tok).
					With(slog.String("operand", classString.String()))

			case next.Kind == token.Literal:
				if c := classify(next).class; c == classBool || c == classNull {
					return nil, ErrTypeMismatch.WithToken(tok).
						With(slog.String("operand", c.String()))
				}

				if odd {
					next = token.Token{Kind: token.Literal, Text: negateText(next.Text), Pos: tok.Pos}
				}

				out = append(out, next)

			case next.Kind == token.OpenParen:
				if odd {
					out = append(out,
						token.Token{Kind: token.Literal, Text: "-1", Pos: tok.Pos},
						token.Token{Kind: token.Mult, Text: "*", Pos: tok.Pos},
					)
				}

				out = append(out, next)

			default:
				return nil, ErrSyntax.WithToken(next).
					With(slog.String("reason", "unexpected token after sign"))
			}

			i = j

		case tok.Kind == token.Not:
			if i+1 == len(in) {
				return nil, ErrSyntax.WithToken(tok).
					With(slog.String("reason", "missing operand after not"))
			}

			next := in[i+1]

			switch next.Kind {
			case token.Equals:
				out = append(out, token.Token{Kind: token.NotEqual, Text: "<>", Pos: tok.Pos})
				i++

			case token.Literal:
				res, err := negate(tok, classify(next))
				if err != nil {
					return nil, err
				}

				res.Pos = tok.Pos
				out = append(out, res)
				i++

			case token.OpenParen, token.Minus, token.Not:
				out = append(out, tok)

			default:
				return nil, ErrSyntax.WithToken(next).
					With(slog.String("reason", "unexpected token after not"))
			}

		default:
			out = append(out, tok)
		}
	}

	return out, nil
}

// operandPosition reports whether the next token begins an operand: at the
// start of input, or after an operator or an opening parenthesis.
func operandPosition(out []token.Token) bool {
	if len(out) == 0 {
		return true
	}

	last := out[len(out)-1]

	return last.Kind.IsBinary() || last.Kind == token.Not ||
		last.Kind == token.OpenParen
}

func negateText(text string) string {
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		return rest
	}

	return "-" + text
}
