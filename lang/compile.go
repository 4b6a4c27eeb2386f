package lang

import (
	"log/slog"

	"github.com/ardnew/lsexpr/lang/token"
)

// precedence ranks operators from loosest (1) to tightest. All binary
// operators are left-associative.
var precedence = map[token.Kind]int{
	token.GreaterThan: 1,
	token.LessThan:    1,
	token.Gte:         1,
	token.Lte:         1,
	token.And:         2,
	token.Or:          2,
	token.In:          3,
	token.Equals:      3,
	token.NotEqual:    3,
	token.Plus:        4,
	token.Minus:       4,
	token.Mult:        5,
	token.Div:         5,
	token.Mod:         5,
	token.Not:         6,
}

// Precedence returns the binding strength of kind, or 0 if kind is not an
// operator.
func Precedence(kind token.Kind) int { return precedence[kind] }

// Compile converts an infix token sequence to postfix order using the
// shunting-yard algorithm.
//
// Operands are emitted directly. An incoming binary operator first pops
// every stacked operator of greater or equal precedence. The prefix
// operator [token.Not] is pushed without popping. Parentheses never appear
// in the output.
func Compile(infix []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(infix))
	ops := make([]token.Token, 0, len(infix)/2+1)

	top := func() token.Token { return ops[len(ops)-1] }
	pop := func() token.Token {
		t := top()
		ops = ops[:len(ops)-1]

		return t
	}

	for _, tok := range infix {
		switch {
		case tok.Kind == token.Literal:
			out = append(out, tok)

		case tok.Kind == token.OpenParen, tok.Kind == token.Not:
			ops = append(ops, tok)

		case tok.Kind == token.CloseParen:
			for len(ops) > 0 && top().Kind != token.OpenParen {
				out = append(out, pop())
			}

			if len(ops) == 0 {
				return nil, ErrSyntax.WithToken(tok).
					With(slog.String("reason", "unbalanced parentheses"))
			}

			pop()

		case tok.Kind.IsBinary():
			rank := precedence[tok.Kind]
			for len(ops) > 0 && top().Kind != token.OpenParen &&
				precedence[top().Kind] >= rank {
				out = append(out, pop())
			}

			ops = append(ops, tok)

		default:
			return nil, ErrSyntax.WithToken(tok).
				With(slog.String("reason", "unexpected token in expression"))
		}
	}

	for len(ops) > 0 {
		op := pop()
		if op.Kind == token.OpenParen {
			return nil, ErrSyntax.WithToken(op).
				With(slog.String("reason", "unbalanced parentheses"))
		}

		out = append(out, op)
	}

	return out, nil
}
