package lang

import (
	"log/slog"

	"github.com/ardnew/lsexpr/lang/token"
)

// Resolver looks up names bound in an enclosing scope.
type Resolver interface {
	Lookup(name string) (*Value, bool)
}

// Evaluate runs a postfix token sequence on a value stack and returns the
// single literal that remains.
//
// Binary operators pop the right operand first, then the left. The deferred
// unary operator [token.Not] pops one operand. A one-token input is
// returned as is. r resolves the array or object named by the right
// operand of "in" and may be nil when no such lookup is needed.
func Evaluate(postfix []token.Token, r Resolver) (token.Token, error) {
	switch len(postfix) {
	case 0:
		return token.Token{}, ErrSyntax.With(slog.String("reason", "empty expression"))
	case 1:
		if postfix[0].Kind != token.Literal {
			return token.Token{}, ErrSyntax.WithToken(postfix[0]).
				With(slog.String("reason", "missing operands"))
		}

		return postfix[0], nil
	}

	stack := make([]token.Token, 0, len(postfix))

	pop := func(op token.Token) (token.Token, error) {
		if len(stack) == 0 {
			return token.Token{}, ErrSyntax.WithToken(op).
				With(slog.String("reason", "missing operand"))
		}

		tok := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		return tok, nil
	}

	for _, tok := range postfix {
		switch {
		case tok.Kind == token.Literal:
			stack = append(stack, tok)

		case tok.Kind == token.Not:
			x, err := pop(tok)
			if err != nil {
				return token.Token{}, err
			}

			res, err := negate(tok, classify(x))
			if err != nil {
				return token.Token{}, err
			}

			stack = append(stack, res)

		case tok.Kind.IsBinary():
			right, err := pop(tok)
			if err != nil {
				return token.Token{}, err
			}

			left, err := pop(tok)
			if err != nil {
				return token.Token{}, err
			}

			rop := classify(right)
			if tok.Kind == token.In {
				if rop, err = collection(right, r); err != nil {
					return token.Token{}, err
				}
			}

			res, err := apply(tok, classify(left), rop)
			if err != nil {
				return token.Token{}, err
			}

			stack = append(stack, res)

		default:
			return token.Token{}, ErrSyntax.WithToken(tok).
				With(slog.String("reason", "unexpected token in expression"))
		}
	}

	if len(stack) != 1 {
		return token.Token{}, ErrSyntax.With(
			slog.String("reason", "unbalanced expression"),
			slog.Int("operands", len(stack)),
		)
	}

	return stack[0], nil
}

// collection interprets the right operand of "in". An unquoted name bound
// to an array or object becomes a collection operand; anything else is
// classified as a scalar.
func collection(tok token.Token, r Resolver) (operand, error) {
	op := classify(tok)
	if r == nil || !tok.IsLiteral() || op.class != classUndefined {
		return op, nil
	}

	v, ok := r.Lookup(tok.Text)
	if !ok || (v.Type != TypeArray && v.Type != TypeObject) {
		return op, nil
	}

	v, err := Resolve(v, r)
	if err != nil {
		return op, err
	}

	op.class, op.coll = classCollection, v

	return op, nil
}

// Resolve returns a copy of v with every array pointer replaced by the
// value currently bound to its name in r. A pointer whose name is unbound,
// or that refers back to itself, is an [ErrUnboundReference].
func Resolve(v *Value, r Resolver) (*Value, error) {
	return resolve(v, r, make(map[string]struct{}))
}

func resolve(v *Value, r Resolver, active map[string]struct{}) (*Value, error) {
	switch v.Type {
	case TypePointer:
		if _, ok := active[v.Text]; ok {
			return nil, ErrUnboundReference.With(
				slog.String("name", v.Text),
				slog.String("reason", "reference cycle"),
			)
		}

		target, ok := r.Lookup(v.Text)
		if !ok {
			return nil, ErrUnboundReference.With(slog.String("name", v.Text))
		}

		active[v.Text] = struct{}{}
		defer delete(active, v.Text)

		return resolve(target, r, active)

	case TypeArray:
		elems := make([]*Value, len(v.Elems))
		for i, e := range v.Elems {
			re, err := resolve(e, r, active)
			if err != nil {
				return nil, err
			}

			elems[i] = re
		}

		return NewArray(elems...), nil

	case TypeObject:
		entries := make([]*Entry, len(v.Entries))
		for i, e := range v.Entries {
			val, err := resolve(e.Value, r, active)
			if err != nil {
				return nil, err
			}

			entries[i] = &Entry{Key: e.Key, Value: val}
		}

		return NewObject(entries...), nil
	}

	return v, nil
}
