package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/lsexpr/lang/token"
)

// class is the runtime interpretation of a literal operand.
type class int

const (
	classUndefined class = iota
	classInt
	classFloat
	classBool
	classNull
	classString
	classCollection
)

var className = [...]string{
	classUndefined:  "undefined",
	classInt:        "integer",
	classFloat:      "float",
	classBool:       "boolean",
	classNull:       "null",
	classString:     "string",
	classCollection: "collection",
}

func (c class) String() string { return className[c] }

// operand is a literal token interpreted at the point of use.
type operand struct {
	tok   token.Token
	coll  *Value // array or object, only as the right side of "in"
	i     int64
	f     float64
	class class
	b     bool
}

// classify interprets tok without modifying it.
func classify(tok token.Token) operand {
	op := operand{tok: tok}

	switch {
	case tok.Quoted:
		op.class = classString
	case tok.Text == textTrue, tok.Text == textFalse:
		op.class, op.b = classBool, tok.Text == textTrue
	case tok.Text == textNull:
		op.class = classNull
	case isDecimal(tok.Text):
		if i, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
			op.class, op.i = classInt, i
		} else if f, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			op.class, op.f = classFloat, f
		}
	}

	return op
}

// isDecimal reports whether s is an optionally signed run of digits with at
// most one decimal point.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dot := 0, false

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}

	return digits > 0
}

func (o operand) numeric() bool { return o.class == classInt || o.class == classFloat }

func (o operand) float() float64 {
	switch o.class {
	case classInt:
		return float64(o.i)
	case classBool:
		if o.b {
			return 1
		}

		return 0
	default:
		return o.f
	}
}

// truth casts o to boolean: numeric zero and null are false.
func (o operand) truth() (bool, bool) {
	switch o.class {
	case classBool:
		return o.b, true
	case classNull:
		return false, true
	case classInt:
		return o.i != 0, true
	case classFloat:
		return o.f != 0, true
	default:
		return false, false
	}
}

func mismatch(op token.Token, l, r operand) *Error {
	return ErrTypeMismatch.WithToken(op).With(
		slog.String("left", l.class.String()),
		slog.String("right", r.class.String()),
	)
}

// negate applies logical not to o.
func negate(op token.Token, o operand) (token.Token, error) {
	b, ok := o.truth()
	if !ok {
		return token.Token{}, ErrTypeMismatch.WithToken(op).
			With(slog.String("operand", o.class.String()))
	}

	return boolToken(!b), nil
}

// apply evaluates the binary operator op over left and right according to
// the coercion rules and returns the result as a literal token.
func apply(op token.Token, l, r operand) (token.Token, error) {
	switch {
	case op.Kind.IsLogical():
		return logical(op, l, r)
	case op.Kind.IsArithmetic():
		return arithmetic(op, l, r)
	case op.Kind.IsRelational():
		return relational(op, l, r)
	case op.Kind == token.In:
		return membership(op, l, r)
	}

	return token.Token{}, ErrUndefinedOperator.WithToken(op)
}

func logical(op token.Token, l, r operand) (token.Token, error) {
	lb, lok := l.truth()
	rb, rok := r.truth()

	if !lok || !rok {
		return token.Token{}, mismatch(op, l, r)
	}

	if op.Kind == token.And {
		return boolToken(lb && rb), nil
	}

	return boolToken(lb || rb), nil
}

func arithmetic(op token.Token, l, r operand) (token.Token, error) {
	if !l.numeric() || !r.numeric() {
		return token.Token{}, mismatch(op, l, r)
	}

	if l.class == classInt && r.class == classInt {
		return integer(op, l.i, r.i)
	}

	return floating(op, l.float(), r.float())
}

// integer applies op to two integers. A result outside the int64 range is
// an error rather than a wrapped value.
func integer(op token.Token, a, b int64) (token.Token, error) {
	var n int64

	switch op.Kind {
	case token.Plus:
		n = a + b
		if (a^n)&(b^n) < 0 {
			return token.Token{}, overflow(op, classInt)
		}

	case token.Minus:
		n = a - b
		if (a^b)&(a^n) < 0 {
			return token.Token{}, overflow(op, classInt)
		}

	case token.Mult:
		n = a * b
		if a != 0 && (n/a != b || (a == -1 && b == math.MinInt64)) {
			return token.Token{}, overflow(op, classInt)
		}

	case token.Div, token.Mod:
		if b == 0 {
			return token.Token{}, ErrDivisionByZero.WithToken(op)
		}

		// Go division truncates toward zero and the remainder takes the
		// sign of the dividend.
		switch {
		case op.Kind == token.Mod:
			n = a % b
		case a == math.MinInt64 && b == -1:
			return token.Token{}, overflow(op, classInt)
		default:
			n = a / b
		}
	}

	return token.Lit(strconv.FormatInt(n, 10)), nil
}

// floating applies op to two floats. Results that are not finite have no
// literal form and are reported as overflow.
func floating(op token.Token, a, b float64) (token.Token, error) {
	var f float64

	switch op.Kind {
	case token.Plus:
		f = a + b
	case token.Minus:
		f = a - b
	case token.Mult:
		f = a * b
	case token.Div, token.Mod:
		if b == 0 {
			return token.Token{}, ErrDivisionByZero.WithToken(op)
		}

		if op.Kind == token.Div {
			f = a / b
		} else {
			f = math.Mod(a, b)
		}
	}

	if math.IsInf(f, 0) || math.IsNaN(f) {
		return token.Token{}, overflow(op, classFloat)
	}

	return token.Lit(formatFloat(f)), nil
}

func overflow(op token.Token, c class) *Error {
	return ErrTypeMismatch.WithToken(op).With(
		slog.String("reason", c.String()+" overflow"),
	)
}

// formatFloat renders f in the shortest decimal form that round-trips.
func formatFloat(f float64) string {
	if f == 0 {
		f = 0 // normalize negative zero
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func relational(op token.Token, l, r operand) (token.Token, error) {
	if op.Kind == token.Equals || op.Kind == token.NotEqual {
		if eq, ok := textualEqual(l, r); ok {
			return boolToken(eq == (op.Kind == token.Equals)), nil
		}
	}

	castable := func(o operand) bool { return o.numeric() || o.class == classBool }
	if !castable(l) || !castable(r) {
		return token.Token{}, mismatch(op, l, r)
	}

	a, b := l.float(), r.float()

	var res bool

	switch op.Kind {
	case token.Equals:
		res = a == b
	case token.NotEqual:
		res = a != b
	case token.GreaterThan:
		res = a > b
	case token.LessThan:
		res = a < b
	case token.Gte:
		res = a >= b
	case token.Lte:
		res = a <= b
	}

	return boolToken(res), nil
}

// textualEqual compares two strings or two nulls. It reports false when
// the pair is not one of those.
func textualEqual(l, r operand) (bool, bool) {
	switch {
	case l.class == classString && r.class == classString:
		return l.tok.Text == r.tok.Text, true
	case l.class == classNull && r.class == classNull:
		return true, true
	default:
		return false, false
	}
}

// equivalent reports whether two scalar operands are equal under the
// relational rules, treating incomparable pairs as unequal.
func equivalent(l, r operand) bool {
	if eq, ok := textualEqual(l, r); ok {
		return eq
	}

	castable := func(o operand) bool { return o.numeric() || o.class == classBool }
	if !castable(l) || !castable(r) {
		return false
	}

	return l.float() == r.float()
}

func membership(op token.Token, l, r operand) (token.Token, error) {
	if l.class == classUndefined || l.class == classCollection {
		return token.Token{}, mismatch(op, l, r)
	}

	switch r.class {
	case classString:
		return boolToken(strings.Contains(r.tok.Text, l.tok.Text)), nil

	case classCollection:
		return boolToken(contains(r.coll, l)), nil
	}

	return token.Token{}, mismatch(op, l, r)
}

// contains reports whether an array holds an element equal to needle, or an
// object holds a key equal to needle. Array element pointers are expected to
// be resolved already.
func contains(coll *Value, needle operand) bool {
	match := func(v *Value) bool {
		tok, ok := v.Token()

		return ok && equivalent(needle, classify(tok))
	}

	switch coll.Type {
	case TypeArray:
		for _, e := range coll.Elems {
			if match(e) {
				return true
			}
		}
	case TypeObject:
		for _, e := range coll.Entries {
			if match(e.Key) {
				return true
			}
		}
	}

	return false
}

func boolToken(b bool) token.Token { return token.Lit(strconv.FormatBool(b)) }
