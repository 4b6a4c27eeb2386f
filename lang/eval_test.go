package lang

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/expr-lang/expr"

	"github.com/ardnew/lsexpr/lang/token"
)

// evalString runs src through a fresh interpreter and returns the result in
// native syntax.
func evalString(t *testing.T, src string) (string, error) {
	t.Helper()

	res, err := New().Exec(t.Context(), src)
	if err != nil {
		return "", err
	}

	return res.Value.String(), nil
}

func TestEvaluate_Results(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// arithmetic
		{"3+4", "7"},
		{"37-17", "20"},
		{"5.1*5.0", "25.5"},
		{"8/2", "4"},
		{"8.6/2", "4.3"},
		{"(3 - 5) * 12", "-24"},
		{"(3 * 13) mod 12", "3"},
		{"(42.6 /6) + 1", "8.100000000000001"},
		{"7 / 2", "3"},
		{"-7 / 2", "-3"},
		{"-7 % 3", "-1"},
		{"7 % -3", "1"},
		{"7.5 % 2", "1.5"},
		{"-7.5 % 2", "-1.5"},
		{"4.0 * 1", "4"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"3 - -5", "8"},
		{"- 2", "-2"},
		{"2 * -(3 + 1)", "-8"},
		{"1.5 - 1.5", "0"},

		// logic and truthiness
		{"1 and false", "false"},
		{"1.1 or false", "true"},
		{"0 or 0.0", "false"},
		{"null or 1", "true"},
		{"null and true", "false"},
		{"5+ 7 or 3 * 5", "true"},
		{"not true", "false"},
		{"not (1 = 2)", "true"},
		{"not not true", "true"},
		{"not -1", "false"},

		// comparison
		{"5 >= 5", "true"},
		{"5 > 7", "false"},
		{"5 = 5 and 3 = 2", "false"},
		{"((1+4)=5) and 2=2", "true"},
		{"3 = 3.0", "true"},
		{"2 <> 3", "true"},
		{"2 not= 2", "false"},
		{"true > false", "true"},
		{"1 = true", "true"},
		{"2.5 <= 2", "false"},

		// strings and null
		{`"a" = "a"`, "true"},
		{`"a" <> "b"`, "true"},
		{`"A b" = "A b"`, "true"},
		{"null = null", "true"},
		{`"ell" in "hello"`, "true"},
		{`"xyz" in "hello"`, "false"},
		{`3 in "a3b"`, "true"},
		{`"hi"`, `"hi"`},
		{`""`, `""`},

		// single tokens
		{"42", "42"},
		{"true", "true"},
		{"null", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input)
			if err != nil {
				t.Fatalf("eval(%q) error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("eval(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"1 / 0", ErrDivisionByZero},
		{"1 % 0", ErrDivisionByZero},
		{"1.0 / 0", ErrDivisionByZero},
		{"2.5 mod 0.0", ErrDivisionByZero},
		{"true + 1", ErrTypeMismatch},
		{"null * 2", ErrTypeMismatch},
		{`"a" + 1`, ErrTypeMismatch},
		{`"3" + 1`, ErrTypeMismatch},
		{`"a" > "b"`, ErrTypeMismatch},
		{`"a" = 1`, ErrTypeMismatch},
		{"null = 0", ErrTypeMismatch},
		{`"a" and true`, ErrTypeMismatch},
		{"foo + 1", ErrTypeMismatch},
		{"1 in 2", ErrTypeMismatch},
		{"foo", ErrUnboundReference},
		{"1 2", ErrSyntax},
		{"1 +", ErrSyntax},
		{"* 2", ErrSyntax},
		{"()", ErrSyntax},
		{"-true", ErrTypeMismatch},
		{"- null", ErrTypeMismatch},
		{"1 + -false", ErrTypeMismatch},
		{"9223372036854775807 + 1", ErrTypeMismatch},
		{"-9223372036854775808 - 1", ErrTypeMismatch},
		{"9223372036854775807 * 2", ErrTypeMismatch},
		{"-1 * -9223372036854775808", ErrTypeMismatch},
		{"-9223372036854775808 / -1", ErrTypeMismatch},
		{hugeFloat + " * " + hugeFloat, ErrTypeMismatch},
		{"-" + hugeFloat + " * " + hugeFloat, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.input[:min(len(tt.input), 40)], func(t *testing.T) {
			got, err := evalString(t, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("eval(%q) = %q, %v; want %v", tt.input, got, err, tt.want)
			}
		})
	}
}

// hugeFloat is finite but its square is not.
var hugeFloat = "1" + strings.Repeat("0", 200) + ".0"

func TestEvaluate_IntegerBounds(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9223372036854775806 + 1", "9223372036854775807"},
		{"-9223372036854775807 - 1", "-9223372036854775808"},
		{"-9223372036854775808 % -1", "0"},
		{"-9223372036854775808 / 1", "-9223372036854775808"},
		{"4611686018427387903 * 2", "9223372036854775806"},
		{"0 * -9223372036854775808", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := evalString(t, tt.input)
			if err != nil || got != tt.want {
				t.Errorf("eval(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestEvaluate_OverflowReason(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"9223372036854775807 + 1", "integer overflow"},
		{hugeFloat + " * " + hugeFloat, "float overflow"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			_, err := New().Exec(t.Context(), tt.input)

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("error = %v, want *Error", err)
			}

			for _, a := range le.Attrs() {
				if a.Key == "reason" && a.Value.String() == tt.reason {
					return
				}
			}

			t.Errorf("attrs %v lack reason=%s", le.Attrs(), tt.reason)
		})
	}
}

func TestEvaluate_OperandOrder(t *testing.T) {
	postfix := []token.Token{token.Lit("10"), token.Lit("4"), token.Make(token.Minus)}

	got, err := Evaluate(postfix, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got.Text != "6" {
		t.Errorf("10 4 - = %s, want 6", got.Text)
	}
}

func TestEvaluate_SingleTokenShortCircuit(t *testing.T) {
	tok := token.Lit("not-a-number")

	got, err := Evaluate([]token.Token{tok}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(tok) {
		t.Errorf("Evaluate single = %v, want %v", got, tok)
	}

	if _, err := Evaluate([]token.Token{token.Make(token.Plus)}, nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("Evaluate(+) error = %v, want ErrSyntax", err)
	}

	if _, err := Evaluate(nil, nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("Evaluate(nil) error = %v, want ErrSyntax", err)
	}
}

// TestEvaluate_MatchesReference compares integer and float arithmetic and
// single comparisons against the expr-lang engine.
func TestEvaluate_MatchesReference(t *testing.T) {
	inputs := []string{
		"3 + 4 * 2",
		"(3 - 5) * 12",
		"1.5 * 4",
		"10 - 2 - 3",
		"2 * 3 + 4 * 5",
		"0.1 + 0.2",
		"100 - 0.25 * 8",
		"-3 * -3",
		"7 - (2 - (1 - 4))",
		"5 > 3",
		"2.5 <= 2",
		"7 >= 7",
		"1 + 2 < 2 * 2",
		"3 * 3 = 9",
		"3 * 3 <> 9",
	}

	reference := func(src string) string {
		src = strings.ReplaceAll(src, "<>", "!=")
		src = strings.ReplaceAll(src, " = ", " == ")

		out, err := expr.Eval(src, nil)
		if err != nil {
			t.Fatalf("expr.Eval(%q) error: %v", src, err)
		}

		switch v := out.(type) {
		case int:
			return strconv.Itoa(v)
		case float64:
			return formatFloat(v)
		case bool:
			return strconv.FormatBool(v)
		}

		t.Fatalf("expr.Eval(%q) returned %T", src, out)

		return ""
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := evalString(t, input)
			if err != nil {
				t.Fatalf("eval(%q) error: %v", input, err)
			}

			if want := reference(input); got != want {
				t.Errorf("eval(%q) = %s, reference = %s", input, got, want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want class
	}{
		{token.Lit("3"), classInt},
		{token.Lit("-3"), classInt},
		{token.Lit("3.0"), classFloat},
		{token.Lit("5."), classFloat},
		{token.Lit("99999999999999999999"), classFloat},
		{token.Lit("true"), classBool},
		{token.Lit("null"), classNull},
		{token.Str("3"), classString},
		{token.Lit("inf"), classUndefined},
		{token.Lit("NaN"), classUndefined},
		{token.Lit("1e5"), classUndefined},
		{token.Lit("x"), classUndefined},
		{token.Lit("-"), classUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.tok.String(), func(t *testing.T) {
			if got := classify(tt.tok).class; got != tt.want {
				t.Errorf("classify(%v) = %s, want %s", tt.tok, got, tt.want)
			}
		})
	}
}
