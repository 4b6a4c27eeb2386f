package lang

import (
	"log/slog"
	"unicode"

	"github.com/ardnew/lsexpr/lang/token"
)

// StatementKind classifies one line of source.
type StatementKind int

const (
	// StatementEmpty has no tokens.
	StatementEmpty StatementKind = iota
	// StatementExpression evaluates an expression for its value.
	StatementExpression
	// StatementAssignment is "var name is expression".
	StatementAssignment
	// StatementUnsupported opens a control-flow construct that has no
	// evaluation rule.
	StatementUnsupported
)

func (k StatementKind) String() string {
	switch k {
	case StatementEmpty:
		return "empty"
	case StatementExpression:
		return "expression"
	case StatementAssignment:
		return "assignment"
	case StatementUnsupported:
		return "unsupported"
	}

	return "unknown"
}

// Statement is the parsed form of one line.
type Statement struct {
	// Name is the target of an assignment.
	Name string
	// Expr holds the expression tokens of an expression or assignment.
	Expr []token.Token
	// Keyword is the leading token of an unsupported statement.
	Keyword token.Token
	Kind    StatementKind
}

// ParseStatement classifies tokens, which must not contain a newline.
func ParseStatement(tokens []token.Token) (Statement, error) {
	if len(tokens) == 0 {
		return Statement{Kind: StatementEmpty}, nil
	}

	lead := tokens[0]

	switch {
	case lead.Kind.IsStatement():
		return Statement{Kind: StatementUnsupported, Keyword: lead}, nil

	case lead.Kind == token.Assign:
		return parseAssignment(tokens)
	}

	return Statement{Kind: StatementExpression, Expr: tokens}, nil
}

// parseAssignment parses "var" name "is" expression.
func parseAssignment(tokens []token.Token) (Statement, error) {
	malformed := func(tok token.Token, reason string) (Statement, error) {
		return Statement{}, ErrSyntax.WithToken(tok).With(
			slog.String("reason", reason),
			slog.String("expected", "var <name> is <expression>"),
		)
	}

	if len(tokens) < 2 {
		return malformed(tokens[0], "missing name")
	}

	name := tokens[1]
	if name.Kind != token.Literal || name.Quoted || !isName(name.Text) {
		return malformed(name, "invalid name")
	}

	if len(tokens) < 3 || tokens[2].Kind != token.Is {
		return malformed(name, "missing is")
	}

	if len(tokens) < 4 {
		return malformed(tokens[2], "missing expression")
	}

	return Statement{
		Kind: StatementAssignment,
		Name: name.Text,
		Expr: tokens[3:],
	}, nil
}

// isName reports whether s can be bound: an identifier that is not a
// reserved literal.
func isName(s string) bool {
	switch s {
	case "", textTrue, textFalse, textNull:
		return false
	}

	for i, r := range s {
		letter := unicode.IsLetter(r) || r == '_'
		if !letter && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}

	return true
}

// Lines splits a token stream at newlines.
func Lines(tokens []token.Token) [][]token.Token {
	var (
		lines [][]token.Token
		start int
	)

	for i, tok := range tokens {
		if tok.Kind == token.NewLine {
			lines = append(lines, tokens[start:i])
			start = i + 1
		}
	}

	if start < len(tokens) {
		lines = append(lines, tokens[start:])
	}

	return lines
}

// unsupported returns the error for a control-flow statement.
func unsupported(st Statement) error {
	return ErrUndefinedOperator.WithToken(st.Keyword).With(
		slog.String("keyword", st.Keyword.Text),
		slog.String("reason", "not yet supported"),
	)
}
