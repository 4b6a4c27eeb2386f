// Package token defines the lexical categories of the language and the
// [Token] values produced by the lexer.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical category of a [Token].
type Kind int

const (
	Invalid Kind = iota

	// Keywords.
	Assign   // var
	Is       // is
	Not      // not
	And      // and
	Or       // or
	In       // in
	If       // if
	Else     // else
	For      // for
	Each     // each
	While    // while
	Loop     // loop
	Function // function

	// Operators.
	Equals      // =
	NotEqual    // <>
	Plus        // +
	Minus       // -
	Mult        // *
	Div         // /
	Mod         // %
	GreaterThan // >
	LessThan    // <
	Gte         // >=
	Lte         // <=

	// Punctuation.
	Quote        // "
	Colon        // :
	Comma        // ,
	OpenParen    // (
	CloseParen   // )
	OpenBracket  // [
	CloseBracket // ]
	OpenBrace    // {
	CloseBrace   // }
	NewLine      // newline

	// Literal carries raw text: numbers, names, and string content.
	Literal
)

var kindName = [...]string{
	Invalid:      "Invalid",
	Assign:       "Assign",
	Is:           "Is",
	Not:          "Not",
	And:          "And",
	Or:           "Or",
	In:           "In",
	If:           "If",
	Else:         "Else",
	For:          "For",
	Each:         "Each",
	While:        "While",
	Loop:         "Loop",
	Function:     "Function",
	Equals:       "Equals",
	NotEqual:     "NotEqual",
	Plus:         "Plus",
	Minus:        "Minus",
	Mult:         "Mult",
	Div:          "Div",
	Mod:          "Mod",
	GreaterThan:  "GreaterThan",
	LessThan:     "LessThan",
	Gte:          "Gte",
	Lte:          "Lte",
	Quote:        "Quote",
	Colon:        "Colon",
	Comma:        "Comma",
	OpenParen:    "OpenParen",
	CloseParen:   "CloseParen",
	OpenBracket:  "OpenBracket",
	CloseBracket: "CloseBracket",
	OpenBrace:    "OpenBrace",
	CloseBrace:   "CloseBrace",
	NewLine:      "NewLine",
	Literal:      "Literal",
}

var kindLexeme = [...]string{
	Assign:       "var",
	Is:           "is",
	Not:          "not",
	And:          "and",
	Or:           "or",
	In:           "in",
	If:           "if",
	Else:         "else",
	For:          "for",
	Each:         "each",
	While:        "while",
	Loop:         "loop",
	Function:     "function",
	Equals:       "=",
	NotEqual:     "<>",
	Plus:         "+",
	Minus:        "-",
	Mult:         "*",
	Div:          "/",
	Mod:          "%",
	GreaterThan:  ">",
	LessThan:     "<",
	Gte:          ">=",
	Lte:          "<=",
	Quote:        `"`,
	Colon:        ":",
	Comma:        ",",
	OpenParen:    "(",
	CloseParen:   ")",
	OpenBracket:  "[",
	CloseBracket: "]",
	OpenBrace:    "{",
	CloseBrace:   "}",
	NewLine:      "\n",
}

// keywords maps reserved words to their kind. The word "mod" is an alias
// for the % operator.
var keywords = map[string]Kind{
	"var":      Assign,
	"is":       Is,
	"not":      Not,
	"and":      And,
	"or":       Or,
	"in":       In,
	"if":       If,
	"else":     Else,
	"for":      For,
	"each":     Each,
	"while":    While,
	"loop":     Loop,
	"function": Function,
	"mod":      Mod,
}

// String returns the name of the kind, e.g. "Plus".
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) && kindName[k] != "" {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Lexeme returns the canonical source spelling of the kind.
// It is empty for [Literal] and [Invalid].
func (k Kind) Lexeme() string {
	if k >= 0 && int(k) < len(kindLexeme) {
		return kindLexeme[k]
	}

	return ""
}

// IsKeyword reports whether k is spelled as a reserved word.
func (k Kind) IsKeyword() bool { return k >= Assign && k <= Function }

// IsStatement reports whether k opens a control-flow statement.
func (k Kind) IsStatement() bool {
	switch k {
	case If, Else, For, Each, While, Loop:
		return true
	default:
		return false
	}
}

// IsBinary reports whether k is an infix operator.
func (k Kind) IsBinary() bool {
	switch k {
	case Equals, NotEqual, Plus, Minus, Mult, Div, Mod,
		GreaterThan, LessThan, Gte, Lte, And, Or, In:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether k is one of + - * / %.
func (k Kind) IsArithmetic() bool { return k >= Plus && k <= Mod }

// IsRelational reports whether k compares two operands numerically.
func (k Kind) IsRelational() bool {
	switch k {
	case Equals, NotEqual, GreaterThan, LessThan, Gte, Lte:
		return true
	default:
		return false
	}
}

// IsLogical reports whether k is a boolean connective.
func (k Kind) IsLogical() bool { return k == And || k == Or }

// Lookup returns the keyword kind for word, or [Literal] if word is not
// reserved.
func Lookup(word string) (Kind, bool) {
	if k, ok := keywords[word]; ok {
		return k, true
	}

	return Literal, false
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for k := Assign; k <= Function; k++ {
		words = append(words, k.Lexeme())
	}

	return append(words, "mod")
}

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte index.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexical unit.
//
// Text holds the payload of a [Literal]. A literal with Quoted set came from
// a string literal and is never interpreted as a number, boolean, or name.
type Token struct {
	Text   string
	Pos    Position
	Kind   Kind
	Quoted bool
}

// Make returns a token of kind k with its canonical spelling.
func Make(k Kind) Token { return Token{Kind: k, Text: k.Lexeme()} }

// Lit returns an unquoted [Literal] token holding text.
func Lit(text string) Token { return Token{Kind: Literal, Text: text} }

// Str returns a quoted [Literal] token holding text.
func Str(text string) Token { return Token{Kind: Literal, Text: text, Quoted: true} }

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsLiteral reports whether t is an unquoted literal.
func (t Token) IsLiteral() bool { return t.Kind == Literal && !t.Quoted }

// Equal reports whether t and u have the same kind, text and quoting,
// ignoring position.
func (t Token) Equal(u Token) bool {
	return t.Kind == u.Kind && t.Text == u.Text && t.Quoted == u.Quoted
}

// String returns source text that lexes back to an equivalent token.
func (t Token) String() string {
	switch {
	case t.Kind == Literal && t.Quoted:
		return `"` + t.Text + `"`
	case t.Kind == Literal:
		return t.Text
	default:
		return t.Kind.Lexeme()
	}
}

// Join renders tokens as space-separated source text.
func Join(tokens []Token) string {
	var sb strings.Builder

	for i, t := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(t.String())
	}

	return sb.String()
}
