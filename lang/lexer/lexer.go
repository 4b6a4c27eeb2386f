// Package lexer converts source text into a sequence of [token.Token].
//
// The lexer reads each character exactly once and never backtracks past a
// character boundary, so it terminates on every input. Malformed input is
// reported as an [*Error] carrying the offending position.
//
// A "-" is always its own [token.Minus], so the negative literal "-5"
// lexes as Minus followed by Literal "5". Signs are folded back into
// literals after lexing, once operand position is known.
package lexer

import (
	"iter"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/lsexpr/lang/token"
)

// Error describes a lexical failure at a source position.
type Error struct {
	Msg string
	Pos token.Position
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// Lexer holds the scanning state for one source text.
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int

	// pending holds tokens already scanned but not yet returned, used when a
	// single scan step yields more than one token (quoted strings).
	pending []token.Token
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{input: []byte(src), line: 1, col: 1}
}

// Lex scans all of src and returns its tokens.
func Lex(src string) ([]token.Token, error) {
	var out []token.Token

	for tok, err := range New(src).All() {
		if err != nil {
			return nil, err
		}

		out = append(out, tok)
	}

	return out, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, ok, err := l.Next()
			if err != nil {
				yield(token.Token{}, err)

				return
			}

			if !ok || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token. It returns false at end of input.
func (l *Lexer) Next() (token.Token, bool, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]

		return tok, true, nil
	}

	l.skipBlank()

	if l.eof() {
		return token.Token{}, false, nil
	}

	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '\n':
		l.advance()

		return l.emit(token.NewLine, "\n", pos), true, nil

	case ch == '"':
		return l.scanString(pos)

	case ch == '>' || ch == '<':
		return l.scanRelational(pos), true, nil

	case isDigit(ch):
		return l.emit(token.Literal, l.scanNumber(), pos), true, nil

	case isIdentifierStart(ch):
		word := l.scanWord()
		kind, _ := token.Lookup(word)

		return l.emit(kind, word, pos), true, nil
	}

	if kind, ok := single[ch]; ok {
		l.advance()

		return l.emit(kind, string(ch), pos), true, nil
	}

	return token.Token{}, false, &Error{
		Msg: "unrecognized character " + strconv.QuoteRune(ch),
		Pos: pos,
	}
}

var single = map[rune]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Mult,
	'/': token.Div,
	'%': token.Mod,
	'=': token.Equals,
	'(': token.OpenParen,
	')': token.CloseParen,
	'[': token.OpenBracket,
	']': token.CloseBracket,
	'{': token.OpenBrace,
	'}': token.CloseBrace,
	',': token.Comma,
	':': token.Colon,
}

func (l *Lexer) emit(kind token.Kind, text string, pos token.Position) token.Token {
	return token.Token{Kind: kind, Text: text, Pos: pos}
}

// scanRelational handles > >= < <= and <>.
func (l *Lexer) scanRelational(pos token.Position) token.Token {
	ch := l.peek()
	l.advance()

	next := l.peek()

	switch {
	case ch == '>' && next == '=':
		l.advance()

		return l.emit(token.Gte, ">=", pos)
	case ch == '<' && next == '=':
		l.advance()

		return l.emit(token.Lte, "<=", pos)
	case ch == '<' && next == '>':
		l.advance()

		return l.emit(token.NotEqual, "<>", pos)
	case ch == '>':
		return l.emit(token.GreaterThan, ">", pos)
	default:
		return l.emit(token.LessThan, "<", pos)
	}
}

// scanString emits Quote, the verbatim content as one Literal, and the
// closing Quote. The content may be empty but cannot contain a newline.
func (l *Lexer) scanString(pos token.Position) (token.Token, bool, error) {
	open := l.emit(token.Quote, `"`, pos)
	l.advance()

	start := l.pos
	content := l.position()

	for !l.eof() {
		switch l.peek() {
		case '\n':
			return token.Token{}, false, &Error{
				Msg: "unterminated string",
				Pos: pos,
			}
		case '"':
			text := string(l.input[start:l.pos])
			closing := l.position()
			l.advance()

			l.pending = append(l.pending,
				l.emit(token.Literal, text, content),
				l.emit(token.Quote, `"`, closing),
			)

			return open, true, nil
		}

		l.advance()
	}

	return token.Token{}, false, &Error{Msg: "unterminated string", Pos: pos}
}

// scanNumber consumes digits with at most one decimal point. A second
// decimal point ends the run.
func (l *Lexer) scanNumber() string {
	start := l.pos
	dot := false

	for !l.eof() {
		ch := l.peek()

		switch {
		case isDigit(ch):
		case ch == '.' && !dot:
			dot = true
		default:
			return string(l.input[start:l.pos])
		}

		l.advance()
	}

	return string(l.input[start:l.pos])
}

func (l *Lexer) scanWord() string {
	start := l.pos

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	return string(l.input[start:l.pos])
}

func (l *Lexer) skipBlank() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// isDigit accepts only ASCII digits, the digits numeric literals are
// interpreted with.
func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
