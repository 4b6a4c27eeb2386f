package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/lang/token"
)

// Lex prints the token stream of its arguments.
type Lex struct {
	Expr []string `arg:"" help:"Source to tokenize. Arguments are joined by newlines." name:"expr"`
}

// Run executes the lex command.
func (l *Lex) Run(ctx context.Context) error {
	out := outputFrom(ctx)

	tokens, err := lang.New(lang.WithCacheSize(0)).Lex(strings.Join(l.Expr, "\n"))
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "lex"))
	}

	if out.Format == FormatNative || out.Format == "" {
		return lang.FormatTokens(out.W, tokens)
	}

	return out.Write(ctx, tokenArray(tokens))
}

// Postfix prints the postfix form of each line of its arguments after
// string folding and unary resolution.
type Postfix struct {
	Expr []string `arg:"" help:"Expressions to compile, one per argument." name:"expr"`
}

// Run executes the postfix command.
func (p *Postfix) Run(ctx context.Context) error {
	out := outputFrom(ctx)
	in := lang.New(lang.WithCacheSize(0))

	for i, src := range p.Expr {
		lines, err := compile(in, src)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "postfix"),
				slog.Int("arg", i+1),
			)
		}

		for _, postfix := range lines {
			if out.Format != FormatNative && out.Format != "" {
				if err := out.Write(ctx, tokenArray(postfix)); err != nil {
					return err
				}

				continue
			}

			if _, err := fmt.Fprintln(out.W, token.Join(postfix)); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}
	}

	return nil
}

// compile lexes src and returns the postfix sequence of every non-empty
// line.
func compile(in *lang.Interpreter, src string) ([][]token.Token, error) {
	tokens, err := in.Lex(src)
	if err != nil {
		return nil, err
	}

	var out [][]token.Token

	for _, line := range lang.Lines(tokens) {
		if len(line) == 0 {
			continue
		}

		folded, err := lang.FoldStrings(line)
		if err != nil {
			return nil, err
		}

		resolved, err := lang.ResolveUnary(folded)
		if err != nil {
			return nil, err
		}

		postfix, err := lang.Compile(resolved)
		if err != nil {
			return nil, err
		}

		out = append(out, postfix)
	}

	return out, nil
}

// tokenArray returns tokens as an array of their source spellings.
func tokenArray(tokens []token.Token) *lang.Value {
	elems := make([]*lang.Value, 0, len(tokens))

	for _, tok := range tokens {
		if tok.Kind == token.NewLine {
			continue
		}

		elems = append(elems, lang.NewString(tok.String()))
	}

	return lang.NewArray(elems...)
}
