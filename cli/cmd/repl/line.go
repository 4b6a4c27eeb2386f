package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lsexpr/lang"
)

// ctrlLead introduces a control command in line mode.
const ctrlLead = ":"

// RunLine starts a line-editing REPL on in. It shares history with [Run];
// lines beginning with ":" are control commands. It returns on Ctrl+D, the
// quit command, or ctx cancellation.
func RunLine(ctx context.Context, in *lang.Interpreter, cfg Config, w io.Writer) error {
	history := openHistory(ctx, cfg)

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetTabCompletionStyle(liner.TabPrints)
	ln.SetWordCompleter(wordCompleter(in))

	for _, line := range history.Lines(modeEval) {
		ln.AppendHistory(line)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := ln.Prompt(prompts[modeEval])

		switch {
		case errors.Is(err, io.EOF):
			_, _ = fmt.Fprintln(w)

			return nil

		case errors.Is(err, liner.ErrPromptAborted):
			continue

		case err != nil:
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		ln.AppendHistory(input)

		if handleLine(ctx, in, cfg, history, w, input) {
			return nil
		}
	}
}

// handleLine executes one line of input and writes its output to w. It
// reports whether the session should end.
func handleLine(
	ctx context.Context,
	in *lang.Interpreter,
	cfg Config,
	history *History,
	w io.Writer,
	input string,
) (quit bool) {
	mode := modeEval
	if s, ok := strings.CutPrefix(input, ctrlLead); ok {
		mode, input = modeCtrl, strings.TrimSpace(s)
	}

	if err := history.Write(input, mode); err != nil {
		cfg.Logger.WarnContext(ctx, "could not write history", slog.Any("error", err))
	}

	var (
		out string
		act action
		err error
	)

	if mode == modeCtrl {
		out, act, err = execCommand(in, input)
	} else {
		out, err = cfg.evaluate(ctx, in, input)
	}

	switch {
	case err != nil:
		_, _ = fmt.Fprintln(w, "error: "+lang.Describe(err, "source_line"))

	case act == actionQuit:
		return true

	case act == actionClear:
		_, _ = fmt.Fprint(w, "\033[H\033[2J")

	case out != "":
		_, _ = fmt.Fprintln(w, strings.TrimRight(out, "\n"))
	}

	return false
}

// wordCompleter completes the word under the cursor against the visible
// names and keywords, or against control commands after ":".
func wordCompleter(in *lang.Interpreter) liner.WordCompleter {
	return func(line string, pos int) (head string, completions []string, tail string) {
		// liner reports the cursor in runes.
		if r := []rune(line); pos <= len(r) {
			pos = len(string(r[:pos]))
		}

		word, start, end := wordBounds(line, pos)
		if word == "" || inString(line, start) {
			return line[:pos], nil, line[pos:]
		}

		candidates := evalCandidates(in.Scope())
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line[:start]), ctrlLead); ok && rest == "" {
			candidates = ctrlCommands
		}

		for _, match := range fuzzy.Find(word, candidates) {
			completions = append(completions, match.Str)
		}

		return line[:start], completions, line[end:]
	}
}
