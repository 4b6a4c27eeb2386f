package repl

import (
	"fmt"
	"strings"

	"github.com/ardnew/lsexpr/lang"
)

// action is a side effect requested by a control command.
type action int

const (
	actionNone action = iota
	actionClear
	actionQuit
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "scope", "clear", "quit"}

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  list          List bindings in every frame, innermost first
  scope push    Enter a new frame
  scope pop     Discard the innermost frame
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type a statement to evaluate it; "var x is 1" binds x in the current frame
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// execCommand runs one control command against in and returns the text to
// print and any action the caller must perform.
func execCommand(in *lang.Interpreter, input string) (string, action, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", actionNone, nil
	}

	switch parts[0] {
	case "q", "quit", "exit":
		return "", actionQuit, nil

	case "h", "help", "?":
		return helpMessage(), actionNone, nil

	case "l", "list":
		return listBindings(in.Scope()), actionNone, nil

	case "c", "clear":
		return "", actionClear, nil

	case "s", "scope":
		return scopeCommand(in.Scope(), parts[1:])

	case "push", "pop":
		return scopeCommand(in.Scope(), parts)
	}

	return "", actionNone, fmt.Errorf("%w: %s (try 'help')", ErrUnknownCommand, parts[0])
}

func scopeCommand(s *lang.Scope, args []string) (string, action, error) {
	if len(args) != 1 {
		return "", actionNone, fmt.Errorf("%w: scope push|pop", ErrUsage)
	}

	switch args[0] {
	case "push":
		s.Push()

	case "pop":
		if err := s.Pop(); err != nil {
			return "", actionNone, err
		}

	default:
		return "", actionNone, fmt.Errorf("%w: scope push|pop", ErrUsage)
	}

	return fmt.Sprintf("depth %d", s.Depth()), actionNone, nil
}

// listBindings renders every frame of s, innermost first, one binding per
// line with a short preview of its value.
func listBindings(s *lang.Scope) string {
	var b strings.Builder

	for depth, bindings := range s.Frames() {
		fmt.Fprintf(&b, "frame %d\n", depth)

		for _, bind := range bindings {
			fmt.Fprintf(&b, "  %s %s\n", bind.Name, theme.hint.Render(preview(bind.Value)))
		}
	}

	return b.String()
}

// previewWidth bounds the length of a listed value.
const previewWidth = 40

func preview(v *lang.Value) string {
	if v == nil {
		return "<nil>"
	}

	src := v.String()
	if len(src) > previewWidth {
		return src[:previewWidth-3] + "..."
	}

	return src
}
