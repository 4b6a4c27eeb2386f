package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lsexpr/lang"
	"github.com/ardnew/lsexpr/lang/token"
)

// wordBreaks holds the runes that end a completion word: blanks plus every
// operator and punctuation rune of the language.
const wordBreaks = " \t()[]{}+-*/%<>=,:\""

// wordBounds returns the word around cursor and its byte span in input. The
// word is empty when the cursor sits between two breaks.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = strings.LastIndexAny(input[:cursor], wordBreaks) + 1

	end = len(input)
	if i := strings.IndexAny(input[cursor:], wordBreaks); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside an open string literal.
func inString(input string, offset int) bool {
	return strings.Count(input[:offset], `"`)%2 == 1
}

// evalCandidates returns the visible names of s followed by the keywords. A
// name shadowing a keyword cannot occur since keywords are never bindable.
func evalCandidates(s *lang.Scope) []string {
	return append(s.Names(), token.Keywords()...)
}

// completion is the completion state of the word under the cursor.
type completion struct {
	matches    fuzzy.Matches // ranked best-first
	start, end int           // byte span of the word in the input
	sel        int           // selected match while cycling, else -1
	cycling    bool
	orig       snapshot // input before cycling began
}

// complete ranks the candidates of the current mode against the word at the
// cursor. An empty word, or one inside a string literal, has no matches.
func (m model) complete() completion {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	c := completion{start: start, end: end, sel: -1}

	switch {
	case word == "":
	case m.mode == modeCtrl:
		c.matches = fuzzy.Find(word, ctrlCommands)
	case !inString(input, start):
		c.matches = fuzzy.Find(word, evalCandidates(m.in.Scope()))
	}

	return c
}

// candidateStyles holds the plain and highlighted styles of a candidate,
// indexed by whether it is selected.
var candidateStyles = [2]struct{ plain, hit lipgloss.Style }{
	{
		plain: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		hit:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	},
	{
		plain: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4")),
		hit: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4")).
			Bold(true),
	},
}

// bar renders the matches on one line no wider than width, ending in an
// ellipsis when they do not all fit. Function names carry a "()" suffix.
func (c completion) bar(width int, isFunction func(string) bool) string {
	if len(c.matches) == 0 || width <= 0 {
		return ""
	}

	const gap = "  "

	more := theme.hint.Render("...")
	room := width - lipgloss.Width(more)

	var b strings.Builder

	for i, match := range c.matches {
		item := renderCandidate(match, c.cycling && i == c.sel, isFunction(match.Str))
		if i > 0 {
			item = gap + item
		}

		if i > 0 && lipgloss.Width(b.String())+lipgloss.Width(item) > room {
			b.WriteString(gap + more)

			break
		}

		b.WriteString(item)
	}

	return b.String()
}

// renderCandidate renders a match with its matched runes highlighted.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	style := candidateStyles[0]
	if selected {
		style = candidateStyles[1]
	}

	hit := make(map[int]struct{}, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = struct{}{}
	}

	var b strings.Builder

	for i, r := range match.Str {
		if _, ok := hit[i]; ok {
			b.WriteString(style.hit.Render(string(r)))
		} else {
			b.WriteString(style.plain.Render(string(r)))
		}
	}

	if function {
		b.WriteString(style.plain.Render("()"))
	}

	return b.String()
}

// functionIn returns a predicate reporting whether a name is bound to a
// function in s.
func functionIn(s *lang.Scope) func(string) bool {
	return func(name string) bool {
		v, ok := s.Lookup(name)

		return ok && v.Type == lang.TypeFunction
	}
}
