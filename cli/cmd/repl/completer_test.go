package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lsexpr/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "(fo", 3, "fo", 1, 3},
		{"after_bracket", "[1, fo", 6, "fo", 4, 6},
		{"object_key", "{a: fo", 6, "fo", 4, 6},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"keyword_operand", "x mo", 4, "mo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "log_level", 9, "log_level", 0, 9},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"string", `"ab`, 3, "ab", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`x + "ab`, 5, true},
		{`"ab" + x`, 7, false},
		{`x`, 0, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	s := lang.NewScope()
	if err := s.Bind("total", lang.NewNumber("1")); err != nil {
		t.Fatal(err)
	}

	s.Push()

	if err := s.Bind("inner", lang.NewString("x")); err != nil {
		t.Fatal(err)
	}

	got := evalCandidates(s)

	for _, want := range []string{"inner", "total", "var", "is", "mod", "function"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates %v missing %q", got, want)
		}
	}

	if got[0] != "inner" {
		t.Errorf("innermost name not first: %v", got)
	}
}

func TestModel_Complete(t *testing.T) {
	in := lang.New()
	if _, err := in.Exec(t.Context(), "var total is 3"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // best match, "" for none
	}{
		{"name", modeEval, "1 + tot", "total"},
		{"keyword", modeEval, "var x is", "is"},
		{"empty", modeEval, "1 + ", ""},
		{"inside_string", modeEval, `"tot`, ""},
		{"command", modeCtrl, "sco", "scope"},
		{"command_not_name", modeCtrl, "tot", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), in, NewHistory(""), Config{})
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			c := m.complete()

			got := ""
			if len(c.matches) > 0 {
				got = c.matches[0].Str
			}

			if got != tt.want {
				t.Errorf("best match for %q = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFunctionIn(t *testing.T) {
	in := lang.New()
	if _, err := in.Exec(t.Context(), "var f is function(a) { a }\nvar n is 1"); err != nil {
		t.Fatal(err)
	}

	isFunction := functionIn(in.Scope())

	if !isFunction("f") {
		t.Error("f not reported as a function")
	}

	if isFunction("n") || isFunction("missing") {
		t.Error("non-function reported as a function")
	}
}

func TestCompletion_Bar(t *testing.T) {
	c := completion{matches: fuzzy.Find("a", []string{"alpha", "beta", "gamma", "delta"}), sel: -1}
	never := func(string) bool { return false }

	if c.bar(0, never) != "" || (completion{}).bar(80, never) != "" {
		t.Error("bar rendered without room or matches")
	}

	wide := ansi.Strip(c.bar(80, never))
	for _, m := range c.matches {
		if !strings.Contains(wide, m.Str) {
			t.Errorf("wide bar %q lacks %q", wide, m.Str)
		}
	}

	if narrow := ansi.Strip(c.bar(12, never)); !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar %q not ellipsized", narrow)
	}

	if fn := ansi.Strip(c.bar(80, func(string) bool { return true })); !strings.Contains(fn, "()") {
		t.Errorf("function suffix missing: %q", fn)
	}
}
