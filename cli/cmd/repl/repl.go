package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lsexpr/lang"
)

// inputMode selects between evaluating statements and control commands.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var prompts = [...]string{
	modeEval: "➜ ",
	modeCtrl: " :",
}

//nolint:gochecknoglobals
var theme = struct {
	prompt                       [2]lipgloss.Style
	input, result, failure, hint lipgloss.Style
}{
	prompt: [...]lipgloss.Style{
		modeEval: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		modeCtrl: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	},
	input:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	result:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

func (mode inputMode) prompt() string {
	return theme.prompt[mode].Render(prompts[mode])
}

// echo renders a submitted line as it appeared at the prompt.
func (mode inputMode) echo(line string) string {
	return mode.prompt() + theme.input.Render(line)
}

// snapshot is the text and cursor of an input line.
type snapshot struct {
	text   string
	cursor int
}

func snap(ti textinput.Model) snapshot {
	return snapshot{text: ti.Value(), cursor: ti.Position()}
}

func (s snapshot) restore(ti *textinput.Model) {
	ti.SetValue(s.text)
	ti.SetCursor(s.cursor)
}

// detour records where Alt+Up/Down command browsing started.
type detour struct {
	mode inputMode
	snapshot
}

// model is the Bubble Tea model of the full-screen REPL.
type model struct {
	ctx      func() context.Context
	in       *lang.Interpreter
	cfg      Config
	input    textinput.Model
	history  *History
	pos      int // history position; history.Len() when editing a new line
	comp     completion
	back     *detour     // non-nil while browsing commands with Alt
	stash    [2]snapshot // input of each mode while the other is active
	mode     inputMode
	width    int
	quitting bool
}

// Run starts the full-screen REPL on in. It returns when the user quits or
// ctx is canceled.
func Run(ctx context.Context, in *lang.Interpreter, cfg Config) error {
	ctx, cancel := context.WithCancelCause(ctx)

	prog := tea.NewProgram(newModel(ctx, in, openHistory(ctx, cfg), cfg), tea.WithContext(ctx))
	_, err := prog.Run()

	cancel(err)

	return err
}

// openHistory loads the persistent history of cfg. Read errors are logged
// and leave the history empty.
func openHistory(ctx context.Context, cfg Config) *History {
	path := cfg.historyPath()

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", path), slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir), slog.Int("history", h.Len()))

	return h
}

const defaultWidth = 80

func newModel(ctx context.Context, in *lang.Interpreter, history *History, cfg Config) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 1024
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:     func() context.Context { return ctx },
		in:      in,
		cfg:     cfg,
		input:   ti,
		history: history,
		pos:     history.Len(),
		comp:    completion{sel: -1},
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.mode.prompt())-1, 1)

		return m, nil
	}

	return m.forward(msg)
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint is the status line under the input: the history position while
// browsing, completions while typing, or usage on an empty line.
func (m model) hint() string {
	if n := m.history.Len(); m.pos < n {
		at := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.pos + 1))

		return theme.hint.Render(fmt.Sprintf("%s/%d", at, n))
	}

	if strings.TrimSpace(m.input.Value()) != "" {
		return m.comp.bar(m.width, functionIn(m.in.Scope()))
	}

	if m.mode == modeCtrl {
		return theme.hint.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
	}

	return theme.hint.Render(fmt.Sprintf(
		"Type a statement or press Esc for commands (depth %d)", m.in.Scope().Depth()))
}

func (m model) key(msg tea.KeyMsg) (model, tea.Cmd) {
	m.cfg.Logger.TraceContext(m.ctx(), "repl keypress",
		slog.String("key", msg.String()), slog.Int("type", int(msg.Type)))

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m.interrupt(msg.Type)

	case tea.KeyEnter:
		return m.enter()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyDown, tea.KeyShiftUp, tea.KeyShiftDown:
		return m.navigate(msg), nil

	case tea.KeyEsc:
		return m.escape(), nil

	case tea.KeyRunes:
		// A space accepts the candidate being cycled.
		if m.comp.cycling && msg.String() == " " {
			m.comp.cycling = false
		}

		var cmd tea.Cmd

		m.pos = m.history.Len()
		m, cmd = m.forward(msg)
		m.refresh(true)

		return m, cmd
	}

	// Deletion and cursor movement never confirm a completion.
	m.comp.cycling = false
	m.back = nil
	m.pos = m.history.Len()
	m, cmd := m.forward(msg)
	m.refresh(false)

	return m, cmd
}

// forward passes msg to the text input.
func (m model) forward(msg tea.Msg) (model, tea.Cmd) {
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// interrupt quits on an empty line. Ctrl+C on a non-empty line clears it.
func (m model) interrupt(k tea.KeyType) (model, tea.Cmd) {
	if m.input.Value() == "" {
		m.quitting = true

		return m, tea.Quit
	}

	if k == tea.KeyCtrlC {
		m.input.SetValue("")
		m.comp.cycling = false
		m.back = nil
		m.pos = m.history.Len()
		m.refresh(false)
	}

	return m, nil
}

// enter submits the line, or locks in the candidate being cycled.
func (m model) enter() (model, tea.Cmd) {
	m.back = nil

	if !m.comp.cycling || len(m.comp.matches) == 0 {
		return m.submit()
	}

	m.comp.cycling = false
	m.refresh(true)

	return m, nil
}

func (m model) escape() model {
	if m.comp.cycling {
		m.comp.cycling = false
		m.comp.orig.restore(&m.input)
		m.refresh(false)

		return m
	}

	m.back = nil

	return m.switchMode(1 - m.mode)
}

// cycle moves the selection by step with wraparound. A lone candidate is
// accepted at once.
func (m model) cycle(step int) model {
	c := &m.comp

	switch n := len(c.matches); {
	case n == 0:
		return m

	case n == 1:
		m.accept(c.matches[0].Str)

		return m

	case c.cycling:
		c.sel = (c.sel + step + n) % n

	default:
		c.cycling, c.orig = true, snap(m.input)

		c.sel = 0
		if step < 0 {
			c.sel = n - 1
		}
	}

	m.replaceWord(c.matches[c.sel].Str)

	return m
}

// replaceWord substitutes s for the word being completed.
func (m *model) replaceWord(s string) {
	text := m.input.Value()
	end := m.comp.start + len(s)

	m.input.SetValue(text[:m.comp.start] + s + text[m.comp.end:])
	m.input.SetCursor(end)

	m.comp.end = end
}

// accept completes the word with s and ends completion.
func (m *model) accept(s string) {
	m.replaceWord(s)
	m.comp.cycling = false
	m.comp.sel = -1
	m.comp.matches = nil
}

// refresh recomputes completions for the input, keeping any cycling state.
// With confirm set, a word that already equals its only candidate is
// accepted.
func (m *model) refresh(confirm bool) {
	next := m.complete()
	if m.comp.cycling {
		next.cycling, next.sel, next.orig = true, m.comp.sel, m.comp.orig
	}

	m.comp = next

	if !confirm || len(next.matches) != 1 {
		return
	}

	if only := next.matches[0].Str; m.input.Value()[next.start:next.end] == only {
		m.accept(only)
	}
}

// submit records the line in history and runs it in the current mode.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	mode := m.mode

	m.stash = [2]snapshot{}
	m.input.SetValue("")

	if err := m.history.Write(line, mode); err != nil {
		m.cfg.Logger.WarnContext(m.ctx(), "could not write history", slog.Any("error", err))
	}

	m.pos = m.history.Len()
	shown := tea.Println(mode.echo(line))

	if mode == modeCtrl {
		return m.command(line, shown)
	}

	m.cfg.Logger.TraceContext(m.ctx(), "repl eval", slog.String("input", line))

	out, err := m.cfg.evaluate(m.ctx(), m.in, line)

	switch {
	case err != nil:
		return m, tea.Sequence(shown, tea.Println(theme.failure.Render("error: "+lang.Describe(err, "source_line"))))
	case out != "":
		return m, tea.Sequence(shown, tea.Println(theme.result.Render(out)))
	}

	return m, shown
}

func (m model) command(line string, shown tea.Cmd) (model, tea.Cmd) {
	m.cfg.Logger.TraceContext(m.ctx(), "repl command", slog.String("input", line))

	out, act, err := execCommand(m.in, line)

	switch {
	case err != nil:
		return m, tea.Sequence(shown, tea.Println(theme.failure.Render(err.Error())))

	case act == actionQuit:
		m.quitting = true

		return m, tea.Sequence(shown, tea.Quit)

	case act == actionClear:
		return m, tea.ClearScreen

	case out != "":
		return m, tea.Sequence(shown, tea.Println(out))
	}

	return m, shown
}

// navigate browses history. Up and Down visit every entry, Shift limits
// them to the current mode and Alt to commands.
func (m model) navigate(msg tea.KeyMsg) model {
	step := 1
	if msg.Type == tea.KeyUp || msg.Type == tea.KeyShiftUp {
		step = -1
	}

	switch {
	case msg.Alt:
		return m.browseCommands(step)
	case msg.Type == tea.KeyShiftUp || msg.Type == tea.KeyShiftDown:
		return m.browseMode(step)
	}

	return m.browse(step)
}

// recall shows history entry i, switching to its mode.
func (m model) recall(i int, e HistoryEntry) model {
	m = m.switchMode(e.Mode)
	m.pos = i
	snapshot{text: e.Line, cursor: len(e.Line)}.restore(&m.input)
	m.refresh(false)

	return m
}

// leave stops browsing and puts s in the input.
func (m model) leave(s snapshot) model {
	m.pos = m.history.Len()
	s.restore(&m.input)
	m.refresh(false)

	return m
}

func (m model) browse(step int) model {
	i := m.pos + step
	if i < 0 {
		return m
	}

	if e, err := m.history.Entry(i); err == nil {
		return m.recall(i, e)
	}

	if step > 0 {
		return m.leave(snapshot{})
	}

	return m
}

// seek finds the nearest entry in mode from the current position toward
// step.
func (m model) seek(mode inputMode, step int) (int, HistoryEntry, bool) {
	for i := m.pos + step; i >= 0 && i < m.history.Len(); i += step {
		if e, err := m.history.Entry(i); err == nil && e.Mode == mode {
			return i, e, true
		}
	}

	return 0, HistoryEntry{}, false
}

func (m model) browseMode(step int) model {
	if i, e, ok := m.seek(m.mode, step); ok {
		return m.recall(i, e)
	}

	if step > 0 && m.pos < m.history.Len() {
		return m.leave(snapshot{})
	}

	return m
}

// browseCommands walks command history from either mode. Running off
// either end returns to the mode and input where browsing began.
func (m model) browseCommands(step int) model {
	if m.back == nil {
		m.back = &detour{mode: m.mode, snapshot: snap(m.input)}
		m = m.switchMode(modeCtrl)
	}

	if i, e, ok := m.seek(modeCtrl, step); ok {
		return m.recall(i, e)
	}

	back := *m.back
	m.back = nil

	return m.switchMode(back.mode).leave(back.snapshot)
}

// switchMode changes mode, stashing the input of the mode being left and
// restoring that of the mode entered.
func (m model) switchMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.stash[m.mode] = snap(m.input)
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.stash[mode].restore(&m.input)
	m.refresh(false)

	return m
}
