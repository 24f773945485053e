package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cedric-h/spoodly/lang"
	"github.com/cedric-h/spoodly/log"
)

// editDoneMsg is sent when an edited program parsed successfully.
type editDoneMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit ended with an error, including a
// declined re-edit.
type editErrorMsg struct{ err error }

const (
	programPrompt = "➜ "
	ctrlPrompt    = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help      Print this message
  builtins  List builtin names and signatures
  names     List names bound in this session
  edit      Edit the last program in $EDITOR and run it
  reset     Forget every name bound in this session
  clear     Clear screen
  quit      Exit REPL

Usage:
  Type a statement to run it; names you assign persist between entries
  A program waiting on INPUT shows its prompt; type the answer and press Enter
  Press Ctrl+D while answering to send end of input
  Press Ctrl+C to interrupt a running program
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between program and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeProgram inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	answerPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	outputStyle     = lipgloss.NewStyle()
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the program echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(programPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// formatAnswer formats the echo of an answer given to INPUT.
func formatAnswer(prompt, answer string) string {
	return answerPromptStyle.Render(prompt+": ") + inputStyle.Render(answer)
}

// runState tracks the program currently running, if any.
type runState struct {
	events    chan tea.Msg
	answers   chan string
	cancel    context.CancelCauseFunc
	prompt    string // prompt of the pending INPUT call
	asking    bool
	eof       bool
	displayed int
}

// endInput closes the answers channel once.
func (r *runState) endInput() {
	if !r.eof {
		r.eof = true
		close(r.answers)
	}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx           context.Context
	session       *lang.Session
	host          *chanHost
	run           *runState
	lastSource    string
	input         textinput.Model
	logger        log.Logger
	history       *History
	historyIdx    int
	matches       fuzzy.Matches // current fuzzy match results
	wordStart     int           // byte offset of current word start
	wordEnd       int           // byte offset of current word end
	suggIdx       int           // selected candidate index
	tabActive     bool          // whether user is tab-cycling
	preTabText    string        // input text before tab-cycling began
	preTabCursor  int           // cursor position before tab-cycling began
	width         int           // terminal width for ellipsization
	quitting      bool
	mode          inputMode
	programText   string
	programCursor int
	ctrlText      string
	ctrlCursor    int
}

// Run starts the REPL. History is persisted in cacheDir, or kept in memory
// if cacheDir is empty.
func Run(ctx context.Context, cacheDir string, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, history *History, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(programPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	m := model{
		ctx:        ctx,
		host:       &chanHost{},
		input:      ti,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeProgram,
		suggIdx:    -1,
	}

	return m.resetSession()
}

// resetSession discards every binding made so far.
func (m model) resetSession() model {
	m.session = lang.NewSession(lang.Std(m.host), lang.WithLogger(m.logger))

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.run != nil {
			return m.handleRunKey(msg)
		}

		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(programPrompt) - 2

		return m, nil

	case displayMsg:
		if m.run == nil {
			return m, nil
		}

		m.run.displayed++

		return m, tea.Sequence(
			tea.Println(outputStyle.Render(msg.text)),
			waitFor(m.run.events),
		)

	case promptMsg:
		if m.run == nil {
			return m, nil
		}

		// After end of input the host answers every prompt itself.
		if m.run.eof {
			return m, waitFor(m.run.events)
		}

		m.run.asking = true
		m.run.prompt = msg.prompt
		m.input.Prompt = answerPromptStyle.Render(msg.prompt + ": ")
		m.input.SetValue("")

		return m, waitFor(m.run.events)

	case doneMsg:
		return m.finish(msg)

	case editDoneMsg:
		var launch tea.Cmd

		m, launch = m.start(msg.source)

		return m, tea.Sequence(tea.Println(formatCommand("edit")), launch)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.run != nil && !m.run.asking {
		return hintStyle.Render("running (Ctrl+C to interrupt)") + "\n"
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.run != nil:
		b.WriteString(hintStyle.Render("Answer INPUT (Ctrl+D sends end of input)"))

	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		if m.mode == modeProgram {
			b.WriteString(hintStyle.Render("Type a statement or press Esc for commands"))
		} else {
			b.WriteString(hintStyle.Render(
				"Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"))
		}

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case call.inCall && m.mode == modeProgram:
		if params, ok := signature(call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

// handleRunKey handles keys while a program runs. Keys only reach the input
// while the program waits on INPUT.
func (m model) handleRunKey(msg tea.KeyMsg) (model, tea.Cmd) {
	r := m.run

	switch msg.Type {
	case tea.KeyCtrlC:
		r.cancel(ErrInterrupted)

		return m, nil

	case tea.KeyCtrlD:
		if r.asking {
			r.asking = false
			r.endInput()
			m.input.SetValue("")
		}

		return m, nil

	case tea.KeyEnter:
		if !r.asking {
			return m, nil
		}

		answer := m.input.Value()

		r.asking = false
		r.answers <- answer

		m.input.SetValue("")

		return m, tea.Println(formatAnswer(r.prompt, answer))
	}

	if !r.asking {
		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// start runs source in the session. The returned command launches the
// program on its own goroutine, which reports back through the events of
// a new run.
func (m model) start(source string) (model, tea.Cmd) {
	ctx, cancel := context.WithCancelCause(m.ctx)

	r := &runState{
		events:  make(chan tea.Msg),
		answers: make(chan string, 1),
		cancel:  cancel,
	}

	m.run = r
	m.lastSource = source
	m.matches = nil
	m.host.bind(ctx, r.events, r.answers)

	m.logger.TraceContext(m.ctx, "repl run", slog.String("source", source))

	session, done := m.session, m.ctx.Done()

	launch := func() tea.Msg {
		go func() {
			v, err := session.Run(ctx, source)

			select {
			case r.events <- doneMsg{value: v, err: err}:
			case <-done:
			}
		}()

		return <-r.events
	}

	return m, launch
}

// finish reports the outcome of the run that ended. The final value is
// printed only if the program displayed nothing, since DISPLAY already
// yields the text it shows.
func (m model) finish(msg doneMsg) (model, tea.Cmd) {
	r := m.run
	if r == nil {
		return m, nil
	}

	r.cancel(nil)

	m.run = nil
	m = m.restorePrompt()

	if msg.err != nil {
		m.logger.TraceContext(m.ctx, "repl run failed", slog.Any("error", msg.err))

		if errors.Is(msg.err, ErrInterrupted) {
			return m, tea.Println(errorStyle.Render("interrupted"))
		}

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	if r.displayed > 0 || (msg.value.Kind == lang.KindList && len(msg.value.List) == 0) {
		return m, nil
	}

	text, err := msg.value.Display()
	if err != nil {
		text = msg.value.String()
	}

	return m, tea.Println(resultStyle.Render(text))
}

// restorePrompt sets the prompt of the current mode.
func (m model) restorePrompt() model {
	if m.mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(programPrompt)
	}

	return m
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1, false)

	case tea.KeyDown:
		return m.historyMove(1, false)

	case tea.KeyShiftUp:
		return m.historyMove(-1, true)

	case tea.KeyShiftDown:
		return m.historyMove(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeProgram {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeProgram), nil

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling and keeps the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around the candidates.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	n := len(m.matches)

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step > 0:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = n - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.programText, m.programCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m, launch := m.start(input)

	return m, tea.Sequence(tea.Println(formatCommand(input)), launch)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "b", "builtins":
		return m, tea.Sequence(echo, tea.Println(listBuiltins()))

	case "n", "names":
		return m, tea.Sequence(echo, tea.Println(m.listNames()))

	case "r", "reset":
		return m.resetSession(), tea.Sequence(echo,
			tea.Println(hintStyle.Render("session reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:    m.ctx,
		draft:  m.lastSource + "\n",
		logger: m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.source == "" {
			return editCancelledMsg{}
		}

		return editDoneMsg{source: cmd.source}
	})
}

// listBuiltins renders every builtin, with its signature when callable.
func listBuiltins() string {
	var b strings.Builder

	for _, name := range lang.Builtins() {
		if params, ok := signature(name); ok {
			name = formatSignature(name, params)
		}

		b.WriteString("  " + name + "\n")
	}

	return b.String()
}

// listNames renders the session bindings with their values.
func (m model) listNames() string {
	names := m.session.Names()
	if len(names) == 0 {
		return hintStyle.Render("  no names bound")
	}

	var b strings.Builder

	for _, name := range names {
		v, err := m.session.Lookup(name)
		if err != nil {
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(v.String()))
	}

	return b.String()
}

// historyMove steps through history by step. Unless sameMode is set,
// recalling an entry switches to the mode it was entered in.
func (m model) historyMove(step int, sameMode bool) (model, tea.Cmd) {
	n := m.history.Len()

	for i := m.historyIdx + step; i >= 0 && i < n; i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	// Moving past the newest entry returns to an empty line.
	if step > 0 && m.historyIdx < n {
		m.historyIdx = n
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// switchToMode switches to the specified mode, preserving the input of
// each mode.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeProgram {
		m.programText, m.programCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m = m.restorePrompt()

	if mode == modeProgram {
		m.input.SetValue(m.programText)
		m.input.SetCursor(m.programCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
