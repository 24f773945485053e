package repl

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/cedric-h/spoodly/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), NewHistory(""), log.Make(nil))
}

// update applies msg and returns the resulting model.
func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}

	return nm, cmd
}

func typeText(t *testing.T, m model, text string) model {
	t.Helper()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})

	return m
}

// next receives the next event of the running program.
func next(t *testing.T, m model) tea.Msg {
	t.Helper()

	if m.run == nil {
		t.Fatal("no program running")
	}

	return waitFor(m.run.events)()
}

func TestModel_RunWithInput(t *testing.T) {
	m := testModel(t)

	m, launch := m.start("name <- INPUT(\"who\")\nDISPLAY(\"hi\", name)")

	msg := launch()
	if p, ok := msg.(promptMsg); !ok || p.prompt != "who" {
		t.Fatalf("first event = %#v, want prompt", msg)
	}

	m, _ = update(t, m, msg)
	if !m.run.asking {
		t.Fatal("model is not asking after prompt")
	}

	if !strings.Contains(m.View(), "who: ") {
		t.Errorf("View() = %q, want the INPUT prompt", m.View())
	}

	m = typeText(t, m, "Ada")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.run.asking {
		t.Error("model still asking after answer")
	}

	msg = next(t, m)
	if d, ok := msg.(displayMsg); !ok || d.text != "hi Ada" {
		t.Fatalf("event = %#v, want display", msg)
	}

	m, _ = update(t, m, msg)
	if m.run.displayed != 1 {
		t.Errorf("displayed = %d, want 1", m.run.displayed)
	}

	msg = next(t, m)
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("event = %#v, want done", msg)
	}

	m, _ = update(t, m, msg)
	if m.run != nil {
		t.Error("run not cleared after done")
	}

	if diff := cmp.Diff([]string{"name"}, m.session.Names()); diff != "" {
		t.Errorf("session names mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_EndOfInput(t *testing.T) {
	m := testModel(t)

	m, launch := m.start("INPUT()")

	m, _ = update(t, m, launch())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})

	msg := next(t, m)

	done, ok := msg.(doneMsg)
	if !ok {
		t.Fatalf("event = %#v, want done", msg)
	}

	if done.err == nil {
		t.Error("done without error after end of input")
	}
}

func TestModel_Interrupt(t *testing.T) {
	m := testModel(t)

	m, launch := m.start("INPUT()")

	m, _ = update(t, m, launch())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	msg := next(t, m)

	done, ok := msg.(doneMsg)
	if !ok {
		t.Fatalf("event = %#v, want done", msg)
	}

	if !errors.Is(done.err, ErrInterrupted) {
		t.Errorf("done error = %v, want %v", done.err, ErrInterrupted)
	}
}

func TestModel_ToggleModePreservesInput(t *testing.T) {
	m := testModel(t)

	m = typeText(t, m, "x <- 1")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode %v, input %q", m.mode, m.input.Value())
	}

	m = typeText(t, m, "he")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeProgram || m.input.Value() != "x <- 1" {
		t.Errorf("after second Esc: mode %v, input %q", m.mode, m.input.Value())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.input.Value() != "he" {
		t.Errorf("command input = %q, want %q", m.input.Value(), "he")
	}
}

func TestModel_Completion(t *testing.T) {
	m := testModel(t)

	m = typeText(t, m, "DISP")
	if len(m.matches) == 0 || m.matches[0].Str != "DISPLAY" {
		t.Fatalf("matches = %v, want DISPLAY first", m.matches)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); !strings.HasPrefix(got, "DISPLAY") {
		t.Errorf("input after Tab = %q", got)
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"x <- 1", modeProgram},
		{"names", modeCtrl},
		{"x + 1", modeProgram},
	} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		key      tea.KeyType
		wantLine string
		wantMode inputMode
	}{
		{tea.KeyUp, "x + 1", modeProgram},
		{tea.KeyUp, "names", modeCtrl},
		{tea.KeyShiftUp, "names", modeCtrl}, // no older command
		{tea.KeyDown, "x + 1", modeProgram},
		{tea.KeyShiftUp, "x <- 1", modeProgram},
		{tea.KeyShiftDown, "x + 1", modeProgram},
		{tea.KeyDown, "", modeProgram},
	}

	for i, step := range steps {
		m, _ = update(t, m, tea.KeyMsg{Type: step.key})

		if m.input.Value() != step.wantLine || m.mode != step.wantMode {
			t.Errorf("step %d (%v): input %q mode %v, want %q mode %v",
				i, step.key, m.input.Value(), m.mode, step.wantLine, step.wantMode)
		}
	}
}

func TestModel_Commands(t *testing.T) {
	m := testModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = typeText(t, m, "quit")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.quitting || cmd == nil {
		t.Errorf("quit: quitting %v, cmd %v", m.quitting, cmd)
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q", m.View())
	}

	if entries := m.history.Entries(); len(entries) != 1 || entries[0].Mode != modeCtrl {
		t.Errorf("history = %+v, want the quit command", entries)
	}
}

func TestListBuiltins(t *testing.T) {
	got := listBuiltins()

	for _, want := range []string{"DISPLAY(...values)", "INPUT(prompt)", "MOD", "true"} {
		if !strings.Contains(got, want) {
			t.Errorf("listBuiltins() missing %q", want)
		}
	}
}
