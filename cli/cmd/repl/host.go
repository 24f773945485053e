package repl

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cedric-h/spoodly/lang"
)

// displayMsg carries text a running program displayed.
type displayMsg struct{ text string }

// promptMsg reports that a running program is waiting on INPUT.
type promptMsg struct{ prompt string }

// doneMsg reports the outcome of a run.
type doneMsg struct {
	value lang.Var
	err   error
}

// chanHost connects the program of the current run to the model. Displayed
// text and prompts travel to the model over events; answers travel back over
// answers.
//
// The model rebinds the host before each run and only once the previous run
// has reported done, so the fields are never accessed concurrently.
type chanHost struct {
	ctx     context.Context
	events  chan<- tea.Msg
	answers <-chan string
}

func (h *chanHost) bind(
	ctx context.Context,
	events chan<- tea.Msg,
	answers <-chan string,
) {
	h.ctx, h.events, h.answers = ctx, events, answers
}

// Display implements [lang.Host].
func (h *chanHost) Display(text string) error {
	select {
	case h.events <- displayMsg{text: text}:
		return nil
	case <-h.ctx.Done():
		return context.Cause(h.ctx)
	}
}

// Input implements [lang.Host]. A closed answers channel is the end of input.
func (h *chanHost) Input(prompt string) (string, error) {
	select {
	case h.events <- promptMsg{prompt: prompt}:
	case <-h.ctx.Done():
		return "", context.Cause(h.ctx)
	}

	select {
	case answer, ok := <-h.answers:
		if !ok {
			return "", lang.ErrEndOfInput
		}

		return answer, nil

	case <-h.ctx.Done():
		return "", context.Cause(h.ctx)
	}
}

// waitFor returns a command that delivers the next event of a run.
func waitFor(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}
