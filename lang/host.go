package lang

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Host is the side channel between a running program and its embedder.
// DISPLAY sends text through Display, and INPUT blocks on Input until the
// host supplies a line.
type Host interface {
	Display(text string) error
	Input(prompt string) (string, error)
}

// StreamHost is a [Host] backed by byte streams. Displayed text is written
// to Out one line per call; input is read from In one line per call, after
// writing the prompt to Prompt if it is not nil.
type StreamHost struct {
	In     *bufio.Reader
	Out    io.Writer
	Prompt io.Writer
}

// NewStreamHost returns a StreamHost reading from in.
func NewStreamHost(in io.Reader, out, prompt io.Writer) *StreamHost {
	return &StreamHost{In: bufio.NewReader(in), Out: out, Prompt: prompt}
}

// Display writes text and a newline to Out.
func (h *StreamHost) Display(text string) error {
	_, err := io.WriteString(h.Out, text+"\n")

	return err
}

// Input writes the prompt and reads one line, without its line ending.
// Reaching the end of In before any character is [ErrEndOfInput].
func (h *StreamHost) Input(prompt string) (string, error) {
	if h.Prompt != nil {
		if _, err := io.WriteString(h.Prompt, prompt+": "); err != nil {
			return "", err
		}
	}

	line, err := h.In.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}

		if line == "" {
			return "", ErrEndOfInput
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// ScriptHost is a [Host] that answers INPUT from a fixed list and records
// everything displayed. The zero value has no inputs.
type ScriptHost struct {
	Inputs  []string // answers, consumed in order
	Prompts []string // prompts received so far
	Output  []string // lines displayed so far
}

// NewScriptHost returns a ScriptHost answering with inputs.
func NewScriptHost(inputs ...string) *ScriptHost {
	return &ScriptHost{Inputs: inputs}
}

// Display records text.
func (h *ScriptHost) Display(text string) error {
	h.Output = append(h.Output, text)

	return nil
}

// Input records prompt and returns the next answer, or [ErrEndOfInput] when
// none remain.
func (h *ScriptHost) Input(prompt string) (string, error) {
	h.Prompts = append(h.Prompts, prompt)

	if len(h.Inputs) == 0 {
		return "", ErrEndOfInput
	}

	text := h.Inputs[0]
	h.Inputs = h.Inputs[1:]

	return text, nil
}
