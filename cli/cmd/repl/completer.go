package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/cedric-h/spoodly/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "builtins", "names", "edit", "reset", "clear", "quit",
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor is not
// touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset falls inside a string literal.
func inString(input string, offset int) bool {
	return strings.Count(input[:offset], `"`)%2 == 1
}

// builtinNames returns the builtins that can be typed as identifiers, which
// excludes the symbolic operators.
func builtinNames() []string {
	return slices.DeleteFunc(lang.Builtins(), func(name string) bool {
		r, _ := utf8.DecodeRuneInString(name)

		return !unicode.IsLetter(r)
	})
}

// programCandidates returns the builtins followed by the names bound in the
// session, without duplicates.
func programCandidates(names []string) []string {
	candidates := builtinNames()

	for _, name := range names {
		if !slices.Contains(candidates, name) {
			candidates = append(candidates, name)
		}
	}

	return candidates
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first) and the word boundaries. An empty
// word or a word inside a string literal has no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	// Completions are withheld while a program runs: the session is in use.
	if word == "" || m.run != nil {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		if inString(input, wordStart) {
			return nil, wordStart, wordEnd
		}

		candidates = programCandidates(m.session.Names())
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Callable builtins are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if _, ok := signature(match.Str); ok {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}
