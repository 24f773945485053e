package repl

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
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
		{"after_paren", "DISPLAY(fo", 10, "fo", 8, 10},
		{"after_comma", "DISPLAY(a, fo", 13, "fo", 11, 13},
		{"after_arrow", "x<-fo", 5, "fo", 3, 5},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "total_sum", 9, "total_sum", 0, 9},
		{"digits", "x2 + y10", 8, "y10", 5, 8},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"unicode", "größe", 7, "größe", 0, 7},
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
		{`DISPLAY("na`, 9, true},
		{`DISPLAY("a" + na`, 14, false},
		{`x`, 0, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestBuiltinNames(t *testing.T) {
	names := builtinNames()

	for _, want := range []string{"DISPLAY", "INPUT", "NUMBER", "TEXT", "NOT", "true", "false"} {
		if !slices.Contains(names, want) {
			t.Errorf("builtinNames() missing %q", want)
		}
	}

	for _, symbol := range []string{"+", "-", "*", "/", "^", "="} {
		if slices.Contains(names, symbol) {
			t.Errorf("builtinNames() contains operator %q", symbol)
		}
	}
}

func TestProgramCandidates(t *testing.T) {
	got := programCandidates([]string{"total", "DISPLAY", "name"})

	want := append(builtinNames(), "total", "name")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("programCandidates() mismatch (-want +got):\n%s", diff)
	}
}
