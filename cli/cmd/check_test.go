package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckRun(t *testing.T) {
	dir := t.TempDir()

	square := writeProgram(t, dir, "square.spd", "n <- NUMBER(INPUT())\nDISPLAY(n ^ 2)")
	broken := writeProgram(t, dir, "broken.spd", "DISPLAY(missing)")
	mismatch := writeProgram(t, dir, "mismatch.spd", "1 + true")

	tests := []struct {
		name      string
		cmd       Check
		wantLines []string
		wantErr   error
	}{
		{
			name: "all pass",
			cmd: Check{
				Programs: []string{square, mismatch},
				Expect:   "ok",
				Input:    []string{"3"},
			},
			wantLines: []string{"ok   " + square, "ok   " + mismatch},
		},
		{
			name: "output expectation",
			cmd: Check{
				Programs: []string{square},
				Expect:   `ok && len(output) == 1 && output[0] == "9" && result == "9"`,
				Input:    []string{"3"},
				Jobs:     1,
			},
			wantLines: []string{"ok   " + square},
		},
		{
			name: "soft failure is a text result",
			cmd: Check{
				Programs: []string{mismatch},
				Expect:   `result startsWith "cannot apply"`,
			},
			wantLines: []string{"ok   " + mismatch},
		},
		{
			name: "expected error",
			cmd: Check{
				Programs: []string{broken},
				Expect:   `!ok && error contains "unknown identifier" && result == nil`,
			},
			wantLines: []string{"ok   " + broken},
		},
		{
			name: "failures reported in order",
			cmd: Check{
				Programs: []string{broken, square},
				Expect:   "ok",
			},
			wantLines: []string{
				"FAIL " + broken + `: expectation "ok" not met`,
				"FAIL " + square + `: expectation "ok" not met`,
			},
			wantErr: ErrCheckFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testStreams(t, "")

			err := tt.cmd.Run(ctx)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			if len(lines) != len(tt.wantLines) {
				t.Fatalf("output = %q, want %d lines", out.String(), len(tt.wantLines))
			}

			for i, want := range tt.wantLines {
				if !strings.HasPrefix(lines[i], want) {
					t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
				}
			}
		})
	}
}

func TestCheckRun_BadExpectation(t *testing.T) {
	for _, expect := range []string{"output +", "1 + 1", "unknown_name"} {
		t.Run(expect, func(t *testing.T) {
			cmd := Check{Programs: []string{"-"}, Expect: expect}

			ctx, _, _ := testStreams(t, "1")
			if err := cmd.Run(ctx); !errors.Is(err, ErrExpectCompile) {
				t.Errorf("Run() error = %v, want %v", err, ErrExpectCompile)
			}
		})
	}
}

func TestCheckRun_MissingProgram(t *testing.T) {
	ctx, out, _ := testStreams(t, "")

	cmd := Check{Programs: []string{"nowhere.spd"}, Expect: "ok"}
	if err := cmd.Run(ctx); !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("Run() error = %v, want %v", err, ErrCheckFailed)
	}

	if !strings.HasPrefix(out.String(), "FAIL nowhere.spd: program not found") {
		t.Errorf("output = %q", out.String())
	}
}
