package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cedric-h/spoodly/lang"
)

func dump(format string, indent int) dumpFlags {
	return dumpFlags{Program: "-", Format: format, Indent: indent}
}

func TestTokensRun(t *testing.T) {
	ctx, out, _ := testStreams(t, "x <- 1")

	cmd := Tokens{Dump: dump("text", 2)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		fields := strings.Fields(line)
		kinds = append(kinds, fields[len(fields)-1])
	}

	want := []string{
		"block-open", "block-open",
		"identifier(x)", "storage-arrow", "block-open", "number(1)", "block-close",
		"block-close", "block-close",
	}

	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokensRun_JSON(t *testing.T) {
	ctx, out, _ := testStreams(t, `"hi"`)

	cmd := Tokens{Dump: dump("json", 0)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var toks []map[string]any
	if err := json.Unmarshal(out.Bytes(), &toks); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if len(toks) != 5 || toks[2]["kind"] != "string-literal" || toks[2]["text"] != "hi" {
		t.Errorf("tokens = %v", toks)
	}
}

func TestASTRun(t *testing.T) {
	ctx, out, _ := testStreams(t, "total <- 2\nDISPLAY(total)")

	cmd := AST{Dump: dump("text", 2)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	got := out.String()

	for _, want := range []string{"block\n", "  assign total\n", "  call DISPLAY\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("AST output missing %q:\n%s", want, got)
		}
	}
}

func TestASTRun_YAML(t *testing.T) {
	ctx, out, _ := testStreams(t, "a <- 1")

	cmd := AST{Dump: dump("yaml", 2)}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, want := range []string{"type: block", "type: assign", "name: a"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("YAML output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDumpRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		format  string
		stdin   string
		wantErr error
	}{
		{"tokens unterminated", "tokens", "text", `"open`, lang.ErrUnterminatedString},
		{"tokens bad format", "tokens", "xml", "1", lang.ErrInvalidEncoding},
		{"ast parse error", "ast", "text", "1 +", lang.ErrMissingOperand},
		{"ast wrapped", "ast", "json", `"open`, ErrInterpret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, _ := testStreams(t, tt.stdin)

			var err error

			switch tt.command {
			case "tokens":
				err = (&Tokens{Dump: dump(tt.format, 2)}).Run(ctx)
			case "ast":
				err = (&AST{Dump: dump(tt.format, 2)}).Run(ctx)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
