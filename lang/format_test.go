package lang

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingText, false},
		{"text", EncodingText, false},
		{"JSON", EncodingJSON, false},
		{" yaml ", EncodingYAML, false},
		{"yml", EncodingYAML, false},
		{"toml", EncodingText, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEncoding(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if err != nil && !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("ParseEncoding(%q) error = %v, want %v", tt.in, err, ErrInvalidEncoding)
			}

			if got != tt.want {
				t.Errorf("ParseEncoding(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteAST(t *testing.T) {
	tree, err := Parse("s <- 1 + 2\nDISPLAY(s, \"x\")")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("text compact", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAST(t.Context(), &buf, tree, EncodingText, 0); err != nil {
			t.Fatal(err)
		}

		want := "(block (assign s (call + 1 2)) (call DISPLAY s \"x\"))\n"
		if got := buf.String(); got != want {
			t.Errorf("WriteAST() = %q, want %q", got, want)
		}
	})

	t.Run("text indented", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAST(t.Context(), &buf, tree, EncodingText, 2); err != nil {
			t.Fatal(err)
		}

		want := strings.Join([]string{
			"block",
			"  assign s",
			"    call +",
			"      1",
			"      2",
			"  call DISPLAY",
			"    s",
			`    "x"`,
			"",
		}, "\n")
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("WriteAST() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAST(t.Context(), &buf, tree, EncodingJSON, 0); err != nil {
			t.Fatal(err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", buf.String(), err)
		}

		want := map[string]any{
			"type": "block",
			"children": []any{
				map[string]any{
					"type": "assign",
					"name": "s",
					"value": map[string]any{
						"type": "call",
						"name": "+",
						"args": []any{
							map[string]any{"type": "value", "raw": 1.0},
							map[string]any{"type": "value", "raw": 2.0},
						},
					},
				},
				map[string]any{
					"type": "call",
					"name": "DISPLAY",
					"args": []any{
						map[string]any{"type": "var", "name": "s"},
						map[string]any{"type": "value", "raw": "x"},
					},
				},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("WriteAST() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteAST(t.Context(), &buf, tree, EncodingYAML, 2); err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{"type: block", "name: DISPLAY", "type: assign"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("WriteAST() YAML missing %q:\n%s", want, buf.String())
			}
		}
	})
}

func TestWriteTokens(t *testing.T) {
	toks, err := Tokenize("x <- 1")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteTokens(t.Context(), &buf, toks, EncodingText, 0); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(toks) {
		t.Fatalf("WriteTokens() wrote %d lines, want %d", len(lines), len(toks))
	}

	if !strings.Contains(lines[2], "1:1") || !strings.Contains(lines[2], "identifier(x)") {
		t.Errorf("WriteTokens() line 3 = %q", lines[2])
	}

	buf.Reset()

	if err := WriteTokens(t.Context(), &buf, toks, EncodingJSON, 0); err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got[5]["kind"] != "number" || got[5]["number"] != 1.0 {
		t.Errorf("WriteTokens() JSON token 6 = %v", got[5])
	}
}

func TestWriteValue(t *testing.T) {
	tests := []struct {
		name string
		v    Var
		enc  Encoding
		want string
	}{
		{"text number", NewNumber(12), EncodingText, "12\n"},
		{"text list", NewList(NewText("a"), NewNumber(1)), EncodingText, "[\"a\", 1]\n"},
		{"text function", NewFunction(nil), EncodingText, "<function>\n"},
		{"json list", NewList(NewText("a"), NewBool(true)), EncodingJSON, "[\"a\",true]\n"},
		{"json infinity", NewNumber(math.Inf(1)), EncodingJSON, "\"+Inf\"\n"},
		{"json nan in list", NewList(NewNumber(math.NaN()), NewNumber(2)), EncodingJSON, "[\"NaN\",2]\n"},
		{"text infinity", NewNumber(math.Inf(-1)), EncodingText, "-Inf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteValue(t.Context(), &buf, tt.v, tt.enc, 0); err != nil {
				t.Fatal(err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("WriteValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
