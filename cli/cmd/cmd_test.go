package cmd

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cedric-h/spoodly/lang"
)

// writeProgram creates dir/name holding source and returns its path.
func writeProgram(t *testing.T, dir, name, source string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// testStreams returns a context whose commands read stdin and write to the
// returned buffers.
func testStreams(t *testing.T, stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer

	ctx := WithStreams(t.Context(), Streams{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})

	return ctx, &out, &errOut
}

func TestLocate(t *testing.T) {
	lib := t.TempDir()
	other := t.TempDir()

	inLib := writeProgram(t, lib, "greet.spd", "DISPLAY(1)")
	inOther := writeProgram(t, other, "greet.spd", "DISPLAY(2)")
	writeProgram(t, other, "only.spd", "3")

	ctx := WithSearchPath(t.Context(), []string{lib, other})

	tests := []struct {
		name    string
		program string
		want    string
		wantErr error
	}{
		{"stdin", "-", "-", nil},
		{"absolute", inOther, inOther, nil},
		{"first directory wins", "greet.spd", inLib, nil},
		{"later directory", "only.spd", filepath.Join(other, "only.spd"), nil},
		{"missing", "absent.spd", "", ErrProgramNotFound},
		{"relative path used as given", filepath.Join("sub", "x.spd"), filepath.Join("sub", "x.spd"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locate(ctx, tt.program)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("locate(%q) error = %v, want %v", tt.program, err, tt.wantErr)
				}

				if !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("locate(%q) error = %v, want it to wrap %v",
						tt.program, err, fs.ErrNotExist)
				}

				return
			}

			if err != nil {
				t.Fatalf("locate(%q) error: %v", tt.program, err)
			}

			if got != tt.want {
				t.Errorf("locate(%q) = %q, want %q", tt.program, got, tt.want)
			}
		})
	}
}

func TestReadProgram(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "sum.spd", "1 + 2")

	ctx, _, _ := testStreams(t, "DISPLAY(4)")

	if _, source, err := readProgram(ctx, path); err != nil || source != "1 + 2" {
		t.Errorf("readProgram(file) = %q, %v", source, err)
	}

	if p, source, err := readProgram(ctx, "-"); err != nil || p != "-" || source != "DISPLAY(4)" {
		t.Errorf("readProgram(stdin) = %q, %q, %v", p, source, err)
	}

	_, _, err := readProgram(ctx, filepath.Join(dir, "missing.spd"))
	if !errors.Is(err, ErrReadProgram) {
		t.Errorf("readProgram(missing) error = %v, want %v", err, ErrReadProgram)
	}

	binary := writeProgram(t, dir, "binary.spd", "DISPLAY(\"\xff\")")

	_, _, err = readProgram(ctx, binary)
	if !errors.Is(err, ErrReadProgram) || !errors.Is(err, lang.ErrInvalidEncoding) {
		t.Errorf("readProgram(binary) error = %v, want %v", err, lang.ErrInvalidEncoding)
	}
}

func TestStreamsFromDefaults(t *testing.T) {
	s := streamsFrom(t.Context())

	if s.In != os.Stdin || s.Out != os.Stdout || s.Err != os.Stderr {
		t.Error("streamsFrom() without streams should use the process streams")
	}
}

func TestError(t *testing.T) {
	err := ErrReadProgram.With().Wrap(fs.ErrPermission)

	if !errors.Is(err, ErrReadProgram) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrInterpret) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("derived error does not match its cause")
	}

	if got, want := err.Error(), "read program: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
