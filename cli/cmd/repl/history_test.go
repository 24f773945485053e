package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	adds := []HistoryEntry{
		{"x <- 1", modeProgram},
		{"help", modeCtrl},
		{"DISPLAY(x)", modeProgram},
		{"DISPLAY(x)", modeProgram}, // repeat of the last entry
		{"  ", modeProgram},         // blank
	}

	for _, e := range adds {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error: %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"x <- 1", modeProgram},
		{"help", modeCtrl},
		{"DISPLAY(x)", modeProgram},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "P:x <- 1\nC:help\nP:DISPLAY(x)\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded Entries() mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_MovesDuplicateToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a"} {
		if err := h.Add(line, modeProgram); err != nil {
			t.Fatal(err)
		}
	}

	// Same text in another mode is a different entry.
	if err := h.Add("b", modeCtrl); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"b", modeProgram}, {"a", modeProgram}, {"b", modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "P:b\nP:a\nC:b\n" {
		t.Errorf("history file = %q", got)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := h.Add("1 + 1", modeProgram); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	entry, err := h.Entry(0)
	if err != nil || entry.Line != "1 + 1" {
		t.Errorf("Entry(0) = %+v, %v", entry, err)
	}

	if _, err := h.Entry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestHistory_LoadUnprefixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"plain", modeProgram}, {"quit", modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
