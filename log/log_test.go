package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	}, opts...)...)
}

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}

		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON record %q: %v", line, err)
		}

		records = append(records, m)
	}

	return records
}

func TestLogger_Make_Defaults(t *testing.T) {
	logger := Make(nil)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}

	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}

	if logger.caller {
		t.Error("caller enabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithLevel(LevelWarn))

	logger.Trace("trace")
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	records := decode(t, &buf)
	if len(records) != 2 {
		t.Fatalf("logged %d records, want 2: %v", len(records), records)
	}

	for i, want := range []string{"WARN", "ERROR"} {
		if got := records[i]["level"]; got != want {
			t.Errorf("record %d level = %v, want %v", i, got, want)
		}
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithLevel(LevelTrace)).Trace("deep", slog.Int("n", 3))

	records := decode(t, &buf)
	if len(records) != 1 {
		t.Fatalf("logged %d records, want 1", len(records))
	}

	if got := records[0]["level"]; got != "TRACE" {
		t.Errorf("level = %v, want TRACE", got)
	}

	if got := records[0]["n"]; got != 3.0 {
		t.Errorf("n = %v, want 3", got)
	}

	if _, ok := records[0]["time"]; ok {
		t.Error("time present with layout none")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithCaller(true)).Info("here")

	records := decode(t, &buf)

	src, ok := records[0]["source"].(map[string]any)
	if !ok {
		t.Fatalf("source = %v", records[0]["source"])
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %v, want log_test.go", src["file"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf).With(slog.String("component", "lexer"))
	logger.Info("ready")

	records := decode(t, &buf)
	if got := records[0]["component"]; got != "lexer" {
		t.Errorf("component = %v, want lexer", got)
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := plain(&buf)
	wrapped := base.Wrap(WithLevel(LevelDebug))

	base.Debug("hidden")
	wrapped.Debug("shown")

	records := decode(t, &buf)
	if len(records) != 1 || records[0]["msg"] != "shown" {
		t.Errorf("records = %v, want only %q", records, "shown")
	}

	if base.Level() != LevelInfo {
		t.Errorf("Wrap changed base level to %v", base.Level())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var logger Logger

	logger.Trace("x")
	logger.Info("x")
	logger.ErrorContext(context.Background(), "x")
	logger = logger.With(slog.String("k", "v"))
	logger.Warn("x")

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Wrap(WithLevel(LevelDebug)).Level() != LevelDebug {
		t.Error("Wrap on zero logger ignored options")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	var mu sync.Mutex

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithFormat(FormatJSON), WithPretty(false))

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if got := len(decode(t, &buf)); got != 20 {
		t.Errorf("logged %d records, want 20", got)
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none")).
		With(slog.Group("scope", slog.Int("depth", 2)))
	logger.Warn("odd input",
		slog.String("char", ";"),
		slog.Bool("skipped", true),
		slog.Any("error", errors.New("boom")))

	// The buffer is not a terminal, so no color is emitted.
	want := `level=WARN msg=odd input scope.depth=2 char=; skipped=true error=boom` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none")).
		Info("done", slog.Int("count", 4))

	want := "{\n  level: INFO,\n  msg: done,\n  count: 4\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
