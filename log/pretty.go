package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler. Styles come from a renderer
// bound to the handler's writer, so color is dropped when the writer is not a
// terminal.
type palette struct {
	key, text, number, yes, no, duration, when lipgloss.Style
	levels                                     map[slog.Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:      fg("8"),
		text:     fg("6"),
		number:   fg("3"),
		yes:      fg("2"),
		no:       fg("1"),
		duration: fg("5"),
		when:     fg("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.LevelError: fg("1").Bold(true),
			slog.LevelWarn:  fg("3").Bold(true),
			slog.LevelInfo:  fg("2"),
			slog.LevelDebug: fg("4"),
		},
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	default:
		return p.levels[slog.LevelDebug]
	}
}

// prettyHandler renders records for a human reading a terminal: unquoted
// values colored by kind, either on one line (FormatText) or as an indented
// object (FormatJSON).
type prettyHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	w       io.Writer
	format  Format
	palette palette
	attrs   []slog.Attr
	groups  []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:    *opts,
		mu:      &sync.Mutex{},
		w:       w,
		format:  format,
		palette: makePalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		fields = h.appendAttr(fields, nil, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendAttr(fields, nil, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.groups, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeObject(buf, fields)
	} else {
		h.writeLine(buf, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = h.appendAttr(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// appendAttr resolves a, applies ReplaceAttr, and flattens groups into dotted
// keys.
func (h *prettyHandler) appendAttr(
	dst []slog.Attr,
	groups []string,
	a slog.Attr,
) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			dst = h.appendAttr(dst, sub, ga)
		}

		return dst
	}

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(groups, a)
		if a.Equal(slog.Attr{}) {
			return dst
		}

		a.Value = a.Value.Resolve()
	}

	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}

	return append(dst, a)
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.palette.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a))
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{")

	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.palette.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a))
	}

	buf.WriteString("\n}")
}

func (h *prettyHandler) value(a slog.Attr) string {
	p := h.palette
	v := a.Value

	switch v.Kind() {
	case slog.KindString:
		if a.Key == slog.LevelKey {
			return p.level(slog.Level(ParseLevel(v.String()))).Render(v.String())
		}

		return p.text.Render(v.String())

	case slog.KindInt64:
		return p.number.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return p.number.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return p.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.duration.Render(v.Duration().String())

	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))

	default:
		if level, ok := v.Any().(slog.Level); ok {
			return p.level(level).Render(strings.ToUpper(Level(level).String()))
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(err.Error())
		}

		return p.text.Render(fmt.Sprint(v.Any()))
	}
}
