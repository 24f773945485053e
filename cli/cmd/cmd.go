package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/alecthomas/kong"

	"github.com/cedric-h/spoodly/lang"
	"github.com/cedric-h/spoodly/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use s in place of
// the process's standard streams. Nil fields keep the process default.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

type searchPathKey struct{}

// WithSearchPath returns a new context.Context in which program names that
// are not found relative to the working directory are looked up in dirs, in
// order.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// stdinSource is the special program name for reading from stdin.
const stdinSource = "-"

// locate resolves a program name to a path. Names containing a directory
// separator, and names that exist relative to the working directory, are
// used as given. Other names are looked up in the search path.
func locate(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		return name, nil
	}

	if isFile(name) || filepath.IsAbs(name) || filepath.Base(name) != name {
		return name, nil
	}

	for _, dir := range searchPathFrom(ctx) {
		path := filepath.Join(dir, name)
		if isFile(path) {
			log.TraceContext(ctx, "located program",
				slog.String("name", name),
				slog.String("path", path),
			)

			return path, nil
		}
	}

	return "", ErrProgramNotFound.
		With(slog.String("name", name)).
		Wrap(fs.ErrNotExist)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// readProgram locates and reads a program. It returns the resolved path
// along with the source.
func readProgram(ctx context.Context, name string) (path, source string, err error) {
	path, err = locate(ctx, name)
	if err != nil {
		return "", "", err
	}

	var data []byte

	if path == stdinSource {
		data, err = io.ReadAll(streamsFrom(ctx).In)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", "", ErrReadProgram.
			With(slog.String("path", path)).
			Wrap(err)
	}

	if !utf8.Valid(data) {
		return "", "", ErrReadProgram.
			With(slog.String("path", path)).
			Wrap(lang.ErrInvalidEncoding)
	}

	return path, string(data), nil
}

// interpret runs source against the standard library bound to host.
func interpret(
	ctx context.Context,
	path, source string,
	host lang.Host,
) (lang.Var, error) {
	logger := log.With(slog.String("program", path))

	v, err := lang.Interpret(ctx, source, lang.Std(host), lang.WithLogger(logger))
	if err != nil {
		if errors.Is(err, lang.ErrCanceled) {
			return v, err
		}

		return v, ErrInterpret.With(slog.String("program", path)).Wrap(err)
	}

	return v, nil
}
