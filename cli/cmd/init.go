package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/cedric-h/spoodly/log"
	"github.com/cedric-h/spoodly/pkg"
	"github.com/cedric-h/spoodly/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := encodeConfig(ctx, configValues(ktx))
	if err != nil {
		return err
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configValues collects the current value of every global flag worth
// persisting, keyed by flag name.
func configValues(ktx *kong.Context) map[string]any {
	skip := []string{"help", "version", profile.Tag}

	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := flagValue(ktx.FlagValue(flag)); v != nil {
			values[flag.Name] = v
		}
	}

	return values
}

// flagValue converts a flag value to a YAML scalar or sequence, or nil if it
// should be omitted.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, int, int64, uint, uint64, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case fmt.Stringer:
		return v.String()

	default:
		// Named string types such as the log level and format.
		if s := fmt.Sprint(v); s != "" {
			return s
		}

		return nil
	}
}

func encodeConfig(ctx context.Context, values map[string]any) ([]byte, error) {
	body, err := yaml.MarshalContext(ctx, values, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return nil, ErrYAMLMarshal.Wrap(err)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s %s configuration\n", pkg.Name, pkg.Version)
	fmt.Fprintln(&buf, "# Keys are flag names; command-line flags take precedence.")
	buf.Write(body)

	return buf.Bytes(), nil
}
