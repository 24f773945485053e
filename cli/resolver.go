package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/cedric-h/spoodly/log"
)

// loadConfig is a [kong.ConfigurationLoader] that reads YAML config files,
// such as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadConfig, "/path/to/config.yaml")
//
// Keys name long flags. Nested mappings are flattened by joining their keys
// with "-", so both of the following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores in keys are read as hyphens. Numbers are passed to kong as
// text. Sequences set repeatable flags.
//
// A file that is not valid YAML is reported and otherwise ignored, so the
// init command can still replace it. Command-line flags override config file
// values.
func loadConfig(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring invalid configuration", slog.Any("error", err))
		}

		return config{}, nil
	}

	conf := config{}
	conf.flatten("", doc)

	return conf, nil
}

// config maps flag names to resolved values.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := val.(type) {
		case map[string]any:
			c.flatten(name, v)
		case map[any]any:
			c.flatten(name, stringKeys(v))
		default:
			c[name] = flagText(v)
		}
	}
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[fmt.Sprint(k)] = v
	}

	return out
}

// flagText converts decoded YAML scalars to the forms kong's mappers accept.
func flagText(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = flagText(elem)
		}

		return out
	default:
		return v
	}
}

// Validate implements kong.Resolver.
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements kong.Resolver.
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if val, ok := c[flag.Name]; ok {
		return val, nil
	}

	return nil, nil
}
