package lang

import (
	"sort"

	"github.com/cedric-h/spoodly/log"
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

type config struct {
	logger log.Logger
}

// Option configures an [Evaluator] or a call to [Interpret].
type Option func(*config)

// WithLogger sets the logger that receives trace output from every stage.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
