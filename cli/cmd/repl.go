package cmd

import (
	"context"

	"github.com/cedric-h/spoodly/cli/cmd/repl"
	"github.com/cedric-h/spoodly/log"
)

// Repl starts an interactive session. Bindings made by one entry are visible
// to the entries after it.
type Repl struct {
	History bool `default:"true" help:"Persist entry history in the cache directory" negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string

	if r.History {
		if ktx := kongContextFrom(ctx); ktx != nil {
			cacheDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	return repl.Run(ctx, cacheDir, log.Default())
}
