//go:build !pprof

package cli

import (
	"context"

	"github.com/alecthomas/kong"
)

// pprofConfig is empty when built without the pprof tag.
type pprofConfig struct{}

func (pprofConfig) vars() kong.Vars { return kong.Vars{} }

// group is never shown, since no flag refers to it.
func (pprofConfig) group() kong.Group { return kong.Group{Key: "pprof"} }

func (pprofConfig) start(context.Context) (stop func()) { return func() {} }
