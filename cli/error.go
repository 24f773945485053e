package cli

import "github.com/cedric-h/spoodly/cli/cmd"

var ErrMkdir = cmd.NewError("create directory")
