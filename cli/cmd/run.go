package cmd

import (
	"context"
	"log/slog"

	"github.com/cedric-h/spoodly/lang"
	"github.com/cedric-h/spoodly/log"
)

// Interpret runs a program. DISPLAY writes lines to standard output and
// INPUT reads lines from standard input, prompting on standard error.
//
// A program read from stdin consumes all of it, so INPUT then reports the
// end of input.
type Interpret struct {
	Program string `arg:"" default:"-"    help:"Program file, a name on the search path, or '-' for stdin" name:"program"`
	Result  bool   `         help:"Print the value of the final statement"                                 short:"r"`
	Format  string `         help:"Encoding of the printed result"                 default:"text" enum:"text,json,yaml" short:"F"`
}

// Run executes the run command.
func (c *Interpret) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	enc, err := lang.ParseEncoding(c.Format)
	if err != nil {
		return err
	}

	path, source, err := readProgram(ctx, c.Program)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)

	v, err := interpret(ctx, path, source, lang.NewStreamHost(s.In, s.Out, s.Err))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "program finished",
		slog.String("program", path),
		slog.String("result", v.String()),
	)

	if !c.Result {
		return nil
	}

	if err := lang.WriteValue(ctx, s.Out, v, enc, 2); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
