package cmd

import (
	"context"
	"log/slog"

	"github.com/cedric-h/spoodly/lang"
	"github.com/cedric-h/spoodly/log"
)

// dumpFlags are shared by the commands that print a program's structure.
type dumpFlags struct {
	Program string `arg:"" default:"-"    help:"Program file, a name on the search path, or '-' for stdin" name:"program"`
	Format  string `         help:"Output encoding"             default:"text" enum:"text,json,yaml" short:"F"`
	Indent  int    `         help:"Spaces per indentation level" default:"2"                           short:"n"`
}

func (f dumpFlags) load(ctx context.Context) (lang.Encoding, string, string, error) {
	enc, err := lang.ParseEncoding(f.Format)
	if err != nil {
		return enc, "", "", err
	}

	path, source, err := readProgram(ctx, f.Program)

	return enc, path, source, err
}

// Tokens prints the token stream of a program.
type Tokens struct {
	Dump dumpFlags `embed:""`
}

// Run executes the tokens command.
func (c *Tokens) Run(ctx context.Context) error {
	enc, path, source, err := c.Dump.load(ctx)
	if err != nil {
		return err
	}

	toks, err := lang.Tokenize(source, lang.WithLogger(log.Default()))
	if err != nil {
		return ErrInterpret.With(slog.String("program", path)).Wrap(err)
	}

	if err := lang.WriteTokens(ctx, streamsFrom(ctx).Out, toks, enc, c.Dump.Indent); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// AST prints the syntax tree of a program.
type AST struct {
	Dump dumpFlags `embed:""`
}

// Run executes the ast command.
func (c *AST) Run(ctx context.Context) error {
	enc, path, source, err := c.Dump.load(ctx)
	if err != nil {
		return err
	}

	tree, err := lang.Parse(source, lang.WithLogger(log.Default()))
	if err != nil {
		return ErrInterpret.With(slog.String("program", path)).Wrap(err)
	}

	if err := lang.WriteAST(ctx, streamsFrom(ctx).Out, tree, enc, c.Dump.Indent); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
