package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"golang.org/x/sync/errgroup"

	"github.com/cedric-h/spoodly/lang"
	"github.com/cedric-h/spoodly/log"
)

// Check interprets programs with scripted input and tests each outcome
// against an expectation.
//
// The expectation is an expr-lang boolean expression over:
//
//	result  the program's value as plain data (number, string, bool, list)
//	output  the lines displayed, in order
//	error   the error message, or nil if the program succeeded
//	ok      error == nil
//
// For example:
//
//	spoodly check --input 3 --expect 'ok && output[-1] == "9"' square.spd
type Check struct {
	Programs []string `arg:"" help:"Program files or names on the search path"   name:"program"`
	Expect   string   `       help:"Condition each outcome must satisfy"           default:"ok"   short:"e"`
	Input    []string `       help:"Answer for each INPUT call, in order"                         short:"i"`
	Jobs     int      `       help:"Programs checked at once (0 is one per CPU)"  default:"0"    short:"j"`
}

// outcome is the expression environment for one program.
type outcome struct {
	Result any      `expr:"result"`
	Output []string `expr:"output"`
	Error  any      `expr:"error"`
	OK     bool     `expr:"ok"`
}

// report is the verdict for one program.
type report struct {
	path   string
	passed bool
	reason string
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	program, err := expr.Compile(c.Expect, expr.Env(outcome{}), expr.AsBool())
	if err != nil {
		return ErrExpectCompile.
			With(slog.String("expect", c.Expect)).
			Wrap(err)
	}

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	reports := make([]report, len(c.Programs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, name := range c.Programs {
		g.Go(func() error {
			reports[i] = c.check(gctx, name, program)

			// A canceled run stops the remaining checks.
			return context.Cause(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	out := streamsFrom(ctx).Out
	failed := 0

	for _, r := range reports {
		if r.passed {
			fmt.Fprintf(out, "ok   %s\n", r.path)

			continue
		}

		failed++

		fmt.Fprintf(out, "FAIL %s: %s\n", r.path, r.reason)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(reports)),
		)
	}

	return nil
}

func (c *Check) check(ctx context.Context, name string, program *vm.Program) report {
	path, source, err := readProgram(ctx, name)
	if err != nil {
		return report{path: name, reason: err.Error()}
	}

	host := lang.NewScriptHost(c.Input...)

	v, err := interpret(ctx, path, source, host)

	env := outcome{
		Result: v.ToNative(),
		Output: host.Output,
		OK:     err == nil,
	}

	if err != nil {
		env.Error = err.Error()
		env.Result = nil
	}

	if env.Output == nil {
		env.Output = []string{}
	}

	got, evalErr := expr.Run(program, env)
	if evalErr != nil {
		return report{path: path, reason: evalErr.Error()}
	}

	passed, _ := got.(bool)

	log.DebugContext(ctx, "checked program",
		slog.String("program", path),
		slog.Bool("passed", passed),
		slog.Int("displayed", len(host.Output)),
	)

	if passed {
		return report{path: path, passed: true}
	}

	reason := fmt.Sprintf("expectation %q not met", c.Expect)
	if err != nil {
		reason += " (error: " + err.Error() + ")"
	}

	return report{path: path, reason: reason}
}
