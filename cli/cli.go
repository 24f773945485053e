package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/cedric-h/spoodly/cli/cmd"
	"github.com/cedric-h/spoodly/log"
	"github.com/cedric-h/spoodly/pkg"
)

// CLI is the top-level command-line interface for spoodly.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Run    cmd.Interpret `cmd:"" default:"withargs" help:"Run a program"`
	Check  cmd.Check     `cmd:""                    help:"Run programs and test their outcomes"`
	Tokens cmd.Tokens    `cmd:""                    help:"Print the tokens of a program"`
	AST    cmd.AST       `cmd:""                    help:"Print the syntax tree of a program" name:"ast"`
	Repl   cmd.Repl      `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init      `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the spoodly CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(loadConfig, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	dirs := searchPath(os.Getenv(searchPathEnv()), configPath(baseLib))

	log.DebugContext(ctx, "search path",
		slog.String("env", searchPathEnv()),
		slog.Any("dirs", dirs),
	)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearchPath(ctx, dirs)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
