// Package cli contains the command line interface for spoodly.
//
// # Usage
//
// Running a program is the default command:
//
//	spoodly greet.spd
//	spoodly run --result --format json greet.spd
//	echo 'DISPLAY(1 + 2)' | spoodly
//
// The other commands check programs against an expectation, print their
// tokens or syntax tree, start an interactive session, or write the
// configuration file:
//
//	spoodly check --input 3 --expect 'result == "9"' square.spd
//	spoodly tokens greet.spd
//	spoodly ast --format yaml greet.spd
//	spoodly repl
//	spoodly init
//
// # Search Path
//
// A program name that is not a path to an existing file is looked up in the
// directories listed by SPOODLY_PATH (separated like PATH), then in the lib
// directory under the configuration directory.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (e.g. ~/.config/spoodly/config.yaml). Keys are long flag names;
// nested mappings are joined with "-":
//
//	log:
//	  level: debug
//	  pretty: false
//
// Command-line flags override config file values. The init command writes
// the current flag values to this file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o spoodly .
//
// With it, --pprof-mode enables one of the profiles listed in its help and
// --pprof-dir sets the output directory (default ~/.cache/spoodly/pprof).
package cli
