package cli

import (
	"os"
	"path/filepath"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/cedric-h/spoodly/pkg"
)

const (
	// baseConfig is the name of the configuration file.
	baseConfig = "config.yaml"

	// baseLib is the name of the directory, under the configuration
	// directory, that is always on the program search path.
	baseLib = "lib"
)

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// cacheDir returns the cache directory path used for transient files.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return ErrMkdir.Wrap(err).With(slog.String("path", dir))
		}
	}

	return nil
}

// searchPathEnv returns the name of the environment variable listing extra
// program directories, e.g. SPOODLY_PATH.
func searchPathEnv() string {
	return strings.ToUpper(basePrefix()) + "_PATH"
}

// searchPath returns the directories searched for program names: the
// entries of list, a string separated by [os.PathListSeparator], followed by
// those of base. Entries that are not existing directories are dropped, as
// are repeats.
func searchPath(list string, base ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(strings.Join(base, string(os.PathListSeparator))),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(filepath.SplitList(list)...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(joined)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
