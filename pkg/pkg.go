//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded at build time from
// the VERSION file.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It names the configuration
	// and cache directories and prefixes environment variables.
	Name = "spoodly"
	// Description is a short summary used in help output.
	Description = "Pseudocode interpreter"
)
