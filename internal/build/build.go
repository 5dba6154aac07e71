// Package build provides build-time information for the CLI application.
// Version is read from VERSION file or set via ldflags during build.
package build

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Values overridden via ldflags:
// -X github.com/tacogips/dottmpl/internal/build.version=x.y.z
// -X github.com/tacogips/dottmpl/internal/build.commit=abc1234
// -X github.com/tacogips/dottmpl/internal/build.date=2026-01-02
var (
	version string
	commit  = "unknown"
	date    = "unknown"
)

// Version returns the application version.
// Priority: ldflags > embedded VERSION file
func Version() string {
	if version != "" {
		return version
	}
	return strings.TrimSpace(embeddedVersion)
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	return commit
}

// Date returns the build date.
func Date() string {
	return date
}
