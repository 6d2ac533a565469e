// Package version reports the carbonfocus build version. The variables are
// set at link time:
//
//	go build -ldflags "-X github.com/rshade/carbonfocus/pkg/version.version=v1.2.3"
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

//nolint:gochecknoglobals // Populated by -ldflags at build time.
var (
	version   = "0.0.0-dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a valid semantic version without
// a prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}

// String returns a one-line description of the build. Versions that are not
// a plain semver release are marked as development builds.
func String() string {
	s := version
	if !IsRelease() {
		s += " (development build)"
	}
	if gitCommit != "" {
		s += fmt.Sprintf(" (commit %s)", gitCommit)
	}
	if buildDate != "" {
		s += fmt.Sprintf(" built %s", buildDate)
	}
	return s
}
