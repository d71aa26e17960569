// Package buildconfig exposes version information set at link time:
//
//	go build -ldflags "-X github.com/Harshitk-cp/geosolve/internal/buildconfig.version=v0.3.0 \
//	  -X github.com/Harshitk-cp/geosolve/internal/buildconfig.commit=$(git rev-parse --short HEAD)"
package buildconfig

import "fmt"

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = ""
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// VersionInfo returns full version information
func VersionInfo() map[string]string {
	info := map[string]string{
		"version": version,
		"commit":  commit,
	}
	if buildDate != "" {
		info["build_date"] = buildDate
	}
	return info
}

// String is the one-line form printed by the CLI.
func String() string {
	if buildDate == "" {
		return fmt.Sprintf("geosolve %s (%s)", version, commit)
	}
	return fmt.Sprintf("geosolve %s (%s, built %s)", version, commit, buildDate)
}
