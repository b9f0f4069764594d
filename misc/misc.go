// Package misc provides the small pieces of build identity (name,
// version, commit) the rest of the program needs for logging and
// reporting, without hard-coding them at every call site.
package misc

import "runtime/debug"

const appName = "tablegrid"

// GetAppName returns the program's name, used for default file names
// (panic logs, temp report files) and the CLI's own name.
func GetAppName() string {
	return appName
}

// GetVersion returns the module version embedded by the Go toolchain
// when built with `go build` from a tagged module, or "(devel)" for a
// local build.
func GetVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns the VCS revision the binary was built from, or
// "unknown" when build info carries none (e.g. `go run`).
func GetGitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
