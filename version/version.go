// Package version reports build information for the vivadoc binary.
package version

import (
	"runtime"
	"runtime/debug"
)

// Set via -ldflags "-X go.jacobcolvin.com/vivadoc/version.Version=...".
var (
	Version   = "dev"
	BuildDate string
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"             yaml:"version"`
	Revision  string `json:"revision"            yaml:"revision"`
	BuildDate string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"           yaml:"goVersion"`
	Platform  string `json:"platform"            yaml:"platform"`
}

// Get returns the [Info] of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Revision:  revision(),
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// revision reads the VCS revision embedded by the Go toolchain, marking
// builds from a modified tree with "-dirty".
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	rev := "unknown"
	dirty := false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
