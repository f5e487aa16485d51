// Package version carries the build metadata stamped into the pdv binary.
package version

import (
	"fmt"
	"runtime"
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

var current = Info{Version: "dev", Commit: "unknown", BuildDate: "unknown"}

// Set records the values passed in by main through -ldflags. Empty values
// keep the defaults.
func Set(v, commit, date string) {
	if v != "" {
		current.Version = v
	}
	if commit != "" {
		current.Commit = commit
	}
	if date != "" {
		current.BuildDate = date
	}
}

// Get returns the build metadata.
func Get() Info {
	info := current
	info.GoVersion = runtime.Version()
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("pdv %s (commit %s, built %s, %s)", i.Version, i.Commit, i.BuildDate, i.GoVersion)
}
