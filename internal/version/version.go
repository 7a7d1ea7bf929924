// Package version reports build metadata injected with -ldflags:
//
//	go build -ldflags "-X github.com/smazurov/transcodeargs/internal/version.Version=v1.2.0 \
//	  -X github.com/smazurov/transcodeargs/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the build metadata served by /api/version and printed by --version.
type Info struct {
	Version   string `json:"version" example:"v1.2.0" doc:"Release version"`
	GitCommit string `json:"git_commit" example:"3f2a9c1" doc:"Source commit"`
	BuildDate string `json:"build_date" example:"2026-10-17T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"GOOS/GOARCH"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders Info on one line.
func (i Info) String() string {
	return fmt.Sprintf("transcodeargs %s (commit %s, built %s, %s %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
