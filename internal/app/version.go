package app

import "fmt"

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/DDMAL/CantusDB-sub000/internal/app.Version=1.0.0" ./cmd/chantalign
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for the version command
// and startup logs.
func BuildVersion() string {
	return fmt.Sprintf("chantalign %s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
