package common

import (
	"github.com/ternarybob/banner"
)

// Version information (set via -ldflags during build)
var (
	Version   = "dev"
	Build     = "unknown"
	GitCommit = "unknown"
)

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// PrintBanner displays the application banner
func PrintBanner(version string) {
	banner.PrintSimple("Colligo", version)
}
