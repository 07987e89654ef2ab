package config

import "fmt"

// ModuleName is the name of the Go module, kept in sync with go.mod.
var ModuleName = "github/gather/report-gateway"

// The following vars are typically overridden via -ldflags="-X ..." at build time.
var (
	Commit    = "local"
	BuildDate = "unknown"
)

// GetFormattedBuildArgs returns the build arguments in the format "<module> @ <commit> (<build date>)"
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
