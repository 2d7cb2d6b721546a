// Package version carries build metadata, set at link time with
// -ldflags "-X github.com/banshee-data/ispcal/internal/version.Version=...".
package version

var (
	// Version is the release of the ispcal tool
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)
