// Package version holds build-time version metadata, stamped via -ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// GitCommit is the commit the build was produced from.
	GitCommit = "unknown"
	// BuildDate is the date the build was produced.
	BuildDate = "unknown"
)
