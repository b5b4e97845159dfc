// Package version carries the build identity stamped into the searchscope
// binary at release time.
package version

//nolint:revive // Overwritten through ldflags by the build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
