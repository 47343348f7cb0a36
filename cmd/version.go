// Package cmd holds build metadata injected with -ldflags "-X".
package cmd

// Set at link time; the defaults identify local builds.
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
