// Package version exposes the build version of idremap.
package version

// Version is the idremap version, overridden at build time via
// -ldflags "-X github.com/protmap/idremap/pkg/version.Version=v1.2.3".
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards.
var Version = "dev"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
