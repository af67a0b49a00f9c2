// Package version exposes the build version set through ldflags.
package version

// version is overridden at build time:
//
//	go build -ldflags "-X github.com/rshade/cvdesk/pkg/version.version=v1.2.3"
var version = "dev" //nolint:gochecknoglobals // Set via ldflags.

// GetVersion returns the build version, "dev" for local builds.
func GetVersion() string {
	if version == "" {
		return "dev"
	}
	return version
}
