package core

// Version is the application version, set at build time via ldflags:
//
//	go build -ldflags "-X github.com/LinkuDev/dreamina/core.Version=$(git describe --tags --always)" .
//
// Defaults to "dev" when not injected.
var Version = "dev"

// GitCommit is the git commit hash, set at build time via ldflags:
//
//	go build -ldflags "-X github.com/LinkuDev/dreamina/core.GitCommit=$(git rev-parse --short HEAD)" .
var GitCommit = "unknown"

// VersionInfo returns the version and commit as one log-friendly string,
// e.g. "v1.2.0 (commit abc1234)".
func VersionInfo() string {
	return Version + " (commit " + GitCommit + ")"
}
