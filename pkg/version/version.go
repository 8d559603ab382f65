// Package version holds build information stamped in at compile time, via:
//
//	go build -ldflags "-X github.com/JulienPalard/TheodoreServer/pkg/version.GitCommit=$(git rev-parse HEAD)"
package version

// GitCommit is the full hash of the commit this binary was built from. It is
// empty on unstamped builds.
var GitCommit string
