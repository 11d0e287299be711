// Package buildinfo holds version metadata set at link time:
//
//	go build -ldflags "-X github.com/JonMunkholm/backoffice/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
