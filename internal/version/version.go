// Package version carries build metadata injected with -ldflags.
package version

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/doeshing/heartrisk-go/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
