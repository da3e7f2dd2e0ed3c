// Package buildinfo holds version metadata stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/krig/cargo-vendor/pkg/buildinfo.Version=v0.3.0"
//
// Commit and Date are set the same way.
package buildinfo

import (
	"fmt"
	"strings"
)

// Defaults mark a development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the --version template. Commit and build date lines appear
// only when they were stamped.
func Template() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{{.Name}} %s\n", Version)
	if Commit != "none" {
		fmt.Fprintf(&b, "commit: %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Fprintf(&b, "built: %s\n", Date)
	}
	return b.String()
}
