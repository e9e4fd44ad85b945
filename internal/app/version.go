package app

import (
	"fmt"
	"io"
	"runtime"
)

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/atsushifx/aglabo-error-core/internal/app.Version=v1.2.3".
var Version = "dev"

// HasVersionFlag reports whether the argument list requests the version.
// The scan stops at the "--" terminator so positional arguments after it
// cannot trigger version output.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--version" || arg == "-version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "aglareport %s (%s)\n", Version, runtime.Version())
}
