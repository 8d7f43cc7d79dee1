package app

import (
	"fmt"
	"io"
)

// Version is the application version, overridable at build time with
// -ldflags "-X github.com/nwrenn/cpuwatch/internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether the arguments request version output.
// Version handling runs before argument validation, mirroring help's
// priority over a malformed command line.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "cpuwatch %s\n", Version)
}
