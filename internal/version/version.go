package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set through -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Print(w io.Writer) {
	fmt.Fprintln(w, "gompa - offline cache for virtual monastery tours")
	fmt.Fprintf(w, "  %-12s %s\n", "Version:", Version)
	fmt.Fprintf(w, "  %-12s %s\n", "Go Version:", GoVersion)
	fmt.Fprintf(w, "  %-12s %s\n", "Git Commit:", Commit)
	fmt.Fprintf(w, "  %-12s %s\n", "Built:", Date)
	fmt.Fprintf(w, "  %-12s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent on outgoing HTTP requests.
func UserAgent() string {
	return "gompa/" + Version
}
