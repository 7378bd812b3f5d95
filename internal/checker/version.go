package checker

import (
	"fmt"
	"io"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func PrintVersion(w io.Writer) {
	_, _ = fmt.Fprintln(w, "imgcache - Docker image cache for CI pipelines")
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Version:", Version)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Go Version:", GoVersion)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Git Commit:", Commit)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Built:", Date)
	_, _ = fmt.Fprintf(w, "  %-11s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
