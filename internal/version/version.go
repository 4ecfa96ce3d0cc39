// Package version holds build metadata injected with -ldflags.
package version

import (
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.1.0, set by -X .../version.Version
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()               // go version
)
