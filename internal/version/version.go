package version

import (
	"flag"
	"fmt"
	"runtime"
)

const ApplicationName = "wa-report-bridge"

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version   = "develop"
	GitCommit = ""
	BuildDate = ""
)

type BuildInfo struct {
	Version   string `json:"version,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

func Get() BuildInfo {
	v := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}

	if flag.Lookup("test.v") != nil {
		v.GoVersion = ""
	}
	return v
}

func (b BuildInfo) String() string {
	if b.GitCommit == "" {
		return fmt.Sprintf("%s %s", ApplicationName, b.Version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, b.Version, b.GitCommit)
}
