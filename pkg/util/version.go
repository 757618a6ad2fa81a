package util

import "runtime"

var (
	version   = "v0.1.0"
	gitCommit = ""
	buildDate = ""
)

type Version struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersion 版本信息，gitCommit/buildDate 通过 -ldflags 注入
func GetVersion() Version {
	return Version{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
}
