// Package misc keeps build time program identity.
package misc

import (
	"runtime/debug"
)

// Set by linker: -X bidicss/misc.version=... -X bidicss/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

const appName = "bidicss"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit program was built from, when linker did not
// supply one module build information is consulted.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) > 0 {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return "unknown"
}
