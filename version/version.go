// Package version reports what build of pianola is running, for the -v flag.
package version

import "runtime/debug"

// Version is empty unless stamped at build time:
//
//	go build -ldflags "-X github.com/hvirtan/pianola/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision recorded in the build info, suffixed with
// -dirty when the working tree had local changes, or empty when the binary
// was built outside version control.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if len(revision) < 7 {
		return ""
	}
	if dirty {
		return revision[:7] + "-dirty"
	}
	return revision[:7]
}()

// VersionOrHash prefers the stamped version and falls back to the VCS hash.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()
