// Package version exposes build information for the uivet binary.
package version

import "runtime/debug"

// Populated at build time via -ldflags. InitBinaryVersion fills in
// whatever the linker left unset from the embedded build info.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Build-info setting keys read by InitBinaryVersion.
const (
	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
)

// InitBinaryVersion backfills Version, Commit and Date from the
// module's embedded build info when ldflags did not set them. Safe to
// call more than once.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case settingRevision:
			if Commit == "unknown" {
				Commit = setting.Value
			}
		case settingTime:
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}
