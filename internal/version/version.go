// Package version reports the build of the fieldkit binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/fieldkit/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/fieldkit/internal/version.Commit=abc1234"
//
// Unset values are filled from the module build info when available.
var (
	Version = ""
	Commit  = ""
)

// Info describes a build.
type Info struct {
	Version   string
	Commit    string
	Dirty     bool
	GoVersion string
}

func init() {
	info := resolve(Version, Commit, readSettings())
	Version, Commit = info.Version, info.Commit
	if info.Dirty {
		Commit += "-dirty"
	}
}

func readSettings() map[string]string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	out := map[string]string{"main.version": bi.Main.Version}
	for _, s := range bi.Settings {
		out[s.Key] = s.Value
	}
	return out
}

// resolve fills version and commit from build settings. ldflags values
// always win.
func resolve(version, commit string, settings map[string]string) Info {
	info := Info{Version: version, Commit: commit, GoVersion: runtime.Version()}

	if info.Commit == "" {
		rev := settings["vcs.revision"]
		if len(rev) > 7 {
			rev = rev[:7]
		}
		info.Commit = rev
		info.Dirty = rev != "" && settings["vcs.modified"] == "true"
	}

	if info.Version == "" {
		switch mv := settings["main.version"]; {
		case mv != "" && mv != "(devel)":
			info.Version = mv
		case settings["vcs.time"] != "":
			// vcs.time is RFC 3339; keep the date part
			info.Version = "dev-" + strings.ReplaceAll(strings.SplitN(settings["vcs.time"], "T", 2)[0], "-", "")
		default:
			info.Version = "dev"
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

// Get returns the current build.
func Get() Info {
	return Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, %s)", i.Version, i.Commit, i.GoVersion)
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
