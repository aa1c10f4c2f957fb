package version

import (
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		commit      string
		settings    map[string]string
		wantVersion string
		wantCommit  string
		wantDirty   bool
	}{
		{
			name:        "ldflags win",
			version:     "v1.2.3",
			commit:      "abc1234",
			settings:    map[string]string{"vcs.revision": "ffffffffffff", "main.version": "v9.9.9"},
			wantVersion: "v1.2.3",
			wantCommit:  "abc1234",
		},
		{
			name:        "module version",
			settings:    map[string]string{"main.version": "v0.4.0", "vcs.revision": "0123456789ab"},
			wantVersion: "v0.4.0",
			wantCommit:  "0123456",
		},
		{
			name:        "devel build uses commit date",
			settings:    map[string]string{"main.version": "(devel)", "vcs.time": "2026-03-04T10:11:12Z", "vcs.revision": "abc", "vcs.modified": "true"},
			wantVersion: "dev-20260304",
			wantCommit:  "abc",
			wantDirty:   true,
		},
		{
			name:        "no build info",
			wantVersion: "dev",
			wantCommit:  "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve(tt.version, tt.commit, tt.settings)
			if got.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", got.Version, tt.wantVersion)
			}
			if got.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", got.Commit, tt.wantCommit)
			}
			if got.Dirty != tt.wantDirty {
				t.Errorf("Dirty = %v, want %v", got.Dirty, tt.wantDirty)
			}
		})
	}
}

func TestFull(t *testing.T) {
	if !strings.Contains(Full(), "commit: ") {
		t.Errorf("Full() = %q, missing commit", Full())
	}
	if Get().GoVersion == "" {
		t.Error("GoVersion is empty")
	}
}
