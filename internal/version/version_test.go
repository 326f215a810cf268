package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldT := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldT })

	Version, GitCommit, BuildTime = "v1.2.3", "abc123", "2026-01-02"
	if got, want := String(), "eepbuilder v1.2.3 (commit abc123, built 2026-01-02)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDefaults(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Error("build info variables should be initialized")
	}
}
