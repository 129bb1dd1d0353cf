package version

import (
	"context"
	"strings"
	"testing"

	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/system"
)

func versioningCfg() *config.VersioningConfig {
	return &config.VersioningConfig{
		VCS:               "git",
		Style:             "pep440",
		VersionfileSource: "blaze/_version.json",
		TagPrefix:         "v",
		ParentdirPrefix:   "blaze-",
	}
}

func TestGet_FromStamp(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/proj/blaze/_version.json",
		[]byte(`{"version": "1.5.0", "full-revisionid": "abc", "dirty": false}`), 0644)

	info := Get(context.Background(), fsys, system.NewMockExecutor(), "/proj", versioningCfg())

	if info.Version != "1.5.0" {
		t.Errorf("Version = %q, want stamp value", info.Version)
	}
}

func TestGet_FromVCS(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddDir("/proj/.git")

	m := system.NewMockExecutor()
	m.AddResponse("describe", []byte("v1.2.0-3-gabc1234\n"), nil)
	m.AddResponse("rev-parse HEAD", []byte("abc1234567890\n"), nil)
	m.AddResponse("rev-parse --abbrev-ref HEAD", []byte("main\n"), nil)
	m.AddResponse("show -s --format=%ci HEAD", []byte("2024-03-01 12:34:56 +0100\n"), nil)

	info := Get(context.Background(), fsys, m, "/proj", versioningCfg())

	if info.Version != "1.2.0+3.gabc1234" {
		t.Errorf("Version = %q", info.Version)
	}
}

func TestGetLive_IgnoresStamp(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddDir("/proj/.git")
	fsys.AddFile("/proj/blaze/_version.json",
		[]byte(`{"version": "1.2.0", "full-revisionid": "abc", "dirty": false}`), 0644)

	m := system.NewMockExecutor()
	m.AddResponse("describe", []byte("v1.3.0-0-gdef5678\n"), nil)
	m.AddResponse("rev-parse HEAD", []byte("def5678901234\n"), nil)
	m.AddResponse("rev-parse --abbrev-ref HEAD", []byte("main\n"), nil)
	m.AddResponse("show -s --format=%ci HEAD", []byte("2024-04-01 09:00:00 +0100\n"), nil)

	info := GetLive(context.Background(), fsys, m, "/proj", versioningCfg())

	if info.Version != "1.3.0" {
		t.Errorf("Version = %q, want the live VCS version, not the stamp", info.Version)
	}
}

func TestGet_FromParentdir(t *testing.T) {
	// No stamp, no repo, directory name carries the version.
	info := Get(context.Background(), system.NewMockFS(), system.NewMockExecutor(),
		"/tmp/blaze-1.4.2", versioningCfg())

	if info.Version != "1.4.2" {
		t.Errorf("Version = %q, want 1.4.2", info.Version)
	}
}

func TestGet_Unknown(t *testing.T) {
	info := Get(context.Background(), system.NewMockFS(), system.NewMockExecutor(),
		"/tmp/someproject", versioningCfg())

	if info.Version != "0+unknown" {
		t.Errorf("Version = %q, want 0+unknown", info.Version)
	}
	if info.Error == "" {
		t.Error("Error should explain the failure")
	}
}

func TestFromParentdir_ChecksAncestors(t *testing.T) {
	info, ok := FromParentdir("/tmp/blaze-2.0/build/lib", "blaze-")
	if !ok {
		t.Fatal("ancestor directory should match")
	}
	if info.Version != "2.0" {
		t.Errorf("Version = %q", info.Version)
	}
}

func TestFromParentdir_NoMatch(t *testing.T) {
	if _, ok := FromParentdir("/a/b/c/d", "blaze-"); ok {
		t.Error("unrelated path should not match")
	}
}

func TestStamp_RoundTrip(t *testing.T) {
	fsys := system.NewMockFS()
	dirty := true
	info := Info{
		Version:        "1.2.0+3.gabc1234.dirty",
		FullRevisionID: "abc1234567890",
		Dirty:          &dirty,
		Date:           "2024-03-01T12:34:56+0100",
	}

	if err := WriteStamp(fsys, "/proj", "blaze/_version.json", info); err != nil {
		t.Fatalf("WriteStamp failed: %v", err)
	}

	got, err := ReadStamp(fsys, "/proj", "blaze/_version.json")
	if err != nil {
		t.Fatalf("ReadStamp failed: %v", err)
	}

	if got.Version != info.Version || got.FullRevisionID != info.FullRevisionID {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Dirty == nil || !*got.Dirty {
		t.Error("Dirty lost in round trip")
	}
}

func TestWriteStamp_ConfinedToRoot(t *testing.T) {
	fsys := system.NewMockFS()

	// Traversal components resolve inside the root rather than escaping it.
	if err := WriteStamp(fsys, "/proj", "../outside/_version.json", Info{Version: "1.0"}); err != nil {
		t.Fatalf("WriteStamp failed: %v", err)
	}

	if fsys.Exists("/outside/_version.json") {
		t.Error("stamp escaped the project root")
	}
	if !fsys.Exists("/proj/outside/_version.json") {
		t.Error("stamp should be confined under the project root")
	}
}

func TestReadStamp_Invalid(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/proj/v.json", []byte("not json"), 0644)

	if _, err := ReadStamp(fsys, "/proj", "v.json"); err == nil {
		t.Error("expected parse error")
	}

	fsys.AddFile("/proj/empty.json", []byte("{}"), 0644)
	_, err := ReadStamp(fsys, "/proj", "empty.json")
	if err == nil || !strings.Contains(err.Error(), "no version") {
		t.Errorf("expected missing version error, got %v", err)
	}
}
