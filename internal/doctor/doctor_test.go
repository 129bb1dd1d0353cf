package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/blaze-data/blaze/internal/system"
)

const healthySetupCfg = `
[versioneer]
VCS = git
style = pep440
versionfile_source = blaze/_version.json
tag_prefix = v
`

func healthyMocks() (*system.MockFS, *system.MockExecutor) {
	fsys := system.NewMockFS()
	fsys.AddDir("/proj/.git")
	fsys.AddDir("/proj/blaze")
	fsys.AddFile("/proj/setup.cfg", []byte(healthySetupCfg), 0644)

	execr := system.NewMockExecutor()
	execr.AddResponse("--version", []byte("git version 2.44.0\n"), nil)
	execr.AddResponse("describe", []byte("v1.2.0-0-gabcdef1\n"), nil)
	execr.AddResponse("rev-parse HEAD", []byte("abcdef1234567890abcdef1234567890abcdef12\n"), nil)
	execr.AddResponse("rev-parse --abbrev-ref HEAD", []byte("main\n"), nil)
	execr.AddResponse("show -s --format=%ci HEAD", []byte("2024-03-01 12:34:56 +0100\n"), nil)
	return fsys, execr
}

func checkByName(t *testing.T, report *Report, name string) Check {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no check named %q in %+v", name, report.Checks)
	return Check{}
}

func TestRun_Healthy(t *testing.T) {
	fsys, execr := healthyMocks()

	report := Run(context.Background(), fsys, execr, "/proj")
	if !report.Healthy() {
		t.Errorf("report should be healthy: %+v", report.Checks)
	}

	if c := checkByName(t, report, "git binary"); c.Status != StatusOK {
		t.Errorf("git binary = %s (%s)", c.Status, c.Detail)
	}
	if c := checkByName(t, report, "version"); c.Status != StatusOK || c.Detail != "1.2.0" {
		t.Errorf("version = %s (%s)", c.Status, c.Detail)
	}
}

func TestRun_NoGit(t *testing.T) {
	fsys, execr := healthyMocks()
	execr.LookPathErr = errors.New("executable file not found in $PATH")

	report := Run(context.Background(), fsys, execr, "/proj")
	if report.Healthy() {
		t.Error("missing git should fail the report")
	}

	if c := checkByName(t, report, "git binary"); c.Status != StatusFail {
		t.Errorf("git binary = %s", c.Status)
	}

	// Version derivation is skipped without git.
	for _, c := range report.Checks {
		if c.Name == "version" {
			t.Error("version check should be skipped when git is missing")
		}
	}
}

func TestRun_NotARepo(t *testing.T) {
	fsys, execr := healthyMocks()
	fsys.Remove("/proj/.git")

	report := Run(context.Background(), fsys, execr, "/proj")

	if c := checkByName(t, report, "repository"); c.Status != StatusWarn {
		t.Errorf("repository = %s (%s)", c.Status, c.Detail)
	}
	// A missing checkout is a warning, not a failure.
	if !report.Healthy() {
		t.Errorf("report should stay healthy: %+v", report.Checks)
	}
}

func TestRun_NoConfig(t *testing.T) {
	fsys, execr := healthyMocks()
	fsys.Remove("/proj/setup.cfg")

	report := Run(context.Background(), fsys, execr, "/proj")
	if report.Healthy() {
		t.Error("missing configuration should fail the report")
	}

	if c := checkByName(t, report, "configuration"); c.Status != StatusFail {
		t.Errorf("configuration = %s (%s)", c.Status, c.Detail)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	fsys, execr := healthyMocks()
	fsys.AddFile("/proj/setup.cfg", []byte("[versioneer]\nVCS = svn\n"), 0644)

	report := Run(context.Background(), fsys, execr, "/proj")
	if report.Healthy() {
		t.Error("invalid configuration should fail the report")
	}
}

func TestRun_StampTargetMissingDir(t *testing.T) {
	fsys, execr := healthyMocks()
	fsys.Remove("/proj/blaze")

	report := Run(context.Background(), fsys, execr, "/proj")

	if c := checkByName(t, report, "stamp target"); c.Status != StatusWarn {
		t.Errorf("stamp target = %s (%s)", c.Status, c.Detail)
	}
}

func TestRun_VersionFallsBackToWarning(t *testing.T) {
	fsys, execr := healthyMocks()
	execr.AddResponse("describe", nil, errors.New("fatal: not a git repository"))

	report := Run(context.Background(), fsys, execr, "/proj")

	c := checkByName(t, report, "version")
	if c.Status != StatusWarn {
		t.Errorf("version = %s (%s)", c.Status, c.Detail)
	}
}
