package doctor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/system"
	"github.com/blaze-data/blaze/internal/vcs"
	"github.com/blaze-data/blaze/internal/version"
)

// Status classifies the outcome of one check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is the outcome of a single diagnostic.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Report collects the outcomes of all diagnostics for one project.
type Report struct {
	Checks []Check
}

// Healthy reports whether no check failed. Warnings do not count as
// failures.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, status Status, format string, args ...any) {
	r.Checks = append(r.Checks, Check{
		Name:   name,
		Status: status,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Run performs all diagnostics for the project at root.
func Run(ctx context.Context, fsys system.FileSystem, execr system.CommandExecutor, root string) *Report {
	report := &Report{}

	gitOK := checkGit(ctx, report, execr)
	repoOK := checkRepo(report, fsys, root)
	cfg := checkConfig(report, fsys, root)

	if cfg != nil {
		checkStampTarget(report, fsys, root, &cfg.Versioning)
	}

	if gitOK && repoOK && cfg != nil {
		checkVersion(ctx, report, fsys, execr, root, &cfg.Versioning)
	}

	return report
}

func checkGit(ctx context.Context, report *Report, execr system.CommandExecutor) bool {
	path, err := execr.LookPath("git")
	if err != nil {
		report.add("git binary", StatusFail, "git not found on PATH")
		return false
	}

	out, err := execr.Execute(ctx, "git", "--version")
	if err != nil {
		report.add("git binary", StatusFail, "%s found but 'git --version' failed: %v", path, err)
		return false
	}

	report.add("git binary", StatusOK, "%s (%s)", path, strings.TrimSpace(string(out)))
	return true
}

func checkRepo(report *Report, fsys system.FileSystem, root string) bool {
	if !vcs.IsRepo(fsys, root) {
		report.add("repository", StatusWarn, "%s is not a git checkout; versions will come from a stamp or the directory name", root)
		return false
	}
	report.add("repository", StatusOK, "git checkout at %s", root)
	return true
}

func checkConfig(report *Report, fsys system.FileSystem, root string) *config.Config {
	hasSetupCfg := fsys.Exists(filepath.Join(root, config.SetupCfgName))
	hasPyproject := fsys.Exists(filepath.Join(root, config.PyprojectName))
	if !hasSetupCfg && !hasPyproject {
		report.add("configuration", StatusFail, "neither %s nor %s found; run 'blaze init'", config.SetupCfgName, config.PyprojectName)
		return nil
	}

	cfg, err := config.Load(fsys, root)
	if err != nil {
		report.add("configuration", StatusFail, "%v", err)
		return nil
	}

	report.add("configuration", StatusOK, "style=%s tag_prefix=%q", cfg.Versioning.Style, cfg.Versioning.TagPrefix)
	return cfg
}

func checkStampTarget(report *Report, fsys system.FileSystem, root string, cfg *config.VersioningConfig) {
	if cfg.VersionfileSource == "" {
		report.add("stamp target", StatusWarn, "versionfile_source is not set; 'blaze stamp' will have nowhere to write")
		return
	}

	dir := filepath.Dir(filepath.Join(root, cfg.VersionfileSource))
	if !fsys.IsDir(dir) {
		report.add("stamp target", StatusWarn, "directory %s does not exist yet; it will be created on stamp", dir)
		return
	}

	report.add("stamp target", StatusOK, "%s", cfg.VersionfileSource)
}

func checkVersion(ctx context.Context, report *Report, fsys system.FileSystem, execr system.CommandExecutor, root string, cfg *config.VersioningConfig) {
	info := version.Get(ctx, fsys, execr, root, cfg)
	if info.Error != "" {
		report.add("version", StatusWarn, "%s (%s)", info.Version, info.Error)
		return
	}
	report.add("version", StatusOK, "%s", info.Version)
}
