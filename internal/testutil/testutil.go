package testutil

import (
	"testing"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/system"
)

// DefaultSetupCfg is a minimal valid project configuration.
const DefaultSetupCfg = `
[versioneer]
VCS = git
style = pep440
versionfile_source = blaze/_version.json
tag_prefix = v
parentdir_prefix = blaze-

[flake8]
select = B,C,E,F,W,T4,B9
ignore = E203,E266,E501,W503
max-line-length = 160
`

// TestEnv holds the test environment: a mock project rooted at /proj
// with a scripted git.
type TestEnv struct {
	T        *testing.T
	Root     string
	FS       *system.MockFS
	Executor *system.MockExecutor
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a test environment and installs it as the default
// application instance.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	fsys := system.NewMockFS()
	execr := system.NewMockExecutor()

	root := "/proj"
	fsys.AddDir(root)

	testApp := app.New(
		app.WithRoot(root),
		app.WithFS(fsys),
		app.WithExecutor(execr),
	)

	originalDefault := app.Default
	app.SetDefault(testApp)

	return &TestEnv{
		T:        t,
		Root:     root,
		FS:       fsys,
		Executor: execr,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// WriteSetupCfg writes a setup.cfg into the project root.
func (e *TestEnv) WriteSetupCfg(content string) {
	e.T.Helper()
	e.FS.AddFile(e.Root+"/"+config.SetupCfgName, []byte(content), 0644)
}

// WritePyproject writes a pyproject.toml into the project root.
func (e *TestEnv) WritePyproject(content string) {
	e.T.Helper()
	e.FS.AddFile(e.Root+"/"+config.PyprojectName, []byte(content), 0644)
}

// WriteFile writes a file at a path relative to the project root.
func (e *TestEnv) WriteFile(rel string, content string) {
	e.T.Helper()
	e.FS.AddFile(e.Root+"/"+rel, []byte(content), 0644)
}

// InitRepo marks the project root as a git checkout.
func (e *TestEnv) InitRepo() {
	e.T.Helper()
	e.FS.AddDir(e.Root + "/.git")
}

// ScriptGit installs the standard git responses a version lookup needs:
// describe output, HEAD revision, branch name, and commit date.
func (e *TestEnv) ScriptGit(describe, longSHA, branch, date string) {
	e.T.Helper()
	e.Executor.AddResponse("describe", []byte(describe+"\n"), nil)
	e.Executor.AddResponse("rev-parse HEAD", []byte(longSHA+"\n"), nil)
	e.Executor.AddResponse("rev-parse --abbrev-ref HEAD", []byte(branch+"\n"), nil)
	e.Executor.AddResponse("show -s --format=%ci HEAD", []byte(date+"\n"), nil)
	e.Executor.AddResponse("--version", []byte("git version 2.44.0\n"), nil)
}

// ScriptTags installs the git response for a tag listing. Each entry is
// "name|date" as produced by the tag format string.
func (e *TestEnv) ScriptTags(lines ...string) {
	e.T.Helper()
	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	e.Executor.AddResponse("tag --list", []byte(out), nil)
}

// StampedVersion returns the stamp file contents written at a path
// relative to the project root, failing the test when missing.
func (e *TestEnv) StampedVersion(rel string) []byte {
	e.T.Helper()
	data, ok := e.FS.GetFile(e.Root + "/" + rel)
	if !ok {
		e.T.Fatalf("no stamp written at %s", rel)
	}
	return data
}
