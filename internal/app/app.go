package app

import (
	"os"
	"path/filepath"

	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/logging"
	"github.com/blaze-data/blaze/internal/system"
)

// App holds the application dependencies
type App struct {
	// Root is the project root directory
	Root string

	// FS is the file system implementation
	FS system.FileSystem

	// Executor runs external commands, git in particular
	Executor system.CommandExecutor
}

// Option is a function that configures the App
type Option func(*App)

// WithRoot sets the project root explicitly, skipping detection
func WithRoot(root string) Option {
	return func(a *App) {
		a.Root = root
	}
}

// WithFS sets a custom file system
func WithFS(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(execr system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = execr
	}
}

// New creates a new App with the given options.
// If the root is not provided via WithRoot, it is detected by walking
// up from the working directory.
func New(opts ...Option) *App {
	app := &App{
		FS:       system.DefaultFS(),
		Executor: system.DefaultExecutor(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			logging.Debug("failed to get working directory", "error", err)
			cwd = "."
		}
		app.Root = FindRoot(app.FS, cwd)
	}

	return app
}

// LoadConfig reads the project configuration from the app's root.
func (a *App) LoadConfig() (*config.Config, error) {
	return config.Load(a.FS, a.Root)
}

// FindRoot walks up from start looking for a directory carrying a
// project marker: setup.cfg, pyproject.toml, or a .git entry. When no
// marker is found, start itself is returned.
func FindRoot(fsys system.FileSystem, start string) string {
	dir := start
	for {
		for _, marker := range []string{config.SetupCfgName, config.PyprojectName, ".git"} {
			if fsys.Exists(filepath.Join(dir, marker)) {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
