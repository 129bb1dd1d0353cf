// Package app provides the application context for blaze.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Root     string                 // Project root directory
//	    FS       system.FileSystem      // File system access
//	    Executor system.CommandExecutor // Command execution (git)
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithRoot("/proj"),
//	    app.WithFS(mockFS),
//	    app.WithExecutor(mockExecutor),
//	)
package app
