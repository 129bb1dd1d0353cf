// Package logging provides logging utilities for blaze.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("running git", "cmd", cmdline)
//	logging.Warn("stamp file missing", "path", path)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Reading configuration from %s...", path)
//	logging.UserSuccess("Stamped version %s", version)
//	logging.UserWarning("Tag %s does not carry the configured prefix", tag)
//	logging.UserError("Failed to derive version: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
