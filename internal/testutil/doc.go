// Package testutil provides shared fixtures for command-level tests:
// a mock project with configuration files and a scripted git.
package testutil
