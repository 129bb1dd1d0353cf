// Package vcs extracts version pieces from a git checkout.
//
// All git invocations go through system.CommandExecutor so that tests can
// script responses. The pieces returned here are rendered into version
// strings by the version package.
package vcs
