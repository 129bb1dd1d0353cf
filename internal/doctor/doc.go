// Package doctor diagnoses a project's environment: whether git is
// available, whether the project is a repository, whether its
// configuration parses, and whether the stamp target is writable.
package doctor
