// Package config loads and validates blaze project configuration.
//
// Configuration lives in the project tree in one of two places:
//
//   - setup.cfg, INI style, sections [versioneer] and [flake8]
//   - pyproject.toml, tables [tool.versioneer] and [tool.flake8]
//
// When both files configure the same group, setup.cfg wins key by key.
//
// Recognized versioning keys: VCS, style, versionfile_source,
// versionfile_build, tag_prefix, parentdir_prefix.
// Recognized lint keys: exclude, select, ignore, max-line-length.
// Unknown keys in either section are ignored; external tools own them.
package config
