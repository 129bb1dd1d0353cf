// Package version derives, renders and stamps project version strings.
//
// A version is looked up through a chain of sources, first hit wins:
//
//  1. a stamp file previously written at versionfile_source
//  2. live git metadata, rendered with the configured style
//  3. the parent directory name, for unpacked release tarballs
//  4. "0+unknown" with an error annotation
//
// Rendering styles follow the pep440 family plus the raw git-describe
// forms. See Render for the exact shapes.
package version
