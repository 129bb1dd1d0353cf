// Package lint applies a flake8-style lint configuration.
//
// The Decider answers whether a warning code is enabled under the
// configured select/ignore prefix lists. The Checker walks files that
// are not excluded and reports findings for the textual rules blaze
// implements itself: line length (E501), tab indentation (W191),
// trailing whitespace (W291/W293) and missing final newline (W292).
package lint
