package lint

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// codeRegex matches canonical warning codes: letter prefix, optional digits.
var codeRegex = regexp.MustCompile(`^[A-Z]+[0-9]*$`)

// Decider decides which warning codes are enabled.
//
// Both lists hold code prefixes: "E" covers every E code, "E5" covers
// E5xx, "E501" covers exactly E501. For a given code the longest
// matching prefix from either list wins; on a tie the code is enabled.
// An empty select list enables everything not ignored; a non-empty one
// acts as a whitelist.
type Decider struct {
	selects []string
	ignores []string
}

// NewDecider compiles select/ignore lists, validating every entry.
func NewDecider(selects, ignores []string) (*Decider, error) {
	for listName, list := range map[string][]string{
		"select": selects,
		"ignore": ignores,
	} {
		for _, code := range list {
			if !codeRegex.MatchString(code) {
				return nil, fmt.Errorf("invalid warning code %q in %s", code, listName)
			}
		}
	}
	return &Decider{selects: selects, ignores: ignores}, nil
}

// Enabled reports whether findings with the given code are reported.
func (d *Decider) Enabled(code string) bool {
	sel := longestPrefix(code, d.selects)
	ign := longestPrefix(code, d.ignores)

	if len(d.selects) > 0 && sel == 0 {
		return false
	}
	return sel >= ign
}

// longestPrefix returns the length of the longest list entry that
// prefixes code, or 0 when none match.
func longestPrefix(code string, list []string) int {
	best := 0
	for _, p := range list {
		if strings.HasPrefix(code, p) && len(p) > best {
			best = len(p)
		}
	}
	return best
}

// Excluded reports whether path matches any exclude pattern.
// Patterns are matched against the basename, against the slash path,
// and against each path segment, mirroring how exclude lists name both
// directories (thirdparty) and glob shapes (*_thrift).
func Excluded(path string, patterns []string) bool {
	slashPath := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, slashPath); ok {
			return true
		}
		for _, segment := range strings.Split(slashPath, "/") {
			if ok, _ := filepath.Match(pattern, segment); ok {
				return true
			}
		}
	}
	return false
}
