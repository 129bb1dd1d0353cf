package lint

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/logging"
	"github.com/blaze-data/blaze/internal/system"
)

// Finding is one reported lint violation.
type Finding struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", f.Path, f.Line, f.Col, f.Code, f.Message)
}

// Checker runs the textual lint rules over files.
type Checker struct {
	cfg     *config.LintConfig
	decider *Decider
}

// NewChecker builds a checker from a validated lint configuration.
func NewChecker(cfg *config.LintConfig) (*Checker, error) {
	decider, err := NewDecider(cfg.Select, cfg.Ignore)
	if err != nil {
		return nil, err
	}
	return &Checker{cfg: cfg, decider: decider}, nil
}

// Decider exposes the compiled select/ignore decider.
func (c *Checker) Decider() *Decider {
	return c.decider
}

// Check lints the given paths. Directories are walked recursively;
// excluded files and directories are skipped. Findings come back in
// path, line, column order.
func (c *Checker) Check(fsys system.FileSystem, paths []string) ([]Finding, error) {
	var findings []Finding

	for _, path := range paths {
		if err := c.checkPath(fsys, path, &findings); err != nil {
			return nil, err
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return findings, nil
}

func (c *Checker) checkPath(fsys system.FileSystem, path string, findings *[]Finding) error {
	if Excluded(path, c.cfg.Exclude) {
		logging.Debug("excluded from lint", "path", path)
		return nil
	}

	if fsys.IsDir(path) {
		entries, err := fsys.ReadDir(path)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if err := c.checkPath(fsys, filepath.Join(path, entry.Name()), findings); err != nil {
				return err
			}
		}
		return nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	*findings = append(*findings, c.checkFile(path, data)...)
	return nil
}

// checkFile applies the textual rules to one file's contents.
func (c *Checker) checkFile(path string, data []byte) []Finding {
	var findings []Finding

	report := func(line, col int, code, message string) {
		if c.decider.Enabled(code) {
			findings = append(findings, Finding{
				Path: path, Line: line, Col: col, Code: code, Message: message,
			})
		}
	}

	text := string(data)
	if text == "" {
		return nil
	}

	missingFinalNewline := !strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	for i, line := range lines {
		n := i + 1
		line = strings.TrimSuffix(line, "\r")

		if width := utf8.RuneCountInString(line); width > c.cfg.MaxLineLength {
			report(n, c.cfg.MaxLineLength+1, "E501",
				fmt.Sprintf("line too long (%d > %d characters)", width, c.cfg.MaxLineLength))
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if strings.Contains(indent, "\t") {
			report(n, 1, "W191", "indentation contains tabs")
		}

		trimmed := strings.TrimRight(line, " \t")
		if trimmed != line {
			if trimmed == "" {
				report(n, 1, "W293", "whitespace on blank line")
			} else {
				report(n, utf8.RuneCountInString(trimmed)+1, "W291", "trailing whitespace")
			}
		}
	}

	if missingFinalNewline {
		last := lines[len(lines)-1]
		report(len(lines), utf8.RuneCountInString(last)+1, "W292", "no newline at end of file")
	}

	return findings
}
