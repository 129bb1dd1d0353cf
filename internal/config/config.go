package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"

	"github.com/blaze-data/blaze/internal/logging"
	"github.com/blaze-data/blaze/internal/system"
)

const (
	// SetupCfgName is the INI configuration file read from the project root.
	SetupCfgName = "setup.cfg"

	// PyprojectName is the TOML configuration file read from the project root.
	PyprojectName = "pyproject.toml"

	// DefaultStyle is the version rendering style used when none is configured.
	DefaultStyle = "pep440"

	// DefaultMaxLineLength is the lint line length threshold used when none
	// is configured.
	DefaultMaxLineLength = 79
)

// codeRegex validates warning-code entries in select/ignore lists.
// Codes are one or more upper-case letters optionally followed by digits
// (E, W6, E501, T4). Whitespace inside an entry is a configuration error.
var codeRegex = regexp.MustCompile(`^[A-Z]+[0-9]*$`)

// knownStyles are the version rendering styles accepted by the style key.
var knownStyles = map[string]bool{
	"pep440":             true,
	"pep440-branch":      true,
	"pep440-pre":         true,
	"pep440-post":        true,
	"pep440-post-branch": true,
	"pep440-old":         true,
	"git-describe":       true,
	"git-describe-long":  true,
}

// VersioningConfig describes how the project version string is derived
// from version-control tags.
type VersioningConfig struct {
	VCS               string // version-control system identifier; only "git" is supported
	Style             string // version-string formatting scheme
	VersionfileSource string // stamp location inside the source tree
	VersionfileBuild  string // stamp location inside a build tree, optional
	TagPrefix         string // prefix stripped from version-control tags
	ParentdirPrefix   string // fallback prefix for extracted source directory names
}

// LintConfig describes which static-analysis warnings are enabled.
type LintConfig struct {
	Exclude       []string // file patterns skipped during analysis
	Select        []string // enabled warning-code prefixes
	Ignore        []string // disabled warning-code prefixes
	MaxLineLength int      // numeric line length threshold
}

// Config is the combined project configuration.
type Config struct {
	Versioning VersioningConfig
	Lint       LintConfig
}

// Validate checks that the VersioningConfig is valid.
func (c *VersioningConfig) Validate() error {
	if c.VCS != "git" {
		return fmt.Errorf("unsupported VCS %q: only git is supported", c.VCS)
	}

	if !knownStyles[c.Style] {
		return fmt.Errorf("unknown style %q", c.Style)
	}

	for key, path := range map[string]string{
		"versionfile_source": c.VersionfileSource,
		"versionfile_build":  c.VersionfileBuild,
	} {
		if path != "" && filepath.IsAbs(path) {
			return fmt.Errorf("%s must be relative to the project root (got %q)", key, path)
		}
	}

	return nil
}

// Validate checks that the LintConfig is valid.
func (c *LintConfig) Validate() error {
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("max-line-length must be a positive integer (got %d)", c.MaxLineLength)
	}

	for listName, list := range map[string][]string{
		"select": c.Select,
		"ignore": c.Ignore,
	} {
		for _, code := range list {
			if !codeRegex.MatchString(code) {
				return fmt.Errorf("invalid warning code %q in %s", code, listName)
			}
		}
	}

	return nil
}

// Validate checks both configuration groups.
func (c *Config) Validate() error {
	if err := c.Versioning.Validate(); err != nil {
		return err
	}
	return c.Lint.Validate()
}

// Load reads the project configuration from root, merging setup.cfg over
// pyproject.toml and applying defaults. Missing files are not an error;
// a project with neither gets a pure-defaults configuration.
func Load(fsys system.FileSystem, root string) (*Config, error) {
	cfg := &Config{}

	if err := loadPyproject(fsys, filepath.Join(root, PyprojectName), cfg); err != nil {
		return nil, err
	}
	if err := loadSetupCfg(fsys, filepath.Join(root, SetupCfgName), cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Versioning.VCS == "" {
		c.Versioning.VCS = "git"
	}
	if c.Versioning.Style == "" {
		c.Versioning.Style = DefaultStyle
	}
	if c.Lint.MaxLineLength == 0 {
		c.Lint.MaxLineLength = DefaultMaxLineLength
	}
}

// pyprojectFile mirrors the tables blaze reads from pyproject.toml.
type pyprojectFile struct {
	Tool struct {
		Versioneer struct {
			VCS               string `toml:"VCS"`
			Style             string `toml:"style"`
			VersionfileSource string `toml:"versionfile_source"`
			VersionfileBuild  string `toml:"versionfile_build"`
			TagPrefix         string `toml:"tag_prefix"`
			ParentdirPrefix   string `toml:"parentdir_prefix"`
		} `toml:"versioneer"`
		Flake8 struct {
			Exclude       []string `toml:"exclude"`
			Select        []string `toml:"select"`
			Ignore        []string `toml:"ignore"`
			MaxLineLength int      `toml:"max-line-length"`
		} `toml:"flake8"`
	} `toml:"tool"`
}

func loadPyproject(fsys system.FileSystem, path string, cfg *Config) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil // optional file
	}

	var pf pyprojectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	v := pf.Tool.Versioneer
	cfg.Versioning = VersioningConfig{
		VCS:               v.VCS,
		Style:             v.Style,
		VersionfileSource: v.VersionfileSource,
		VersionfileBuild:  v.VersionfileBuild,
		TagPrefix:         v.TagPrefix,
		ParentdirPrefix:   v.ParentdirPrefix,
	}

	l := pf.Tool.Flake8
	cfg.Lint = LintConfig{
		Exclude:       l.Exclude,
		Select:        l.Select,
		Ignore:        l.Ignore,
		MaxLineLength: l.MaxLineLength,
	}

	logging.Debug("loaded pyproject configuration", "path", path)
	return nil
}

func loadSetupCfg(fsys system.FileSystem, path string, cfg *Config) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil // optional file
	}

	f, err := ini.Load(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if sec, err := f.GetSection("versioneer"); err == nil {
		overlayString(sec, "VCS", &cfg.Versioning.VCS)
		overlayString(sec, "style", &cfg.Versioning.Style)
		overlayString(sec, "versionfile_source", &cfg.Versioning.VersionfileSource)
		overlayString(sec, "versionfile_build", &cfg.Versioning.VersionfileBuild)
		overlayString(sec, "tag_prefix", &cfg.Versioning.TagPrefix)
		overlayString(sec, "parentdir_prefix", &cfg.Versioning.ParentdirPrefix)
	}

	if sec, err := f.GetSection("flake8"); err == nil {
		if sec.HasKey("exclude") {
			cfg.Lint.Exclude = SplitList(sec.Key("exclude").String())
		}
		if sec.HasKey("select") {
			cfg.Lint.Select = SplitList(sec.Key("select").String())
		}
		if sec.HasKey("ignore") {
			cfg.Lint.Ignore = SplitList(sec.Key("ignore").String())
		}
		if sec.HasKey("max-line-length") {
			n, err := sec.Key("max-line-length").Int()
			if err != nil || n <= 0 {
				return fmt.Errorf("max-line-length must be a positive integer (got %q)", sec.Key("max-line-length").String())
			}
			cfg.Lint.MaxLineLength = n
		}
	}

	logging.Debug("loaded setup.cfg configuration", "path", path)
	return nil
}

// overlayString copies the key value over dst when the key is present.
// setup.cfg values take precedence over pyproject.toml, including
// explicitly empty ones (`tag_prefix =` clears a pyproject prefix).
func overlayString(sec *ini.Section, key string, dst *string) {
	if sec.HasKey(key) {
		*dst = strings.TrimSpace(sec.Key(key).String())
	}
}

// SplitList splits a comma- or newline-separated configuration list,
// trimming whitespace around entries and dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, chunk := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		if v := strings.TrimSpace(chunk); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// StarterSetupCfg is the configuration written by blaze init.
const StarterSetupCfg = `[versioneer]
VCS = git
style = pep440
versionfile_source = blaze/_version.json
versionfile_build = blaze/_version.json
tag_prefix =
parentdir_prefix = blaze-

[flake8]
exclude = _version.json
select = B,C,E,F,W,T4,B9
ignore = E203,E266,E501,W503
max-line-length = 160
`
