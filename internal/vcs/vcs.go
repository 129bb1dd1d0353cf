package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/blaze-data/blaze/internal/logging"
	"github.com/blaze-data/blaze/internal/system"
)

// Pieces holds the raw version information extracted from git.
// Rendering into a version string happens in the version package.
type Pieces struct {
	ClosestTag string // nearest reachable tag, prefix stripped; empty when untagged
	Distance   int    // commits since the closest tag, or total commits when untagged
	ShortSHA   string
	LongSHA    string
	Dirty      bool
	Branch     string // empty when HEAD is detached
	Date       string // commit date of HEAD, ISO-8601
	Err        string // recorded instead of failing when the tag layout is unusable
}

// IsRepo reports whether root is a git checkout.
// .git can be a directory (normal repo) or a file (worktree).
func IsRepo(fsys system.FileSystem, root string) bool {
	gitPath := filepath.Join(root, ".git")
	info, err := fsys.Stat(gitPath)
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// FromVCS extracts version pieces for the checkout at root.
// tagPrefix is stripped from the closest tag; a reachable tag that does
// not carry the prefix is recorded in Pieces.Err rather than failing.
func FromVCS(ctx context.Context, execr system.CommandExecutor, root, tagPrefix string) (*Pieces, error) {
	describeArgs := []string{"describe", "--tags", "--dirty", "--always", "--long"}
	if tagPrefix != "" {
		describeArgs = append(describeArgs, "--match", tagPrefix+"*")
	}

	describe, err := run(ctx, execr, root, describeArgs...)
	if err != nil {
		return nil, fmt.Errorf("git describe failed: %w", err)
	}

	pieces := &Pieces{}

	d := describe
	if strings.HasSuffix(d, "-dirty") {
		pieces.Dirty = true
		d = strings.TrimSuffix(d, "-dirty")
	}

	if i := strings.LastIndex(d, "-g"); i >= 0 {
		// TAG-DISTANCE-gSHORT
		tagDist := d[:i]
		pieces.ShortSHA = d[i+2:]

		j := strings.LastIndex(tagDist, "-")
		if j < 0 {
			pieces.Err = fmt.Sprintf("unable to parse git describe output: '%s'", describe)
		} else {
			tag := tagDist[:j]
			distance, convErr := strconv.Atoi(tagDist[j+1:])
			if convErr != nil {
				pieces.Err = fmt.Sprintf("unable to parse git describe output: '%s'", describe)
			} else if !strings.HasPrefix(tag, tagPrefix) {
				pieces.Err = fmt.Sprintf("tag '%s' doesn't start with prefix '%s'", tag, tagPrefix)
			} else {
				pieces.ClosestTag = tag[len(tagPrefix):]
				pieces.Distance = distance
			}
		}
	} else {
		// No reachable tag: describe printed the short SHA only.
		pieces.ShortSHA = d
		count, err := run(ctx, execr, root, "rev-list", "HEAD", "--count")
		if err != nil {
			return nil, fmt.Errorf("git rev-list failed: %w", err)
		}
		pieces.Distance, _ = strconv.Atoi(count)
	}

	long, err := run(ctx, execr, root, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git rev-parse failed: %w", err)
	}
	pieces.LongSHA = long
	if pieces.ShortSHA == "" {
		pieces.ShortSHA = shortSHA(long)
	}

	branch, err := run(ctx, execr, root, "rev-parse", "--abbrev-ref", "HEAD")
	if err == nil && branch != "HEAD" {
		pieces.Branch = branch
	}

	date, err := run(ctx, execr, root, "show", "-s", "--format=%ci", "HEAD")
	if err == nil {
		pieces.Date = normalizeDate(date)
	}

	return pieces, nil
}

// Tag is a release tag known to the checkout.
type Tag struct {
	Name string
	Date string
}

// Tags lists tags carrying prefix, newest first.
func Tags(ctx context.Context, execr system.CommandExecutor, root, prefix string) ([]Tag, error) {
	args := []string{"tag", "--list", "--sort=-creatordate", "--format=%(refname:short)|%(creatordate:short)"}
	if prefix != "" {
		args = append(args, prefix+"*")
	}

	out, err := run(ctx, execr, root, args...)
	if err != nil {
		return nil, fmt.Errorf("git tag failed: %w", err)
	}

	var tags []Tag
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, date, _ := strings.Cut(line, "|")
		tags = append(tags, Tag{Name: name, Date: date})
	}
	return tags, nil
}

// PiecesAtTag returns the pieces for an exact release tag, as if the
// checkout sat cleanly on that tag.
func PiecesAtTag(ctx context.Context, execr system.CommandExecutor, root, tag, tagPrefix string) (*Pieces, error) {
	if !strings.HasPrefix(tag, tagPrefix) {
		return &Pieces{Err: fmt.Sprintf("tag '%s' doesn't start with prefix '%s'", tag, tagPrefix)}, nil
	}

	long, err := run(ctx, execr, root, "rev-parse", tag+"^{commit}")
	if err != nil {
		return nil, fmt.Errorf("unknown tag %q: %w", tag, err)
	}

	pieces := &Pieces{
		ClosestTag: tag[len(tagPrefix):],
		LongSHA:    long,
		ShortSHA:   shortSHA(long),
	}

	date, err := run(ctx, execr, root, "log", "-1", "--format=%ci", tag)
	if err == nil {
		pieces.Date = normalizeDate(date)
	}

	return pieces, nil
}

func run(ctx context.Context, execr system.CommandExecutor, root string, args ...string) (string, error) {
	full := append([]string{"-C", root}, args...)
	logging.Debug("running git", "cmd", shellquote.Join(append([]string{"git"}, full...)...))

	out, err := execr.Execute(ctx, "git", full...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func shortSHA(long string) string {
	if len(long) > 7 {
		return long[:7]
	}
	return long
}

// normalizeDate converts git's "%ci" output (2024-03-01 12:34:56 +0100)
// into the compact ISO form recorded in stamps (2024-03-01T12:34:56+0100).
func normalizeDate(date string) string {
	lines := strings.Split(strings.TrimSpace(date), "\n")
	d := strings.TrimSpace(lines[len(lines)-1])
	d = strings.Replace(d, " ", "T", 1)
	return strings.Replace(d, " ", "", 1)
}
