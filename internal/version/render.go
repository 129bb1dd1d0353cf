package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blaze-data/blaze/internal/vcs"
)

// Info is the rendered version record. It is also the JSON shape of
// stamp files.
type Info struct {
	Version        string `json:"version"`
	FullRevisionID string `json:"full-revisionid"`
	Dirty          *bool  `json:"dirty"`
	Error          string `json:"error,omitempty"`
	Date           string `json:"date,omitempty"`
}

// Render turns raw VCS pieces into a version record using the given
// style. An empty style renders pep440.
func Render(pieces *vcs.Pieces, style string) (Info, error) {
	if pieces.Err != "" {
		return Info{
			Version:        "unknown",
			FullRevisionID: pieces.LongSHA,
			Error:          pieces.Err,
		}, nil
	}

	var rendered string
	switch style {
	case "", "pep440":
		rendered = renderPep440(pieces)
	case "pep440-branch":
		rendered = renderPep440Branch(pieces)
	case "pep440-pre":
		rendered = renderPep440Pre(pieces)
	case "pep440-post":
		rendered = renderPep440Post(pieces)
	case "pep440-post-branch":
		rendered = renderPep440PostBranch(pieces)
	case "pep440-old":
		rendered = renderPep440Old(pieces)
	case "git-describe":
		rendered = renderGitDescribe(pieces)
	case "git-describe-long":
		rendered = renderGitDescribeLong(pieces)
	default:
		return Info{}, fmt.Errorf("unknown style %q", style)
	}

	dirty := pieces.Dirty
	return Info{
		Version:        rendered,
		FullRevisionID: pieces.LongSHA,
		Dirty:          &dirty,
		Date:           pieces.Date,
	}, nil
}

// plusOrDot returns the separator that starts the local version segment.
// A tag that already contains "+" continues its local segment with ".".
func plusOrDot(pieces *vcs.Pieces) string {
	if strings.Contains(pieces.ClosestTag, "+") {
		return "."
	}
	return "+"
}

// onTrunk reports whether the branch is the primary line of development.
func onTrunk(branch string) bool {
	return branch == "master" || branch == "main"
}

// renderPep440 builds TAG[+DISTANCE.gSHORT[.dirty]].
func renderPep440(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 || pieces.Dirty {
			fmt.Fprintf(&b, "%s%d.g%s", plusOrDot(pieces), pieces.Distance, pieces.ShortSHA)
			if pieces.Dirty {
				b.WriteString(".dirty")
			}
		}
	} else {
		fmt.Fprintf(&b, "0+untagged.%d.g%s", pieces.Distance, pieces.ShortSHA)
		if pieces.Dirty {
			b.WriteString(".dirty")
		}
	}
	return b.String()
}

// renderPep440Branch inserts .dev0 into the local segment when the
// checkout is not on the primary branch, marking it as older than the
// tagged release it derives from.
func renderPep440Branch(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 || pieces.Dirty {
			if !onTrunk(pieces.Branch) {
				b.WriteString(".dev0")
			}
			fmt.Fprintf(&b, "%s%d.g%s", plusOrDot(pieces), pieces.Distance, pieces.ShortSHA)
			if pieces.Dirty {
				b.WriteString(".dirty")
			}
		}
	} else {
		b.WriteString("0")
		if !onTrunk(pieces.Branch) {
			b.WriteString(".dev0")
		}
		fmt.Fprintf(&b, "+untagged.%d.g%s", pieces.Distance, pieces.ShortSHA)
		if pieces.Dirty {
			b.WriteString(".dirty")
		}
	}
	return b.String()
}

// splitPost splits a version into the part before any ".postN" suffix
// and the value of N. ok is false when no post segment is present.
func splitPost(ver string) (string, int, bool) {
	i := strings.LastIndex(ver, ".post")
	if i < 0 {
		return ver, 0, false
	}
	n, err := strconv.Atoi(ver[i+len(".post"):])
	if err != nil {
		return ver, 0, false
	}
	return ver[:i], n, true
}

// renderPep440Pre builds TAG[.postN.devDISTANCE], bumping an existing
// post segment so the pre-release sorts after the tagged release.
func renderPep440Pre(pieces *vcs.Pieces) string {
	if pieces.ClosestTag == "" {
		return fmt.Sprintf("0.post0.dev%d", pieces.Distance)
	}
	if pieces.Distance == 0 {
		return pieces.ClosestTag
	}

	tagVersion, post, ok := splitPost(pieces.ClosestTag)
	if ok {
		return fmt.Sprintf("%s.post%d.dev%d", tagVersion, post+1, pieces.Distance)
	}
	return fmt.Sprintf("%s.post0.dev%d", pieces.ClosestTag, pieces.Distance)
}

// renderPep440Post builds TAG[.postDISTANCE[.dev0]+gSHORT].
func renderPep440Post(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 || pieces.Dirty {
			fmt.Fprintf(&b, ".post%d", pieces.Distance)
			if pieces.Dirty {
				b.WriteString(".dev0")
			}
			fmt.Fprintf(&b, "%sg%s", plusOrDot(pieces), pieces.ShortSHA)
		}
	} else {
		fmt.Fprintf(&b, "0.post%d", pieces.Distance)
		if pieces.Dirty {
			b.WriteString(".dev0")
		}
		fmt.Fprintf(&b, "+g%s", pieces.ShortSHA)
	}
	return b.String()
}

// renderPep440PostBranch is the post style with the branch-aware .dev0
// marker and a .dirty annotation in the local segment.
func renderPep440PostBranch(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 || pieces.Dirty {
			fmt.Fprintf(&b, ".post%d", pieces.Distance)
			if !onTrunk(pieces.Branch) {
				b.WriteString(".dev0")
			}
			fmt.Fprintf(&b, "%sg%s", plusOrDot(pieces), pieces.ShortSHA)
			if pieces.Dirty {
				b.WriteString(".dirty")
			}
		}
	} else {
		fmt.Fprintf(&b, "0.post%d", pieces.Distance)
		if !onTrunk(pieces.Branch) {
			b.WriteString(".dev0")
		}
		fmt.Fprintf(&b, "+g%s", pieces.ShortSHA)
		if pieces.Dirty {
			b.WriteString(".dirty")
		}
	}
	return b.String()
}

// renderPep440Old builds TAG[.postDISTANCE[.dev0]] without any local
// segment, for consumers that reject local version identifiers.
func renderPep440Old(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 || pieces.Dirty {
			fmt.Fprintf(&b, ".post%d", pieces.Distance)
			if pieces.Dirty {
				b.WriteString(".dev0")
			}
		}
	} else {
		fmt.Fprintf(&b, "0.post%d", pieces.Distance)
		if pieces.Dirty {
			b.WriteString(".dev0")
		}
	}
	return b.String()
}

// renderGitDescribe mirrors 'git describe --tags --dirty --always'.
func renderGitDescribe(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		b.WriteString(pieces.ClosestTag)
		if pieces.Distance > 0 {
			fmt.Fprintf(&b, "-%d-g%s", pieces.Distance, pieces.ShortSHA)
		}
	} else {
		b.WriteString(pieces.ShortSHA)
	}
	if pieces.Dirty {
		b.WriteString("-dirty")
	}
	return b.String()
}

// renderGitDescribeLong mirrors the --long form: the distance and SHA
// appear even on an exact tag.
func renderGitDescribeLong(pieces *vcs.Pieces) string {
	var b strings.Builder
	if pieces.ClosestTag != "" {
		fmt.Fprintf(&b, "%s-%d-g%s", pieces.ClosestTag, pieces.Distance, pieces.ShortSHA)
	} else {
		b.WriteString(pieces.ShortSHA)
	}
	if pieces.Dirty {
		b.WriteString("-dirty")
	}
	return b.String()
}
