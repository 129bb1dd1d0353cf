package version

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/logging"
	"github.com/blaze-data/blaze/internal/system"
	"github.com/blaze-data/blaze/internal/vcs"
)

// unknown is the terminal fallback when no source can produce a version.
func unknown() Info {
	return Info{
		Version: "0+unknown",
		Error:   "unable to compute version",
	}
}

// Get resolves the project version through the source chain: stamp file,
// live VCS metadata, parent directory name, then "0+unknown".
func Get(ctx context.Context, fsys system.FileSystem, execr system.CommandExecutor, root string, cfg *config.VersioningConfig) Info {
	if cfg.VersionfileSource != "" {
		if info, err := ReadStamp(fsys, root, cfg.VersionfileSource); err == nil {
			logging.Debug("version from stamp", "file", cfg.VersionfileSource, "version", info.Version)
			return info
		}
	}

	return GetLive(ctx, fsys, execr, root, cfg)
}

// GetLive resolves the version from live sources only: VCS metadata,
// then the parent directory name, then "0+unknown". Any existing stamp
// file is ignored, so writing a new stamp always reflects the current
// checkout rather than re-reading a previous stamp.
func GetLive(ctx context.Context, fsys system.FileSystem, execr system.CommandExecutor, root string, cfg *config.VersioningConfig) Info {
	if vcs.IsRepo(fsys, root) {
		pieces, err := vcs.FromVCS(ctx, execr, root, cfg.TagPrefix)
		if err == nil {
			info, renderErr := Render(pieces, cfg.Style)
			if renderErr == nil {
				logging.Debug("version from VCS", "version", info.Version)
				return info
			}
		} else {
			logging.Debug("VCS lookup failed", "error", err)
		}
	}

	if cfg.ParentdirPrefix != "" {
		if info, ok := FromParentdir(root, cfg.ParentdirPrefix); ok {
			logging.Debug("version from parent directory", "version", info.Version)
			return info
		}
	}

	return unknown()
}

// FromParentdir infers the version from the name of the project
// directory, the convention for unpacked release tarballs
// (prefix "blaze-" turns directory blaze-1.2.0 into version 1.2.0).
// The root directory and up to two ancestors are considered.
func FromParentdir(root, prefix string) (Info, bool) {
	dir := root
	for i := 0; i < 3; i++ {
		base := filepath.Base(dir)
		if strings.HasPrefix(base, prefix) {
			return Info{Version: base[len(prefix):]}, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return Info{}, false
}

// stampPath resolves a configured stamp location to an absolute path,
// confined to the project root.
func stampPath(root, rel string) (string, error) {
	path, err := securejoin.SecureJoin(root, rel)
	if err != nil {
		return "", fmt.Errorf("invalid stamp path %q: %w", rel, err)
	}
	return path, nil
}

// ReadStamp loads a previously written stamp file.
func ReadStamp(fsys system.FileSystem, root, rel string) (Info, error) {
	path, err := stampPath(root, rel)
	if err != nil {
		return Info{}, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read stamp %s: %w", rel, err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("failed to parse stamp %s: %w", rel, err)
	}
	if info.Version == "" {
		return Info{}, fmt.Errorf("stamp %s carries no version", rel)
	}

	return info, nil
}

// WriteStamp writes the version record to the configured stamp location.
func WriteStamp(fsys system.FileSystem, root, rel string, info Info) error {
	path, err := stampPath(root, rel)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create stamp directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stamp: %w", err)
	}
	data = append(data, '\n')

	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stamp: %w", err)
	}

	logging.Debug("wrote stamp", "path", path, "version", info.Version)
	return nil
}
