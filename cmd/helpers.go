package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	isatty "github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/blaze-data/blaze/internal/app"
	"github.com/blaze-data/blaze/internal/config"
	"github.com/blaze-data/blaze/internal/errors"
	"github.com/blaze-data/blaze/internal/tui"
	"github.com/blaze-data/blaze/internal/vcs"
	"github.com/blaze-data/blaze/internal/version"
)

// printRecord writes a version record in the requested format. Text
// prints the version string alone; json and yaml print the full record.
func printRecord(cmd *cobra.Command, info version.Info, format string) error {
	switch format {
	case "", "text":
		fmt.Fprintln(cmd.OutOrStdout(), info.Version)
		return nil

	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil

	case "yaml":
		data, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil

	default:
		return errors.ValidationError(fmt.Sprintf("unknown format %q: use text, json, or yaml", format))
	}
}

// resolveVersion produces the version record for the project, either
// through the normal source chain or for an interactively picked tag.
// With live set, any existing stamp file is skipped so the result
// reflects the current checkout; stamping uses this so a previous
// stamp never shadows new commits or tags.
func resolveVersion(cmd *cobra.Command, cfg *config.VersioningConfig, style string, pick, live bool) (version.Info, error) {
	a := app.Default

	if style == "" {
		style = cfg.Style
	}

	if pick {
		pieces, err := pickTagPieces(cmd, cfg)
		if err != nil {
			return version.Info{}, err
		}
		if pieces == nil {
			// Picker dismissed
			return version.Info{}, errors.ValidationError("no tag selected")
		}
		info, err := version.Render(pieces, style)
		if err != nil {
			return version.Info{}, errors.VCSError("failed to render version", err)
		}
		return info, nil
	}

	derived := *cfg
	derived.Style = style
	if live {
		return version.GetLive(cmd.Context(), a.FS, a.Executor, a.Root, &derived), nil
	}
	return version.Get(cmd.Context(), a.FS, a.Executor, a.Root, &derived), nil
}

// pickTagPieces lists the project's release tags, runs the interactive
// picker, and resolves the chosen tag. Returns nil pieces when the
// picker is dismissed. Without a terminal the tags are listed instead.
func pickTagPieces(cmd *cobra.Command, cfg *config.VersioningConfig) (*vcs.Pieces, error) {
	a := app.Default
	ctx := cmd.Context()

	if !vcs.IsRepo(a.FS, a.Root) {
		return nil, errors.NotARepo(a.Root)
	}

	tags, err := vcs.Tags(ctx, a.Executor, a.Root, cfg.TagPrefix)
	if err != nil {
		return nil, errors.VCSError("failed to list tags", err)
	}
	if len(tags) == 0 {
		return nil, errors.VCSError(fmt.Sprintf("no tags with prefix %q", cfg.TagPrefix), nil)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimplePicker(tags))
		return nil, errors.ValidationError("--pick needs an interactive terminal")
	}

	result, err := tui.RunPicker(tags)
	if err != nil {
		return nil, errors.VCSError("tag picker failed", err)
	}
	if result.Action != tui.ActionSelect || result.Tag == nil {
		return nil, nil
	}

	pieces, err := vcs.PiecesAtTag(ctx, a.Executor, a.Root, result.Tag.Name, cfg.TagPrefix)
	if err != nil {
		return nil, errors.VCSError("failed to resolve tag", err)
	}
	return pieces, nil
}
