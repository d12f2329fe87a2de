package controllers

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/sourcepatch/internal/domain/commands"
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// PkgbuildController handles the "pkgbuild" subcommand.
type PkgbuildController struct {
	command commands.Pkgbuild
}

// NewPkgbuildController creates a new PkgbuildController.
func NewPkgbuildController(command commands.Pkgbuild) *PkgbuildController {
	return &PkgbuildController{command: command}
}

// GetBind returns the Cobra command metadata for the pkgbuild controller.
func (it *PkgbuildController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "pkgbuild [dir]",
		Short: "Bring PKGBUILD and .SRCINFO up to the latest packaged release",
		Long: `Compare the version pinned in PKGBUILD with the latest release of the
package repository. When they differ, download the release asset, measure
its checksum and Electron version, and rewrite PKGBUILD and .SRCINFO.

The release can be pinned with --tag, --pkgver and --assetver, or with the
FEISHIN_TAG, FEISHIN_PKGVER and FEISHIN_ASSETVER environment variables.`,
	}
}

// AddFlags adds the pkgbuild-specific flags to the given Cobra command.
func (it *PkgbuildController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", "", "Release tag to package (env FEISHIN_TAG, default: latest)")
	cmd.Flags().String("pkgver", "", "Override the pkgver (env FEISHIN_PKGVER)")
	cmd.Flags().String("assetver", "", "Override the asset version (env FEISHIN_ASSETVER)")
}

// Execute reconciles the package files in the given directory.
func (it *PkgbuildController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	state, err := it.command.Execute(context.Background(), settings, commands.PkgbuildOptions{
		Dir:      dir,
		DryRun:   dryRun,
		Tag:      stringOption(cmd, "tag", "FEISHIN_TAG"),
		Pkgver:   stringOption(cmd, "pkgver", "FEISHIN_PKGVER"),
		Assetver: stringOption(cmd, "assetver", "FEISHIN_ASSETVER"),
	})
	if err != nil {
		return fmt.Errorf("pkgbuild failed: %w", err)
	}

	if state.Updated {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(),
			color.GreenString("Updated to %s (%s).", state.Latest.Pkgver, state.Latest.Tag))
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Faint).Sprint("No update available."))
	}
	return nil
}
