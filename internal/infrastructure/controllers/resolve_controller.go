package controllers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/sourcepatch/internal/domain/commands"
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// ResolveController handles the "resolve" subcommand.
type ResolveController struct {
	command commands.Resolve
}

// NewResolveController creates a new ResolveController.
func NewResolveController(command commands.Resolve) *ResolveController {
	return &ResolveController{command: command}
}

// GetBind returns the Cobra command metadata for the resolve controller.
func (it *ResolveController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "resolve",
		Short: "Resolve the upstream release to package",
		Long: `Look up the latest upstream release (or the one given with --tag),
derive the package version values from it and hand them to later steps of
a GitHub Actions workflow through $GITHUB_OUTPUT and $GITHUB_ENV.`,
	}
}

// AddFlags adds the resolve-specific flags to the given Cobra command.
func (it *ResolveController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", "", "Upstream release tag to resolve (default: latest)")
	cmd.Flags().String("release-tag", "", "Override the derived release tag")
	cmd.Flags().String("pkgver", "", "Override the derived pkgver")
	cmd.Flags().String("assetver", "", "Override the derived asset version")
}

// Execute resolves the release and writes the workflow values.
func (it *ResolveController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tag, _ := cmd.Flags().GetString("tag")
	releaseTag, _ := cmd.Flags().GetString("release-tag")
	pkgver, _ := cmd.Flags().GetString("pkgver")
	assetver, _ := cmd.Flags().GetString("assetver")

	info, err := it.command.Execute(context.Background(), settings, commands.ResolveOptions{
		Tag:        tag,
		ReleaseTag: releaseTag,
		Pkgver:     pkgver,
		Assetver:   assetver,
	})
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	for _, output := range info.Outputs() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", output.Key, output.Value)
	}
	return nil
}
