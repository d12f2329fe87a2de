package controllers

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/sourcepatch/internal/domain/commands"
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// OptimizeController handles the "optimize" subcommand.
type OptimizeController struct {
	command commands.Optimize
}

// NewOptimizeController creates a new OptimizeController.
func NewOptimizeController(command commands.Optimize) *OptimizeController {
	return &OptimizeController{command: command}
}

// GetBind returns the Cobra command metadata for the optimize controller.
func (it *OptimizeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "optimize <path>",
		Short: "Apply the size optimizations to a Feishin source tree",
		Long: `Rewrite the build configuration, package.json and module sources of a
Feishin checkout so that the packaged application is smaller.

Every edit is idempotent: running the command on an already optimized
tree changes nothing. Each category prints whether it changed anything.`,
	}
}

func (it *OptimizeController) AddFlags(_ *cobra.Command) {}

// Execute runs the optimizations and prints one status line per category.
func (it *OptimizeController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected the Feishin source directory, got %d arguments", len(args))
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	report, err := it.command.Execute(context.Background(), settings, commands.OptimizeOptions{
		Root:    args[0],
		DryRun:  dryRun,
		Verbose: verbose,
	})
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}
	return nil
}

func printReport(out io.Writer, report *entities.Report) {
	for _, category := range report.Categories {
		value := fmt.Sprint(category.Updated())
		if category.PerFile {
			value = fmt.Sprint(category.Changed)
		}

		line := fmt.Sprintf("%s updated: %s", category.Name, value)
		if category.Updated() {
			line = color.GreenString(line)
		} else {
			line = color.New(color.Faint).Sprint(line)
		}
		_, _ = fmt.Fprintln(out, line)
	}
	if report.DryRun {
		_, _ = fmt.Fprintln(out, color.YellowString("dry run: no file was written"))
	}
}
