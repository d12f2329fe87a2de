package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const (
	electronBuilderFile = "electron-builder.yml"
	electronViteFile    = "electron.vite.config.ts"
	remoteViteFile      = "remote.vite.config.ts"
	manifestFile        = "package.json"

	CategoryElectronBuilder = electronBuilderFile
	CategoryElectronVite    = electronViteFile
	CategoryRemoteVite      = remoteViteFile
	CategoryManifest        = manifestFile
	CategoryImports         = "react-icons files"
	CategoryGuards          = "ipcMain idempotency files"
)

// Optimize is the interface for the optimize command.
type Optimize interface {
	Execute(ctx context.Context, settings *entities.Settings, opts OptimizeOptions) (*entities.Report, error)
}

// OptimizeOptions holds runtime options for the optimize command.
type OptimizeOptions struct {
	Root    string
	DryRun  bool
	Verbose bool
}

// OptimizeCommand applies the size optimizations to a Feishin source tree.
// Files are processed one at a time: read, transform, compare, and written
// back only when the content changed.
type OptimizeCommand struct {
	sources  repositories.SourceRepository
	versions repositories.VersionRepository
	worktree repositories.WorktreeRepository
}

// NewOptimizeCommand creates a new OptimizeCommand.
func NewOptimizeCommand(
	sources repositories.SourceRepository,
	versions repositories.VersionRepository,
	worktree repositories.WorktreeRepository,
) *OptimizeCommand {
	return &OptimizeCommand{sources: sources, versions: versions, worktree: worktree}
}

// configTarget is a build configuration file and the substitutions it gets.
type configTarget struct {
	category string
	file     string
	rules    []patcher.Substitution
}

func configTargets() []configTarget {
	return []configTarget{
		{category: CategoryElectronBuilder, file: electronBuilderFile, rules: patcher.ElectronBuilderRules()},
		{category: CategoryElectronVite, file: electronViteFile, rules: patcher.ElectronViteRules()},
		{category: CategoryRemoteVite, file: remoteViteFile, rules: patcher.RemoteViteRules()},
	}
}

// Execute runs every rewrite category against opts.Root. Missing target
// files and an undecodable manifest abort the run before anything is written.
func (it *OptimizeCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts OptimizeOptions,
) (*entities.Report, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	for _, name := range []string{electronBuilderFile, electronViteFile, remoteViteFile, manifestFile} {
		if !it.sources.Exists(filepath.Join(root, name)) {
			return nil, fmt.Errorf("%w: %s", entities.ErrMissingTarget, filepath.Join(root, name))
		}
	}

	plan, err := it.planManifest(ctx, settings, filepath.Join(root, manifestFile))
	if err != nil {
		return nil, err
	}

	report := &entities.Report{DryRun: opts.DryRun, WorktreeChanges: -1}

	for _, target := range configTargets() {
		rules := target.rules
		result, changed, processErr := it.processFiles(
			target.category,
			[]string{filepath.Join(root, target.file)},
			func(content string) (string, bool) { return patcher.ApplyAll(content, rules) },
			opts,
		)
		if processErr != nil {
			return report, processErr
		}
		report.Add(result, changed)
	}

	result, changed, err := it.processFiles(
		CategoryManifest,
		[]string{filepath.Join(root, manifestFile)},
		func(content string) (string, bool) { return patcher.RewriteManifest(content, plan) },
		opts,
	)
	if err != nil {
		return report, err
	}
	report.Add(result, changed)

	rewrite := settings.ImportRewrite()
	if err = it.processGlob(report, root, CategoryImports, settings.Imports.Globs, settings.Exclude,
		func(content string) (string, bool) { return patcher.RegroupImports(content, rewrite) },
		opts,
	); err != nil {
		return report, err
	}

	policy := settings.GuardPolicy()
	if err = it.processGlob(report, root, CategoryGuards, settings.Guards.Globs, settings.Exclude,
		func(content string) (string, bool) { return patcher.InsertGuards(content, policy) },
		opts,
	); err != nil {
		return report, err
	}

	if !opts.DryRun {
		it.summarizeWorktree(report, root)
	}
	return report, nil
}

// planManifest decodes the manifest and resolves the rolldown-vite version.
// A failed registry lookup leaves the vite entry untouched.
func (it *OptimizeCommand) planManifest(
	ctx context.Context,
	settings *entities.Settings,
	path string,
) (patcher.ManifestPlan, error) {
	file, err := it.sources.Read(path)
	if err != nil {
		return patcher.ManifestPlan{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	info, err := patcher.InspectManifest([]byte(file.Content))
	if err != nil {
		return patcher.ManifestPlan{}, fmt.Errorf("%s: %w", path, err)
	}

	plan := patcher.NewManifestPlan(info)
	major, ok := info.ViteMajor()
	if !ok || major != settings.Registry.ViteMajor {
		return plan, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, settings.RegistryTimeout())
	defer cancel()
	version, found := it.versions.HighestVersion(lookupCtx, repositories.VersionQuery{
		Registry: settings.Registry.URL,
		Package:  patcher.RolldownVitePackage,
		Major:    major,
	})
	if !found {
		logger.Warnf("[optimize] No %s %d.x release found, keeping vite as is", patcher.RolldownVitePackage, major)
		return plan, nil
	}
	logger.Debugf("[optimize] Resolved %s %s", patcher.RolldownVitePackage, version)
	plan.ViteVersion = version
	return plan, nil
}

func (it *OptimizeCommand) processGlob(
	report *entities.Report,
	root, category string,
	include, exclude []string,
	transform entities.Transform,
	opts OptimizeOptions,
) error {
	paths, err := it.sources.Glob(root, include, exclude)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", category, err)
	}
	result, changed, err := it.processFiles(category, paths, transform, opts)
	if err != nil {
		return err
	}
	result.PerFile = true
	report.Add(result, changed)
	return nil
}

// processFiles applies transform to every path and writes back the files
// whose content changed, unless this is a dry run.
func (it *OptimizeCommand) processFiles(
	category string,
	paths []string,
	transform entities.Transform,
	opts OptimizeOptions,
) (entities.CategoryResult, []string, error) {
	result := entities.CategoryResult{Name: category, Scanned: len(paths)}
	var changed []string

	for _, path := range paths {
		file, err := it.sources.Read(path)
		if err != nil {
			return result, changed, fmt.Errorf("failed to read %s: %w", path, err)
		}

		edit := file.Apply(transform)
		if !edit.Changed {
			continue
		}

		if !opts.DryRun {
			if writeErr := it.sources.Write(entities.SourceFile{Path: path, Content: edit.Content}); writeErr != nil {
				return result, changed, fmt.Errorf("failed to write %s: %w", path, writeErr)
			}
		}
		result.Changed++
		changed = append(changed, path)

		if opts.Verbose {
			logger.Infof("[optimize] %s rewrite: %s", category, path)
		} else {
			logger.Debugf("[optimize] %s rewrite: %s", category, path)
		}
	}
	return result, changed, nil
}

func (it *OptimizeCommand) summarizeWorktree(report *entities.Report, root string) {
	paths, err := it.worktree.ChangedPaths(root)
	if err != nil {
		logger.Debugf("[optimize] Skipping work tree summary: %v", err)
		return
	}
	report.WorktreeChanges = len(paths)
	logger.Infof("[optimize] %d path(s) differ from HEAD", len(paths))
}
