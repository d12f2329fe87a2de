package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

// packageProvider hosts the package repository. ReleaseLayout builds its
// asset URLs on github.com, whatever host the upstream project uses.
const packageProvider = "github"

// Pkgbuild is the interface for the pkgbuild command.
type Pkgbuild interface {
	Execute(ctx context.Context, settings *entities.Settings, opts PkgbuildOptions) (*entities.PkgbuildState, error)
}

// PkgbuildOptions holds runtime options for the pkgbuild command. Tag,
// Pkgver and Assetver override the values derived from the release.
type PkgbuildOptions struct {
	Dir      string
	DryRun   bool
	Tag      string
	Pkgver   string
	Assetver string
}

// PkgbuildCommand keeps a PKGBUILD and its .SRCINFO pinned to the latest
// packaged release.
type PkgbuildCommand struct {
	sources   repositories.SourceRepository
	releases  repositories.ReleaseProvider
	inspector repositories.PackageInspector
	workflow  repositories.WorkflowRepository
}

// NewPkgbuildCommand creates a new PkgbuildCommand.
func NewPkgbuildCommand(
	sources repositories.SourceRepository,
	releases repositories.ReleaseProvider,
	inspector repositories.PackageInspector,
	workflow repositories.WorkflowRepository,
) *PkgbuildCommand {
	return &PkgbuildCommand{sources: sources, releases: releases, inspector: inspector, workflow: workflow}
}

// Execute compares the pinned version with the release and rewrites both
// files when any pinned value differs.
func (it *PkgbuildCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts PkgbuildOptions,
) (*entities.PkgbuildState, error) {
	pkgbuildPath := filepath.Join(opts.Dir, settings.Package.Pkgbuild)
	srcinfoPath := filepath.Join(opts.Dir, settings.Package.Srcinfo)
	for _, path := range []string{pkgbuildPath, srcinfoPath} {
		if !it.sources.Exists(path) {
			return nil, fmt.Errorf("%w: %s", entities.ErrMissingTarget, path)
		}
	}

	pkgbuild, err := it.sources.Read(pkgbuildPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pkgbuildPath, err)
	}
	current, appName, err := patcher.ReadPackageVersion(pkgbuild.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pkgbuildPath, err)
	}

	latest, err := it.latestVersion(ctx, settings, opts, appName)
	if err != nil {
		return nil, err
	}

	state := &entities.PkgbuildState{AppName: appName, Current: current, Latest: latest}
	if current.SameBuild(latest) {
		logger.Info("[pkgbuild] No update available.")
		return state, it.export(state)
	}

	srcinfo, err := it.sources.Read(srcinfoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcinfoPath, err)
	}
	updates := []entities.SourceFile{
		{Path: pkgbuildPath, Content: patcher.ReconcilePkgbuild(pkgbuild.Content, latest)},
		{Path: srcinfoPath, Content: patcher.ReconcileSrcinfo(srcinfo.Content, latest, settings.ReleaseLayout())},
	}
	if !opts.DryRun {
		for _, file := range updates {
			if err = it.sources.Write(file); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", file.Path, err)
			}
		}
	}

	state.Updated = true
	logger.Infof("[pkgbuild] Updated to %s (%s).", latest.Pkgver, latest.Tag)
	return state, it.export(state)
}

// latestVersion resolves the packaged release and measures its asset: the
// checksum of the download and the Electron major of the bundled binary.
func (it *PkgbuildCommand) latestVersion(
	ctx context.Context,
	settings *entities.Settings,
	opts PkgbuildOptions,
	appName string,
) (patcher.PackageVersion, error) {
	releases, err := it.releases.Get(packageProvider, settings.GitHubToken)
	if err != nil {
		return patcher.PackageVersion{}, err
	}

	repository := settings.Package.Repository
	release, err := fetchRelease(ctx, releases, repository, opts.Tag)
	if err != nil {
		return patcher.PackageVersion{}, err
	}

	asset, found := release.FindAsset(settings.Release.AssetSuffix)
	if !found {
		return patcher.PackageVersion{}, fmt.Errorf("%w: no %s asset in %s@%s",
			entities.ErrAssetNotFound, settings.Release.AssetSuffix, repository, release.Tag)
	}

	workdir, err := os.MkdirTemp("", "sourcepatch-")
	if err != nil {
		return patcher.PackageVersion{}, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workdir)

	packagePath := filepath.Join(workdir, filepath.Base(asset.Name))
	sha, err := releases.DownloadAsset(ctx, asset, packagePath)
	if err != nil {
		return patcher.PackageVersion{}, fmt.Errorf("failed to download %s: %w", asset.Name, err)
	}
	logger.Debugf("[pkgbuild] Downloaded %s (sha256 %s)", asset.Name, sha)

	electron, err := it.inspector.ElectronMajor(ctx, packagePath, appName)
	if err != nil {
		return patcher.PackageVersion{}, fmt.Errorf("failed to inspect %s: %w", asset.Name, err)
	}

	return patcher.PackageVersion{
		Tag:      release.Tag,
		Pkgver:   firstNonEmpty(opts.Pkgver, patcher.PkgverFromTag(release.Tag)),
		Assetver: firstNonEmpty(opts.Assetver, settings.ReleaseLayout().AssetVersion(asset.Name)),
		Electron: electron,
		Sha256:   sha,
	}, nil
}

func (it *PkgbuildCommand) export(state *entities.PkgbuildState) error {
	if err := it.workflow.SetEnv(state.Environment()); err != nil {
		return fmt.Errorf("failed to write workflow environment: %w", err)
	}
	return nil
}
