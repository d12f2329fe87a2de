package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

// Resolve is the interface for the resolve command.
type Resolve interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ResolveOptions) (*entities.ReleaseInfo, error)
}

// ResolveOptions holds the values that take precedence over the derived ones.
// Tag selects the upstream release; an empty Tag means the latest one.
type ResolveOptions struct {
	Tag        string
	ReleaseTag string
	Pkgver     string
	Assetver   string
}

// ResolveCommand finds the upstream release to package and hands its
// version values to the rest of the workflow.
type ResolveCommand struct {
	releases repositories.ReleaseProvider
	workflow repositories.WorkflowRepository
}

// NewResolveCommand creates a new ResolveCommand.
func NewResolveCommand(
	releases repositories.ReleaseProvider,
	workflow repositories.WorkflowRepository,
) *ResolveCommand {
	return &ResolveCommand{releases: releases, workflow: workflow}
}

// Execute resolves the upstream release and writes the workflow outputs.
func (it *ResolveCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ResolveOptions,
) (*entities.ReleaseInfo, error) {
	releases, err := it.releases.Get(settings.Release.Provider, settings.GitHubToken)
	if err != nil {
		return nil, err
	}

	repository := settings.Release.UpstreamRepository
	release, err := fetchRelease(ctx, releases, repository, opts.Tag)
	if err != nil {
		return nil, err
	}

	asset, found := release.FindAsset(settings.Release.AssetSuffix)
	if !found {
		return nil, fmt.Errorf("%w: no %s asset in %s@%s",
			entities.ErrAssetNotFound, settings.Release.AssetSuffix, repository, release.Tag)
	}

	layout := settings.ReleaseLayout()
	info := &entities.ReleaseInfo{
		Repository:  repository,
		UpstreamTag: release.Tag,
		ReleaseTag:  firstNonEmpty(opts.ReleaseTag, release.Tag),
		Pkgver:      firstNonEmpty(opts.Pkgver, patcher.PkgverFromTag(release.Tag)),
		Assetver:    firstNonEmpty(opts.Assetver, layout.AssetVersion(asset.Name)),
		Asset:       asset,
	}

	if err = it.workflow.SetOutputs(info.Outputs()); err != nil {
		return info, fmt.Errorf("failed to write step outputs: %w", err)
	}
	if err = it.workflow.SetEnv(info.Environment()); err != nil {
		return info, fmt.Errorf("failed to write workflow environment: %w", err)
	}

	logger.Infof("[resolve] Resolved upstream tag: %s", info.UpstreamTag)
	logger.Infof("[resolve] Resolved release tag: %s", info.ReleaseTag)
	return info, nil
}

// fetchRelease returns the release tagged tag, or the latest one when tag
// is empty.
func fetchRelease(
	ctx context.Context,
	releases repositories.ReleaseRepository,
	repository, tag string,
) (entities.Release, error) {
	if tag == "" {
		release, err := releases.GetLatestRelease(ctx, repository)
		if err != nil {
			return entities.Release{}, fmt.Errorf("failed to fetch latest release of %s: %w", repository, err)
		}
		return release, nil
	}

	release, err := releases.GetReleaseByTag(ctx, repository, tag)
	if err != nil {
		return entities.Release{}, fmt.Errorf("failed to fetch release %s of %s: %w", tag, repository, err)
	}
	return release, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
