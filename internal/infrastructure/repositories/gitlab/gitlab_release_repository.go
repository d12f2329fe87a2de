package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/download"
)

const providerName = "gitlab"

var (
	errClientNotInitialized = errors.New("gitlab client not initialized")
	errNoRelease            = errors.New("project has no release")
)

// GitLabReleaseRepository implements repositories.ReleaseRepository for GitLab.
// Release assets are the links attached to a release.
type GitLabReleaseRepository struct {
	token      string
	client     *gl.Client
	downloader *http.Client
}

// NewGitLabReleaseRepository creates a new GitLab release repository with the given token.
func NewGitLabReleaseRepository(token string) repositories.ReleaseRepository {
	return newGitLabReleaseRepository(token)
}

func newGitLabReleaseRepository(token string, options ...gl.ClientOptionFunc) *GitLabReleaseRepository {
	repo := &GitLabReleaseRepository{
		token:      token,
		downloader: &http.Client{Timeout: download.DefaultTimeout},
	}
	client, err := gl.NewClient(token, options...)
	if err != nil {
		// Return a repository that will fail on use rather than panicking at construction
		logger.Debugf("[%s] Client setup failed: %v", providerName, err)
		return repo
	}
	repo.client = client
	return repo
}

// GetLatestRelease returns the most recently released entry. The API lists
// releases by release date, newest first.
func (p *GitLabReleaseRepository) GetLatestRelease(
	ctx context.Context,
	repository string,
) (entities.Release, error) {
	if p.client == nil {
		return entities.Release{}, errClientNotInitialized
	}

	releases, _, err := p.client.Releases.ListReleases(
		repository,
		&gl.ListReleasesOptions{ListOptions: gl.ListOptions{PerPage: 1}},
		gl.WithContext(ctx),
	)
	if err != nil {
		return entities.Release{}, fmt.Errorf("failed to list releases of %q: %w", repository, err)
	}
	if len(releases) == 0 {
		return entities.Release{}, fmt.Errorf("%w: %s", errNoRelease, repository)
	}
	return toRelease(releases[0]), nil
}

func (p *GitLabReleaseRepository) GetReleaseByTag(
	ctx context.Context,
	repository, tag string,
) (entities.Release, error) {
	if p.client == nil {
		return entities.Release{}, errClientNotInitialized
	}

	release, _, err := p.client.Releases.GetRelease(repository, tag, gl.WithContext(ctx))
	if err != nil {
		return entities.Release{}, fmt.Errorf("failed to get release %q of %q: %w", tag, repository, err)
	}
	return toRelease(release), nil
}

func (p *GitLabReleaseRepository) DownloadAsset(
	ctx context.Context,
	asset entities.ReleaseAsset,
	destination string,
) (string, error) {
	var headers map[string]string
	if p.token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": p.token}
	}

	logger.Debugf("[%s] Downloading %s to %s", providerName, asset.Name, destination)
	sum, err := download.FromURL(ctx, p.downloader, asset.DownloadURL, destination, headers)
	if err != nil {
		return "", fmt.Errorf("failed to download asset %q: %w", asset.Name, err)
	}
	return sum, nil
}

func toRelease(release *gl.Release) entities.Release {
	assets := make([]entities.ReleaseAsset, 0, len(release.Assets.Links))
	for _, link := range release.Assets.Links {
		downloadURL := link.DirectAssetURL
		if downloadURL == "" {
			downloadURL = link.URL
		}
		assets = append(assets, entities.ReleaseAsset{Name: link.Name, DownloadURL: downloadURL})
	}
	return entities.Release{Tag: release.TagName, Assets: assets}
}
