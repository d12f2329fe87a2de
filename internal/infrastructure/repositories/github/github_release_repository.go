package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/download"
)

const providerName = "github"

var errInvalidRepository = errors.New("repository must be in owner/name form")

// GitHubReleaseRepository implements repositories.ReleaseRepository for GitHub.
type GitHubReleaseRepository struct {
	token      string
	client     *gh.Client
	downloader *http.Client
}

// NewGitHubReleaseRepository creates a new GitHub release repository. An
// empty token uses the anonymous API rate limit.
func NewGitHubReleaseRepository(token string) repositories.ReleaseRepository {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return newGitHubReleaseRepository(token, client)
}

func newGitHubReleaseRepository(token string, client *gh.Client) *GitHubReleaseRepository {
	return &GitHubReleaseRepository{
		token:      token,
		client:     client,
		downloader: &http.Client{Timeout: download.DefaultTimeout},
	}
}

func (p *GitHubReleaseRepository) GetLatestRelease(
	ctx context.Context,
	repository string,
) (entities.Release, error) {
	owner, name, err := splitRepository(repository)
	if err != nil {
		return entities.Release{}, err
	}

	release, _, err := p.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		return entities.Release{}, fmt.Errorf("failed to get latest release: %w", err)
	}
	return toRelease(release), nil
}

func (p *GitHubReleaseRepository) GetReleaseByTag(
	ctx context.Context,
	repository, tag string,
) (entities.Release, error) {
	owner, name, err := splitRepository(repository)
	if err != nil {
		return entities.Release{}, err
	}

	release, _, err := p.client.Repositories.GetReleaseByTag(ctx, owner, name, tag)
	if err != nil {
		return entities.Release{}, fmt.Errorf("failed to get release %q: %w", tag, err)
	}
	return toRelease(release), nil
}

// DownloadAsset fetches the asset from its browser download URL, sending
// the token so that assets of private repositories resolve too.
func (p *GitHubReleaseRepository) DownloadAsset(
	ctx context.Context,
	asset entities.ReleaseAsset,
	destination string,
) (string, error) {
	headers := map[string]string{"Accept": "application/octet-stream"}
	if p.token != "" {
		headers["Authorization"] = "Bearer " + p.token
	}

	logger.Debugf("[%s] Downloading %s to %s", providerName, asset.Name, destination)
	sum, err := download.FromURL(ctx, p.downloader, asset.DownloadURL, destination, headers)
	if err != nil {
		return "", fmt.Errorf("failed to download asset %q: %w", asset.Name, err)
	}
	return sum, nil
}

func toRelease(release *gh.RepositoryRelease) entities.Release {
	assets := make([]entities.ReleaseAsset, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, entities.ReleaseAsset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}
	return entities.Release{Tag: release.GetTagName(), Assets: assets}
}

func splitRepository(repository string) (string, string, error) {
	owner, name, found := strings.Cut(repository, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", errInvalidRepository, repository)
	}
	return owner, name, nil
}
