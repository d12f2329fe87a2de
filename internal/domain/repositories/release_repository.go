package repositories

import (
	"context"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

// ReleaseRepository abstracts a release host such as GitHub.
type ReleaseRepository interface {
	// GetLatestRelease returns the latest published release of owner/name.
	GetLatestRelease(ctx context.Context, repository string) (entities.Release, error)

	// GetReleaseByTag returns the release of owner/name tagged tag.
	GetReleaseByTag(ctx context.Context, repository, tag string) (entities.Release, error)

	// DownloadAsset stores the asset at destination and returns its sha256
	// as a lowercase hex string.
	DownloadAsset(ctx context.Context, asset entities.ReleaseAsset, destination string) (string, error)
}

// ReleaseProvider hands out release repositories by host type.
type ReleaseProvider interface {
	// Get returns the repository for the host type name ("github"),
	// authenticated with token when it is not empty.
	Get(name, token string) (ReleaseRepository, error)
}
