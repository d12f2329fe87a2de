//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// StubReleaseRepository implements repositories.ReleaseRepository from
// canned releases.
type StubReleaseRepository struct {
	// --- GetLatestRelease ---
	Latest    entities.Release
	LatestErr error

	// --- GetReleaseByTag ---
	Tagged map[string]entities.Release

	// --- DownloadAsset ---
	Sha256      string
	DownloadErr error

	// spy: requests received
	Repositories []string
	Downloads    []DownloadCall
}

// DownloadCall records a single invocation of DownloadAsset.
type DownloadCall struct {
	Asset       entities.ReleaseAsset
	Destination string
}

var _ repositories.ReleaseRepository = (*StubReleaseRepository)(nil)

func (s *StubReleaseRepository) GetLatestRelease(_ context.Context, repository string) (entities.Release, error) {
	s.Repositories = append(s.Repositories, repository)
	return s.Latest, s.LatestErr
}

func (s *StubReleaseRepository) GetReleaseByTag(
	_ context.Context, repository, tag string,
) (entities.Release, error) {
	s.Repositories = append(s.Repositories, repository)
	release, ok := s.Tagged[tag]
	if !ok {
		return entities.Release{}, fmt.Errorf("release %s: %w", tag, ErrStubFailure)
	}
	return release, nil
}

func (s *StubReleaseRepository) DownloadAsset(
	_ context.Context, asset entities.ReleaseAsset, destination string,
) (string, error) {
	s.Downloads = append(s.Downloads, DownloadCall{Asset: asset, Destination: destination})
	return s.Sha256, s.DownloadErr
}

// StubPackageInspector implements repositories.PackageInspector with a fixed answer.
type StubPackageInspector struct {
	Major   string
	Err     error
	AppName string
}

var _ repositories.PackageInspector = (*StubPackageInspector)(nil)

func (s *StubPackageInspector) ElectronMajor(_ context.Context, _, appName string) (string, error) {
	s.AppName = appName
	return s.Major, s.Err
}

// StubReleaseProvider implements repositories.ReleaseProvider by handing out
// the same repository for every host.
type StubReleaseProvider struct {
	Repository repositories.ReleaseRepository
	Err        error

	// spy: requests received
	Names  []string
	Tokens []string
}

var _ repositories.ReleaseProvider = (*StubReleaseProvider)(nil)

// NewStubReleaseProvider creates a provider returning repository.
func NewStubReleaseProvider(repository repositories.ReleaseRepository) *StubReleaseProvider {
	return &StubReleaseProvider{Repository: repository}
}

func (s *StubReleaseProvider) Get(name, token string) (repositories.ReleaseRepository, error) {
	s.Names = append(s.Names, name)
	s.Tokens = append(s.Tokens, token)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Repository, nil
}
