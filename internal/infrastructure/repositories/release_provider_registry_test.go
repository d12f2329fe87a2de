//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	"github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/sourcepatch/test/infrastructure/repositorydoubles"
)

func TestReleaseProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build the repository with the token", func(t *testing.T) {
		t.Parallel()

		// given
		var received string
		stub := &repositorydoubles.StubReleaseRepository{}
		reg := repositories.NewReleaseProviderRegistry()
		reg.Register("test-provider", func(token string) domainRepos.ReleaseRepository {
			received = token
			return stub
		})

		// when
		repo, err := reg.Get("test-provider", "fake-token")

		// then
		require.NoError(t, err)
		assert.Same(t, stub, repo)
		assert.Equal(t, "fake-token", received)
	})

	t.Run("should return error for unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewReleaseProviderRegistry()

		// when
		repo, err := reg.Get("nonexistent", "token")

		// then
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "unknown release provider type")
	})

	t.Run("should name the registered providers when the type is unknown", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewReleaseProviderRegistry()
		reg.Register("gitlab", func(_ string) domainRepos.ReleaseRepository {
			return &repositorydoubles.StubReleaseRepository{}
		})
		reg.Register("github", func(_ string) domainRepos.ReleaseRepository {
			return &repositorydoubles.StubReleaseRepository{}
		})

		// when
		_, err := reg.Get("bitbucket", "")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"bitbucket" (known: github, gitlab)`)
	})

	t.Run("should list registered provider names", func(t *testing.T) {
		t.Parallel()

		// given
		reg := repositories.NewReleaseProviderRegistry()
		reg.Register("gitlab", func(_ string) domainRepos.ReleaseRepository {
			return &repositorydoubles.StubReleaseRepository{}
		})
		reg.Register("github", func(_ string) domainRepos.ReleaseRepository {
			return &repositorydoubles.StubReleaseRepository{}
		})

		// when
		names := reg.Names()

		// then
		assert.Equal(t, []string{"github", "gitlab"}, names)
	})
}
