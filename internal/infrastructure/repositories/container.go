package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/sourcepatch/internal/domain/repositories"
	debRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/debian"
	fsRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/filesystem"
	gitRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/gitlab"
	npmRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/npm"
	wfRepo "github.com/rios0rios0/sourcepatch/internal/infrastructure/repositories/workflow"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register release provider registry with all release host factories
	if err := container.Provide(func() *ReleaseProviderRegistry {
		reg := NewReleaseProviderRegistry()
		reg.Register("github", ghRepo.NewGitHubReleaseRepository)
		reg.Register("gitlab", glRepo.NewGitLabReleaseRepository)
		return reg
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *ReleaseProviderRegistry) domainRepos.ReleaseProvider {
		return reg
	}); err != nil {
		return err
	}

	for _, constructor := range []any{
		npmRepo.NewNpmVersionRepository,
		fsRepo.NewFilesystemSourceRepository,
		gitRepo.NewGitWorktreeRepository,
		debRepo.NewDebianPackageInspector,
		wfRepo.NewGitHubActionsWorkflowRepository,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}
