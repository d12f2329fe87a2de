package git

import (
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// GitWorktreeRepository implements repositories.WorktreeRepository with go-git.
type GitWorktreeRepository struct{}

// NewGitWorktreeRepository creates a new GitWorktreeRepository.
func NewGitWorktreeRepository() repositories.WorktreeRepository {
	return &GitWorktreeRepository{}
}

// ChangedPaths lists the paths, relative to the work tree root, whose
// staged or unstaged state differs from HEAD. Untracked files count.
func (r *GitWorktreeRepository) ChangedPaths(dir string) ([]string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path, fileStatus := range status {
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}
