package repositories

// WorktreeRepository inspects the Git work tree that holds the patched files.
type WorktreeRepository interface {
	// ChangedPaths lists the paths that differ from HEAD. It returns an error
	// when dir is not inside a Git work tree.
	ChangedPaths(dir string) ([]string, error)
}
