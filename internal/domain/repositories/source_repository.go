package repositories

import "github.com/rios0rios0/sourcepatch/internal/domain/entities"

// SourceRepository reads and writes whole files of the patched tree.
type SourceRepository interface {
	Exists(path string) bool
	Read(path string) (entities.SourceFile, error)
	Write(file entities.SourceFile) error

	// Glob lists the regular files under root matching any include pattern
	// and no exclude pattern, sorted and without duplicates. Patterns use
	// doublestar syntax relative to root.
	Glob(root string, include, exclude []string) ([]string, error)
}
