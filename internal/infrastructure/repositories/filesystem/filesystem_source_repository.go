package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// FilesystemSourceRepository implements repositories.SourceRepository on the
// local disk. Files are read and written whole, as UTF-8 text.
type FilesystemSourceRepository struct{}

// NewFilesystemSourceRepository creates a new FilesystemSourceRepository.
func NewFilesystemSourceRepository() repositories.SourceRepository {
	return &FilesystemSourceRepository{}
}

func (r *FilesystemSourceRepository) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (r *FilesystemSourceRepository) Read(path string) (entities.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.SourceFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return entities.SourceFile{Path: path, Content: string(data)}, nil
}

// Write replaces the file content and keeps its permission bits.
func (r *FilesystemSourceRepository) Write(file entities.SourceFile) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(file.Path, []byte(file.Content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", file.Path, err)
	}
	return nil
}

func (r *FilesystemSourceRepository) Glob(root string, include, exclude []string) ([]string, error) {
	for _, pattern := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var paths []string

	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to glob %q under %s: %w", pattern, root, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok || excluded(exclude, match) {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, filepath.Join(root, filepath.FromSlash(match)))
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
