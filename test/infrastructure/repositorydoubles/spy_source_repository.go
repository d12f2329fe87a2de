//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	"github.com/rios0rios0/sourcepatch/internal/domain/repositories"
)

// SpySourceRepository is an in-memory repositories.SourceRepository that
// records every write.
type SpySourceRepository struct {
	// --- state ---
	Files map[string]string // absolute path -> content

	// --- failures ---
	ReadErr  error
	WriteErr error
	GlobErr  error

	// spy: files written, in order
	Writes []entities.SourceFile
}

var _ repositories.SourceRepository = (*SpySourceRepository)(nil)

// NewSpySourceRepository creates a spy holding files, keyed by paths
// relative to root.
func NewSpySourceRepository(root string, files map[string]string) *SpySourceRepository {
	spy := &SpySourceRepository{Files: make(map[string]string, len(files))}
	for name, content := range files {
		spy.Files[filepath.Join(root, name)] = content
	}
	return spy
}

func (s *SpySourceRepository) Exists(path string) bool {
	_, ok := s.Files[path]
	return ok
}

func (s *SpySourceRepository) Read(path string) (entities.SourceFile, error) {
	if s.ReadErr != nil {
		return entities.SourceFile{}, s.ReadErr
	}
	content, ok := s.Files[path]
	if !ok {
		return entities.SourceFile{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return entities.SourceFile{Path: path, Content: content}, nil
}

func (s *SpySourceRepository) Write(file entities.SourceFile) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.Writes = append(s.Writes, file)
	s.Files[file.Path] = file.Content
	return nil
}

func (s *SpySourceRepository) Glob(root string, include, exclude []string) ([]string, error) {
	if s.GlobErr != nil {
		return nil, s.GlobErr
	}

	var paths []string
	for path := range s.Files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		if matchAny(include, rel) && !matchAny(exclude, rel) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Written returns the last content written to path.
func (s *SpySourceRepository) Written(path string) (string, bool) {
	for i := len(s.Writes) - 1; i >= 0; i-- {
		if s.Writes[i].Path == path {
			return s.Writes[i].Content, true
		}
	}
	return "", false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ErrStubFailure is a generic failure returned by configured doubles.
var ErrStubFailure = errors.New("stub failure")
