//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ReleaseBuilder helps create test releases with a fluent interface.
type ReleaseBuilder struct {
	*testkit.BaseBuilder
	tag    string
	assets []entities.ReleaseAsset
}

// NewReleaseBuilder creates a new release builder with sensible defaults.
func NewReleaseBuilder() *ReleaseBuilder {
	return &ReleaseBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		tag:         "0.21.0-1",
	}
}

// WithTag sets the release tag.
func (b *ReleaseBuilder) WithTag(tag string) *ReleaseBuilder {
	b.tag = tag
	return b
}

// WithAsset attaches an asset named name, downloadable from a URL derived
// from the tag.
func (b *ReleaseBuilder) WithAsset(name string) *ReleaseBuilder {
	b.assets = append(b.assets, entities.ReleaseAsset{
		Name:        name,
		DownloadURL: "https://github.com/owner/repo/releases/download/" + b.tag + "/" + name,
	})
	return b
}

// Build creates the release (satisfies testkit.Builder interface).
func (b *ReleaseBuilder) Build() interface{} {
	return b.BuildRelease()
}

// BuildRelease creates the release with a concrete return type.
func (b *ReleaseBuilder) BuildRelease() entities.Release {
	assets := make([]entities.ReleaseAsset, len(b.assets))
	copy(assets, b.assets)
	return entities.Release{Tag: b.tag, Assets: assets}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.tag = "0.21.0-1"
	b.assets = nil
	return b
}

// Clone creates a deep copy of the ReleaseBuilder.
func (b *ReleaseBuilder) Clone() testkit.Builder {
	assets := make([]entities.ReleaseAsset, len(b.assets))
	copy(assets, b.assets)
	return &ReleaseBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		tag:         b.tag,
		assets:      assets,
	}
}
