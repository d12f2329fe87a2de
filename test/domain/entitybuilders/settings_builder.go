//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder helps create test settings starting from the defaults.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	registryURL string
	viteMajor   int
	exclude     []string
	assetSuffix string
	token       string
}

// NewSettingsBuilder creates a new settings builder with the default values.
func NewSettingsBuilder() *SettingsBuilder {
	defaults := entities.DefaultSettings()
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		registryURL: defaults.Registry.URL,
		viteMajor:   defaults.Registry.ViteMajor,
		exclude:     defaults.Exclude,
		assetSuffix: defaults.Release.AssetSuffix,
	}
}

// WithRegistryURL sets the npm registry base URL.
func (b *SettingsBuilder) WithRegistryURL(url string) *SettingsBuilder {
	b.registryURL = url
	return b
}

// WithViteMajor sets the vite major that triggers the rolldown-vite swap.
func (b *SettingsBuilder) WithViteMajor(major int) *SettingsBuilder {
	b.viteMajor = major
	return b
}

// WithExclude sets the glob patterns that are never rewritten.
func (b *SettingsBuilder) WithExclude(patterns ...string) *SettingsBuilder {
	b.exclude = patterns
	return b
}

// WithAssetSuffix sets the suffix selecting the packaged asset.
func (b *SettingsBuilder) WithAssetSuffix(suffix string) *SettingsBuilder {
	b.assetSuffix = suffix
	return b
}

// WithToken sets the GitHub token.
func (b *SettingsBuilder) WithToken(token string) *SettingsBuilder {
	b.token = token
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := entities.DefaultSettings()
	settings.GitHubToken = b.token
	settings.Registry.URL = b.registryURL
	settings.Registry.ViteMajor = b.viteMajor
	settings.Exclude = append([]string(nil), b.exclude...)
	settings.Release.AssetSuffix = b.assetSuffix
	return settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	defaults := entities.DefaultSettings()
	b.registryURL = defaults.Registry.URL
	b.viteMajor = defaults.Registry.ViteMajor
	b.exclude = defaults.Exclude
	b.assetSuffix = defaults.Release.AssetSuffix
	b.token = ""
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		registryURL: b.registryURL,
		viteMajor:   b.viteMajor,
		exclude:     append([]string(nil), b.exclude...),
		assetSuffix: b.assetSuffix,
		token:       b.token,
	}
}
