//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/sourcepatch/internal/domain/entities"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return inline token unchanged", func(t *testing.T) {
		t.Parallel()

		// when
		result := entities.ResolveToken("ghp_abc123xyz")

		// then
		assert.Equal(t, "ghp_abc123xyz", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("SOURCEPATCH_TEST_TOKEN", "my-secret-token")

		// when
		result := entities.ResolveToken("${SOURCEPATCH_TEST_TOKEN}")

		// then
		assert.Equal(t, "my-secret-token", result)
	})

	t.Run("should read the token from a file", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "token", "  file-token\n")

		// when
		result := entities.ResolveToken(path)

		// then
		assert.Equal(t, "file-token", result)
	})
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	t.Run("should target the Feishin layout", func(t *testing.T) {
		t.Parallel()

		// when
		settings := entities.DefaultSettings()

		// then
		assert.Equal(t, "https://registry.npmjs.org", settings.Registry.URL)
		assert.Equal(t, 10*time.Second, settings.RegistryTimeout())
		assert.Equal(t, 7, settings.Registry.ViteMajor)
		assert.Equal(t, []string{"**/*.ts", "**/*.tsx"}, settings.Imports.Globs)
		assert.Equal(t, []string{"src/main/**/*.ts"}, settings.Guards.Globs)
		assert.Equal(t, "iiPythonx/feishin", settings.Release.UpstreamRepository)
		assert.Equal(t, "linux-amd64.deb", settings.Release.AssetSuffix)
	})

	t.Run("should build a guard policy from the allow-list", func(t *testing.T) {
		t.Parallel()

		// when
		policy := entities.DefaultSettings().GuardPolicy()

		// then
		assert.Len(t, policy.Rules, 2)
		assert.True(t, policy.Allows("open-file-selector"))
		assert.False(t, policy.Allows("open-file-selector-2"))
	})
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should load a YAML file and keep defaults for unset fields", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "sourcepatch.yaml", `
github_token: "ghp_inline"
registry:
  url: "https://npm.example.com"
guards:
  allow_list:
    - "^only-this$"
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_inline", settings.GitHubToken)
		assert.Equal(t, "https://npm.example.com", settings.Registry.URL)
		assert.Equal(t, 10, settings.Registry.TimeoutSeconds)
		assert.True(t, settings.GuardPolicy().Allows("only-this"))
		assert.False(t, settings.GuardPolicy().Allows("settings-get"))
		assert.Equal(t, "react-icons", settings.Imports.SourcePrefix)
	})

	t.Run("should load an HCL file with env references", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("SOURCEPATCH_TEST_HCL_TOKEN", "hcl-token")
		path := writeConfig(t, "sourcepatch.hcl", `
github_token = env.SOURCEPATCH_TEST_HCL_TOKEN

registry {
  vite_major = 8
}

guards {
  allow_list = ["^only-this$"]

  rule {
    registration = "ipcRenderer.on"
    guard        = "ipcRenderer.removeAllListeners"
  }
}

package {
  repository = "someone/feishin-bin"
}
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "hcl-token", settings.GitHubToken)
		assert.Equal(t, 8, settings.Registry.ViteMajor)
		assert.Equal(t, "https://registry.npmjs.org", settings.Registry.URL)
		require.Len(t, settings.Guards.Rules, 1)
		assert.Equal(t, "ipcRenderer.removeAllListeners", settings.Guards.Rules[0].Guard)
		assert.Equal(t, "someone/feishin-bin", settings.ReleaseLayout().Repository)
		assert.Equal(t, "PKGBUILD", settings.Package.Pkgbuild)
	})

	t.Run("should reject an invalid allow-list pattern", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "sourcepatch.yml", "guards:\n  allow_list:\n    - \"(\"\n")

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "guards.allow_list[0]")
	})

	t.Run("should reject a rule without guard", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "sourcepatch.yaml", "guards:\n  rules:\n    - registration: ipcMain.handle\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSettings(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail on malformed HCL", func(t *testing.T) {
		t.Parallel()

		// given
		path := writeConfig(t, "sourcepatch.hcl", "registry {\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}
