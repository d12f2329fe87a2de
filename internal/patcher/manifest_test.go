//go:build unit

package patcher_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const feishinManifest = `{
  "name": "feishin",
  "dependencies": {
    "@react-icons/all-files": "4.1.0",
    "react": "18.2.0",
    "react-icons": "^5.0.1"
  },
  "devDependencies": {
    "typescript": "5.4.0",
    "vite": "^7.1.2"
  }
}
`

const iconsTarball = "https://github.com/react-icons/react-icons/releases/download/v5.0.1/react-icons-all-files-5.0.1.tgz"

func TestInspectManifest(t *testing.T) {
	t.Parallel()

	t.Run("should decode both dependency sections", func(t *testing.T) {
		t.Parallel()

		// when
		info, err := patcher.InspectManifest([]byte(feishinManifest))

		// then
		require.NoError(t, err)
		version, ok := info.ReactIconsVersion()
		assert.True(t, ok)
		assert.Equal(t, "^5.0.1", version)
		major, ok := info.ViteMajor()
		assert.True(t, ok)
		assert.Equal(t, 7, major)
	})

	t.Run("should fail on invalid JSON", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := patcher.InspectManifest([]byte(`{"dependencies": {`))

		// then
		require.Error(t, err)
	})

	t.Run("should not report a major for aliased packages", func(t *testing.T) {
		t.Parallel()

		// given
		info, err := patcher.InspectManifest([]byte(`{"devDependencies": {"vite": "npm:rolldown-vite@7.1.5"}}`))
		require.NoError(t, err)

		// when
		_, ok := info.ViteMajor()

		// then
		assert.False(t, ok)
	})
}

func TestNewManifestPlan(t *testing.T) {
	t.Parallel()

	t.Run("should pin the icons to the react-icons release tarball", func(t *testing.T) {
		t.Parallel()

		// given
		info, err := patcher.InspectManifest([]byte(feishinManifest))
		require.NoError(t, err)

		// when
		plan := patcher.NewManifestPlan(info)

		// then
		assert.Equal(t, iconsTarball, plan.IconsVersion)
		assert.Empty(t, plan.ViteVersion)
	})

	t.Run("should keep the current icons version without react-icons", func(t *testing.T) {
		t.Parallel()

		// given
		info := patcher.ManifestInfo{Dependencies: map[string]string{"@react-icons/all-files": "4.1.0"}}

		// when
		plan := patcher.NewManifestPlan(info)

		// then
		assert.Equal(t, "4.1.0", plan.IconsVersion)
	})
}

func TestRewriteManifest(t *testing.T) {
	t.Parallel()

	t.Run("should move icons, drop react-icons and switch vite", func(t *testing.T) {
		t.Parallel()

		// given
		plan := patcher.ManifestPlan{IconsVersion: iconsTarball, ViteVersion: "7.1.5"}

		// when
		result, changed := patcher.RewriteManifest(feishinManifest, plan)

		// then
		assert.True(t, changed)
		assert.Equal(t, `{
  "name": "feishin",
  "dependencies": {
    "react": "18.2.0"
  },
  "devDependencies": {
    "typescript": "5.4.0",
    "vite": "npm:rolldown-vite@7.1.5",
    "@react-icons/all-files": "`+iconsTarball+`"
  }
}
`, result)
	})

	t.Run("should be a no-op on its own output", func(t *testing.T) {
		t.Parallel()

		// given
		once, _ := patcher.RewriteManifest(feishinManifest, patcher.ManifestPlan{IconsVersion: iconsTarball})
		info, err := patcher.InspectManifest([]byte(once))
		require.NoError(t, err)

		// when
		twice, changed := patcher.RewriteManifest(once, patcher.NewManifestPlan(info))

		// then
		assert.False(t, changed)
		assert.Equal(t, once, twice)
	})

	t.Run("should remove inline entries", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"dependencies": {"react-icons": "^5.0.1", "react": "18.2.0"}, "devDependencies": {}}`

		// when
		result, changed := patcher.RewriteManifest(text, patcher.ManifestPlan{IconsVersion: iconsTarball})

		// then
		assert.True(t, changed)
		assert.Equal(t, `{"dependencies": {"react": "18.2.0"}, "devDependencies": {`+
			"\n  \"@react-icons/all-files\": \""+iconsTarball+"\"\n}}", result)
	})

	t.Run("should keep the icons entry when there is nothing to pin it to", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"dependencies": {"@react-icons/all-files": "4.1.0"}, "devDependencies": {}}`

		// when
		result, changed := patcher.RewriteManifest(text, patcher.ManifestPlan{})

		// then
		assert.False(t, changed)
		assert.Equal(t, text, result)
	})

	t.Run("should keep the manifest valid when react-icons sits in other objects", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{
  "dependencies": {
    "react": "18.2.0"
  },
  "devDependencies": {
    "typescript": "5.4.0"
  },
  "peerDependencies": {
    "b": "1.0.0",
    "react-icons": "5.4.0"
  }
}
`

		// when
		result, changed := patcher.RewriteManifest(text, patcher.ManifestPlan{})

		// then
		assert.True(t, changed)
		assert.Contains(t, result, "\"peerDependencies\": {\n    \"b\": \"1.0.0\"\n  }")
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(result), &decoded))
	})
}
