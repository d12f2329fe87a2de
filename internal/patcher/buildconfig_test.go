//go:build unit

package patcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const electronBuilderConfig = `appId: org.jeffvli.feishin
asarUnpack:
    - resources/**
linux:
    target:
        - AppImage
        - tar.xz
`

const electronViteConfig = `export default defineConfig({
    main: {
        build: {
            rollupOptions: {
                external: ['source-map-support'],
            },
            sourcemap: true,
        },
    },
    renderer: {
        build: {
            minify: 'esbuild',
            rollupOptions: {
                input: {
                    index: resolve('src/renderer/index.html'),
                },
            },
            sourcemap: true,
        },
    },
});
`

func TestElectronBuilderRules(t *testing.T) {
	t.Parallel()

	t.Run("should unpack native binaries and add the AppImage marker", func(t *testing.T) {
		t.Parallel()

		// when
		result, changed := patcher.ApplyAll(electronBuilderConfig, patcher.ElectronBuilderRules())

		// then
		assert.True(t, changed)
		assert.Equal(t, `appId: org.jeffvli.feishin
asarUnpack:
    - resources/**/*.node
    - resources/**/*.dll
    - resources/**/*.so
    - resources/**/*.dylib
    - node_modules/abstract-socket/**
linux:
    target:
        - AppImage
        - tar.xz
    # consider dropping AppImage when size is a priority
`, result)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		once, _ := patcher.ApplyAll(electronBuilderConfig, patcher.ElectronBuilderRules())

		// when
		twice, changed := patcher.ApplyAll(once, patcher.ElectronBuilderRules())

		// then
		assert.False(t, changed)
		assert.Equal(t, once, twice)
	})
}

func TestElectronViteRules(t *testing.T) {
	t.Parallel()

	t.Run("should switch to rolldown and replace the renderer block as a whole", func(t *testing.T) {
		t.Parallel()

		// when
		result, changed := patcher.ApplyAll(electronViteConfig, patcher.ElectronViteRules())

		// then
		assert.True(t, changed)
		assert.Equal(t, `export default defineConfig({
    main: {
        build: {
            rolldownOptions: {
                external: ['source-map-support', 'electron', 'x11'],
            },
            sourcemap: false,
        },
    },
    renderer: {
        build: {
            minify: 'esbuild',
            rolldownOptions: {
                input: {
                    index: resolve('src/renderer/index.html'),
                },
                treeshake: true,
            },
            sourcemap: false,
        },
    },
});
`, result)
	})

	t.Run("should insert the renderer block when it is missing", func(t *testing.T) {
		t.Parallel()

		// given
		content := "    renderer: {\n        build: {\n            minify: 'esbuild',\n        },\n    },\n"

		// when
		result, changed := patcher.ApplyAll(content, patcher.ElectronViteRules())

		// then
		assert.True(t, changed)
		assert.Equal(t, "    renderer: {\n        build: {\n            minify: 'esbuild',\n"+
			"            rolldownOptions: {\n"+
			"                input: {\n"+
			"                    index: resolve('src/renderer/index.html'),\n"+
			"                },\n"+
			"                treeshake: true,\n"+
			"            },\n"+
			"        },\n    },\n", result)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		once, _ := patcher.ApplyAll(electronViteConfig, patcher.ElectronViteRules())

		// when
		twice, changed := patcher.ApplyAll(once, patcher.ElectronViteRules())

		// then
		assert.False(t, changed)
		assert.Equal(t, once, twice)
	})
}

func TestRemoteViteRules(t *testing.T) {
	t.Parallel()

	t.Run("should only touch source maps and rollup options", func(t *testing.T) {
		t.Parallel()

		// given
		content := "build: {\n    sourcemap: true,\n    rollupOptions: { output: {} },\n    minify: true,\n}\n"

		// when
		result, changed := patcher.ApplyAll(content, patcher.RemoteViteRules())

		// then
		assert.True(t, changed)
		assert.Equal(t, "build: {\n    sourcemap: false,\n    rolldownOptions: { output: {} },\n    minify: true,\n}\n", result)
	})
}

func TestEnsureListEntries(t *testing.T) {
	t.Parallel()

	t.Run("should fill an empty list without a leading comma", func(t *testing.T) {
		t.Parallel()

		// given
		rule := patcher.EnsureListEntries{Key: "external", Entries: []string{"electron", "x11"}}

		// when
		result := rule.Apply("external: [],")

		// then
		assert.Equal(t, "external: ['electron', 'x11'],", result)
	})

	t.Run("should accept entries written with double quotes", func(t *testing.T) {
		t.Parallel()

		// given
		rule := patcher.EnsureListEntries{Key: "external", Entries: []string{"electron"}}
		content := `external: ["electron", 'electron-store'],`

		// when
		result := rule.Apply(content)

		// then
		assert.Equal(t, content, result)
	})
}

func TestEnsureMarker(t *testing.T) {
	t.Parallel()

	t.Run("should do nothing when the anchor is missing", func(t *testing.T) {
		t.Parallel()

		// given
		rule := patcher.EnsureMarker{Anchor: "- tar.xz\n", Marker: "# note\n", Sentinel: "# note"}
		content := "target:\n    - AppImage\n"

		// when
		result := rule.Apply(content)

		// then
		assert.Equal(t, content, result)
	})
}
