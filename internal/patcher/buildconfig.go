package patcher

import "regexp"

const (
	asarUnpackDefault = "asarUnpack:\n    - resources/**\n"
	asarUnpackNative  = "asarUnpack:\n" +
		"    - resources/**/*.node\n" +
		"    - resources/**/*.dll\n" +
		"    - resources/**/*.so\n" +
		"    - resources/**/*.dylib\n" +
		"    - node_modules/abstract-socket/**\n"

	appImageMarker = "    # consider dropping AppImage when size is a priority\n"

	rendererRolldownBlock = "\n            rolldownOptions: {\n" +
		"                input: {\n" +
		"                    index: resolve('src/renderer/index.html'),\n" +
		"                },\n" +
		"                treeshake: true,\n" +
		"            },"
)

var rendererBuildAnchor = regexp.MustCompile(`renderer:\s*\{[\s\S]*?build:\s*\{[\s\S]*?minify: 'esbuild',`)

// ElectronBuilderRules unpacks only native binaries from the asar archive
// and flags the AppImage target for review.
func ElectronBuilderRules() []Substitution {
	return []Substitution{
		ReplaceBlock{Old: asarUnpackDefault, New: asarUnpackNative},
		EnsureMarker{
			Anchor:   "- tar.xz\n",
			Marker:   appImageMarker,
			Sentinel: "# consider dropping AppImage",
		},
	}
}

// ElectronViteRules turns off source maps, moves to rolldown options, pins
// the renderer entry with tree shaking and keeps native modules external in
// the main bundle.
func ElectronViteRules() []Substitution {
	return []Substitution{
		SetBool{Option: "sourcemap", Value: false},
		Rename{From: "rollupOptions", To: "rolldownOptions"},
		ReplaceSubBlock{Anchor: rendererBuildAnchor, Key: "rolldownOptions", Block: rendererRolldownBlock},
		EnsureSubBlock{
			Anchor:  rendererBuildAnchor,
			Require: "renderer:",
			Absent:  "treeshake:",
			Block:   rendererRolldownBlock,
		},
		EnsureListEntries{Key: "external", Entries: []string{"electron", "source-map-support", "x11"}},
	}
}

// RemoteViteRules applies the source map and rolldown switch to the remote
// web build.
func RemoteViteRules() []Substitution {
	return []Substitution{
		SetBool{Option: "sourcemap", Value: false},
		Rename{From: "rollupOptions", To: "rolldownOptions"},
	}
}
