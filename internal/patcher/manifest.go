package patcher

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

const (
	DependenciesSection    = "dependencies"
	DevDependenciesSection = "devDependencies"

	ReactIconsPackage    = "react-icons"
	IconsAllFilesPackage = "@react-icons/all-files"
	VitePackage          = "vite"
	RolldownVitePackage  = "rolldown-vite"
)

// ManifestInfo is the decoded subset of package.json used to plan the edits.
type ManifestInfo struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// InspectManifest decodes the manifest. A manifest that is not valid JSON is
// an error: the textual edits are never attempted on it.
func InspectManifest(raw []byte) (ManifestInfo, error) {
	var info ManifestInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return ManifestInfo{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return info, nil
}

// ReactIconsVersion returns the react-icons constraint, looking at runtime
// dependencies first.
func (m ManifestInfo) ReactIconsVersion() (string, bool) {
	if version, ok := m.Dependencies[ReactIconsPackage]; ok {
		return version, true
	}
	version, ok := m.DevDependencies[ReactIconsPackage]
	return version, ok
}

var viteMajorPattern = regexp.MustCompile(`^\^?(\d+)\.`)

// ViteMajor returns the major of devDependencies.vite when it is a plain
// "7.x.y" or "^7.x.y" constraint.
func (m ManifestInfo) ViteMajor() (int, bool) {
	match := viteMajorPattern.FindStringSubmatch(m.DevDependencies[VitePackage])
	if match == nil {
		return 0, false
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return major, true
}

// IconsTarballURL points at the per-icon tarball published with each
// react-icons release.
func IconsTarballURL(semver string) string {
	return "https://github.com/react-icons/react-icons/releases/download/" +
		"v" + semver + "/react-icons-all-files-" + semver + ".tgz"
}

// ManifestPlan holds the values RewriteManifest writes. Empty fields skip the
// matching edit.
type ManifestPlan struct {
	IconsVersion string
	ViteVersion  string
}

// NewManifestPlan derives the icons pin from the manifest. When react-icons
// carries no usable version, an @react-icons/all-files entry found under
// dependencies keeps its own version on the move.
func NewManifestPlan(info ManifestInfo) ManifestPlan {
	var plan ManifestPlan
	if raw, ok := info.ReactIconsVersion(); ok {
		if semver, found := ExtractSemver(raw); found {
			plan.IconsVersion = IconsTarballURL(semver)
		}
	}
	if plan.IconsVersion == "" {
		plan.IconsVersion = info.Dependencies[IconsAllFilesPackage]
	}
	return plan
}

// RewriteManifest moves @react-icons/all-files to devDependencies, drops
// react-icons from both sections and switches vite to rolldown-vite when the
// plan carries a version.
func RewriteManifest(text string, plan ManifestPlan) (string, bool) {
	updated := text

	hasDevIcons := HasEntry(updated, DevDependenciesSection, IconsAllFilesPackage)
	if plan.IconsVersion != "" || hasDevIcons {
		updated = removeFromSection(updated, DependenciesSection, IconsAllFilesPackage)
	}
	if plan.IconsVersion != "" && !hasDevIcons {
		updated, _ = Insert(updated, DevDependenciesSection, IconsAllFilesPackage, plan.IconsVersion)
	}

	updated = removeFromSection(updated, DependenciesSection, ReactIconsPackage)
	updated = removeFromSection(updated, DevDependenciesSection, ReactIconsPackage)
	if swept, removed := RemoveAnywhereByLine(updated, ReactIconsPackage); removed {
		updated = swept
		updated, _ = RepairTrailingComma(updated, DependenciesSection)
		updated, _ = RepairTrailingComma(updated, DevDependenciesSection)
	}

	if plan.ViteVersion != "" {
		updated, _ = Update(updated, DevDependenciesSection, VitePackage,
			"npm:"+RolldownVitePackage+"@"+plan.ViteVersion)
	}
	return updated, updated != text
}

// removeFromSection drops name from the section, falling back to the token
// removal when the entry shares its line with others.
func removeFromSection(text, sectionName, name string) string {
	updated, _ := Remove(text, sectionName, name)
	if HasEntry(updated, sectionName, name) {
		updated, _ = ForceRemove(updated, sectionName, name)
	}
	return updated
}
