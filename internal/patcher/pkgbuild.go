package patcher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingVariable is returned when a PKGBUILD lacks a variable the
// reconciliation depends on.
var ErrMissingVariable = errors.New("missing PKGBUILD variable")

const (
	VarTag             = "_tag"
	VarPkgver          = "pkgver"
	VarAssetver        = "_assetver"
	VarElectronVersion = "_electronversion"
	VarAppName         = "_appname"
	VarSha256          = "sha256sums_x86_64"

	platformMarker = "-linux-"
)

// PackageVersion is the set of values that pin a packaged release.
type PackageVersion struct {
	Tag      string
	Pkgver   string
	Assetver string
	Electron string
	Sha256   string
}

// SameBuild reports whether both versions describe the same artifact.
// Pkgver is derived from the tag and not compared.
func (v PackageVersion) SameBuild(other PackageVersion) bool {
	return v.Tag == other.Tag &&
		v.Sha256 == other.Sha256 &&
		v.Assetver == other.Assetver &&
		v.Electron == other.Electron
}

// ReleaseLayout describes how release assets and .SRCINFO sources are named.
type ReleaseLayout struct {
	Repository  string // owner/name hosting the packaged assets
	PackageBase string // local file name prefix in source_x86_64
	Provides    string // virtual package name in "provides = <name>="
	AssetPrefix string // stripped from the asset name to get the asset version
	AssetSuffix string // selects the asset to package
}

// AssetVersion turns "feishin-1.2.3-linux-amd64.deb" into "1.2.3".
func (l ReleaseLayout) AssetVersion(assetName string) string {
	trimmed := strings.ReplaceAll(assetName, l.AssetPrefix, "")
	version, _, _ := strings.Cut(trimmed, platformMarker)
	return version
}

// AssetURL is the download URL of the asset for tag and assetver.
func (l ReleaseLayout) AssetURL(tag, assetver string) string {
	return "https://github.com/" + l.Repository + "/releases/download/" + tag + "/" +
		l.AssetPrefix + assetver + "-" + l.AssetSuffix
}

// PkgverFromTag makes a tag usable as pkgver, which forbids hyphens.
func PkgverFromTag(tag string) string {
	return strings.ReplaceAll(tag, "-", "_")
}

// ExtractVar returns the value of a top-level NAME=value assignment with
// surrounding whitespace and double quotes removed.
func ExtractVar(content, name string) (string, bool) {
	pattern := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `=([^\n]+)$`)
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(match[1]), `"`), true
}

// ReadPackageVersion collects the pinned version and the application name
// from a PKGBUILD.
func ReadPackageVersion(pkgbuild string) (PackageVersion, string, error) {
	values := make(map[string]string)
	for _, name := range []string{VarTag, VarPkgver, VarAssetver, VarElectronVersion, VarAppName, VarSha256} {
		value, ok := ExtractVar(pkgbuild, name)
		if !ok {
			return PackageVersion{}, "", fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		values[name] = value
	}

	sums := strings.Fields(strings.Trim(values[VarSha256], "'()"))
	if len(sums) == 0 {
		return PackageVersion{}, "", fmt.Errorf("%w: %s is empty", ErrMissingVariable, VarSha256)
	}

	return PackageVersion{
		Tag:      values[VarTag],
		Pkgver:   values[VarPkgver],
		Assetver: values[VarAssetver],
		Electron: values[VarElectronVersion],
		Sha256:   sums[0],
	}, values[VarAppName], nil
}

type lineRewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

func rewriteLines(content string, rewrites []lineRewrite) string {
	for _, rewrite := range rewrites {
		content = rewrite.pattern.ReplaceAllString(content, rewrite.replacement)
	}
	return content
}

// literal escapes value for use in a regexp replacement template.
func literal(value string) string {
	return strings.ReplaceAll(value, "$", "$$")
}

// ReconcilePkgbuild pins the PKGBUILD to version.
func ReconcilePkgbuild(pkgbuild string, version PackageVersion) string {
	return rewriteLines(pkgbuild, []lineRewrite{
		{regexp.MustCompile(`(?m)^pkgver=.*$`), "pkgver=" + literal(version.Pkgver)},
		{regexp.MustCompile(`(?m)^_tag=.*$`), "_tag=" + literal(version.Tag)},
		{regexp.MustCompile(`(?m)^_assetver=.*$`), "_assetver=" + literal(version.Assetver)},
		{regexp.MustCompile(`(?m)^_electronversion=.*$`), "_electronversion=" + literal(version.Electron)},
		{regexp.MustCompile(`(?m)^sha256sums_x86_64=.*$`), "sha256sums_x86_64=('" + literal(version.Sha256) + "')"},
	})
}

// ReconcileSrcinfo pins the .SRCINFO to version. The indentation makepkg
// puts in front of package keys is kept.
func ReconcileSrcinfo(srcinfo string, version PackageVersion, layout ReleaseLayout) string {
	source := "source_x86_64 = " + layout.PackageBase + "-" + version.Pkgver + "-x86_64.deb::" +
		layout.AssetURL(version.Tag, version.Assetver)

	return rewriteLines(srcinfo, []lineRewrite{
		{srcinfoKey("pkgver"), "${1}pkgver = " + literal(version.Pkgver)},
		{
			regexp.MustCompile(`(?m)^([ \t]*)provides = ` + regexp.QuoteMeta(layout.Provides) + `=.*$`),
			"${1}provides = " + literal(layout.Provides+"="+version.Pkgver),
		},
		{regexp.MustCompile(`(?m)^([ \t]*)depends = electron.*$`), "${1}depends = electron" + literal(version.Electron)},
		{srcinfoKey("source_x86_64"), "${1}" + literal(source)},
		{srcinfoKey("sha256sums_x86_64"), "${1}sha256sums_x86_64 = " + literal(version.Sha256)},
	})
}

func srcinfoKey(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*)` + regexp.QuoteMeta(key) + ` = .*$`)
}

var electronMajorPattern = regexp.MustCompile(`Chrome/[0-9.]* Electron/([0-9]+)`)

// ElectronMajor finds the Electron major in the user agent string embedded in
// an Electron application binary.
func ElectronMajor(binary []byte) (string, bool) {
	match := electronMajorPattern.FindSubmatch(binary)
	if match == nil {
		return "", false
	}
	return string(match[1]), true
}
