package entities

import (
	"strings"

	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

// ReleaseAsset is a downloadable file attached to a release.
type ReleaseAsset struct {
	Name        string
	DownloadURL string
}

// Release is a tagged release and its assets.
type Release struct {
	Tag    string
	Assets []ReleaseAsset
}

// FindAsset returns the first asset whose name ends with suffix.
func (r Release) FindAsset(suffix string) (ReleaseAsset, bool) {
	for _, asset := range r.Assets {
		if strings.HasSuffix(asset.Name, suffix) {
			return asset, true
		}
	}
	return ReleaseAsset{}, false
}

// ReleaseInfo is what the resolve command exports to the workflow.
type ReleaseInfo struct {
	Repository  string
	UpstreamTag string
	ReleaseTag  string
	Pkgver      string
	Assetver    string
	Asset       ReleaseAsset
}

// Outputs returns the step outputs in write order.
func (i ReleaseInfo) Outputs() []KeyValue {
	return []KeyValue{
		{Key: "upstream_tag", Value: i.UpstreamTag},
		{Key: "release_tag", Value: i.ReleaseTag},
		{Key: "pkgver", Value: i.Pkgver},
		{Key: "assetver", Value: i.Assetver},
	}
}

// Environment returns the variables exported to later workflow steps.
func (i ReleaseInfo) Environment() []KeyValue {
	return []KeyValue{
		{Key: "FEISHIN_TAG", Value: i.ReleaseTag},
		{Key: "FEISHIN_PKGVER", Value: i.Pkgver},
		{Key: "FEISHIN_ASSETVER", Value: i.Assetver},
		{Key: "FEISHIN_UPSTREAM_TAG", Value: i.UpstreamTag},
		{Key: "UPSTREAM_TAG", Value: i.UpstreamTag},
		{Key: "UPSTREAM_REPO", Value: i.Repository},
	}
}

// KeyValue is one key=value line of a workflow file.
type KeyValue struct {
	Key   string
	Value string
}

// PkgbuildState is the outcome of a PKGBUILD reconciliation.
type PkgbuildState struct {
	AppName string
	Current patcher.PackageVersion
	Latest  patcher.PackageVersion
	Updated bool
}

// Environment returns the variables exported after the reconciliation.
func (s PkgbuildState) Environment() []KeyValue {
	if !s.Updated {
		return []KeyValue{
			{Key: "PKG_UPDATED", Value: "0"},
			{Key: "NEW_PKGVER", Value: s.Current.Pkgver},
		}
	}
	return []KeyValue{
		{Key: "PKG_UPDATED", Value: "1"},
		{Key: "NEW_PKGVER", Value: s.Latest.Pkgver},
	}
}
