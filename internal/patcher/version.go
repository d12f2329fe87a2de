package patcher

import (
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

var semverPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ExtractSemver returns the first MAJOR.MINOR.PATCH substring of raw, so
// "^5.4.0", "~5.4.0" and ">=5.4.0 <6" all yield "5.4.0".
func ExtractSemver(raw string) (string, bool) {
	match := semverPattern.FindString(raw)
	return match, match != ""
}

// HighestMajorVersion picks the greatest plain MAJOR.minor.patch version with
// the given major. Versions carrying pre-release or build suffixes are
// ignored. Ordering is numeric on the (major, minor, patch) tuple.
func HighestMajorVersion(versions []string, major int) (string, bool) {
	pattern := regexp.MustCompile(`^` + strconv.Itoa(major) + `\.\d+\.\d+$`)

	best := ""
	for _, version := range versions {
		if !pattern.MatchString(version) {
			continue
		}
		if best == "" || semver.Compare("v"+version, "v"+best) > 0 {
			best = version
		}
	}
	return best, best != ""
}
