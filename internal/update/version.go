package update

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// versionRegex matches "MAJOR.MINOR.PATCH" with an optional "-beta.N"
// suffix. It is anchored at the start only: trailing garbage (including
// non-beta prerelease tags) is ignored and the version ranks as stable.
var versionRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-beta\.(\d+))?`)

// betaStable is the beta ordinal assigned to stable releases so that a
// stable build outranks every beta of the same major.minor.patch.
const betaStable = math.MaxInt64

// version is the parsed 4-tuple used for ordering.
type version struct {
	major, minor, patch, beta int64
}

// parseVersion parses a version string into its ordering tuple. A leading
// "v" prefix is stripped first. Strings that do not match the expected
// pattern parse to the lowest possible version (0,0,0,beta-0) rather than
// failing; a malformed manifest can therefore never announce an update.
func parseVersion(s string) version {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")

	matches := versionRegex.FindStringSubmatch(s)
	if matches == nil {
		return version{}
	}

	major, _ := strconv.ParseInt(matches[1], 10, 64)
	minor, _ := strconv.ParseInt(matches[2], 10, 64)
	patch, _ := strconv.ParseInt(matches[3], 10, 64)

	beta := int64(betaStable)
	if matches[4] != "" {
		beta, _ = strconv.ParseInt(matches[4], 10, 64)
	}

	return version{major: major, minor: minor, patch: patch, beta: beta}
}

// compare orders two parsed versions lexicographically by
// (major, minor, patch, beta).
func (v version) compare(other version) int {
	pairs := [][2]int64{
		{v.major, other.major},
		{v.minor, other.minor},
		{v.patch, other.patch},
		{v.beta, other.beta},
	}

	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] > p[1] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Compare compares two version strings.
// Returns:
//   - 1 if a > b
//   - 0 if a == b
//   - -1 if a < b
func Compare(a, b string) int {
	return parseVersion(a).compare(parseVersion(b))
}

// IsNewer returns true if latest is strictly newer than current.
func IsNewer(latest, current string) bool {
	return Compare(latest, current) > 0
}

// NormalizeVersion removes the 'v' prefix if present.
func NormalizeVersion(s string) string {
	return strings.TrimPrefix(s, "v")
}
