// Package versioning parses, compares, and classifies NuGet package versions.
//
// NuGet versions are semver with an optional fourth numeric part
// (Major.Minor.Patch.Revision) and an optional prerelease suffix. Comparison
// delegates to golang.org/x/mod/semver on the canonical three-part form and
// uses the revision as a tiebreak.
package versioning

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version represents a parsed and normalized package version.
//
// Fields:
//   - Raw: The original version string as declared
//   - Canonical: The canonical semver representation (e.g., "v1.2.3-beta1")
//   - Major: The major version number
//   - Minor: The minor version number
//   - Patch: The patch version number
//   - Revision: The fourth numeric part used by legacy NuGet versions, 0 if absent
//   - Prerelease: The prerelease identifier without the leading dash, empty for stable
type Version struct {
	Raw        string
	Canonical  string
	Major      int
	Minor      int
	Patch      int
	Revision   int
	Prerelease string
}

// IsPrerelease reports whether the version carries a prerelease identifier.
//
// Returns:
//   - bool: true if the version has a prerelease suffix (e.g., "-beta1")
func (v Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// String returns the original raw form of the version.
//
// Returns:
//   - string: The version as it was declared
func (v Version) String() string {
	return v.Raw
}

// Parse parses a version string into a Version.
//
// It performs the following operations:
//   - Trims whitespace and an optional leading "v"
//   - Splits off build metadata (after "+") and the prerelease suffix (after "-")
//   - Parses up to four dot-separated numeric parts, padding missing parts with zero
//   - Builds the canonical semver form from the first three parts plus prerelease
//
// Parameters:
//   - s: The version string to parse (e.g., "13.0.3", "1.0.0.0", "5.0.0-rc.1")
//
// Returns:
//   - Version: The parsed version with extracted components
//   - bool: true if the version was successfully parsed, false otherwise
func Parse(s string) (Version, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return Version{}, false
	}

	v := Version{Raw: cleaned}

	numeric := strings.TrimPrefix(cleaned, "v")

	// Build metadata does not participate in precedence
	if idx := strings.IndexByte(numeric, '+'); idx >= 0 {
		numeric = numeric[:idx]
	}

	if idx := strings.IndexByte(numeric, '-'); idx >= 0 {
		v.Prerelease = numeric[idx+1:]
		numeric = numeric[:idx]
		if v.Prerelease == "" {
			return Version{}, false
		}
	}

	parts := strings.Split(numeric, ".")
	if len(parts) == 0 || len(parts) > 4 {
		return Version{}, false
	}

	values := make([]int, 4)
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return Version{}, false
		}
		values[i] = value
	}

	v.Major = values[0]
	v.Minor = values[1]
	v.Patch = values[2]
	v.Revision = values[3]

	canonical := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		canonical += "-" + v.Prerelease
	}
	if !semver.IsValid(canonical) {
		return Version{}, false
	}
	v.Canonical = canonical

	return v, true
}

// Compare compares two parsed versions and returns their ordering.
//
// It performs the following operations:
//   - Compares the canonical semver forms (major, minor, patch, prerelease)
//   - Uses the fourth revision part as a tiebreak when the semver forms are equal
//
// Parameters:
//   - a: The first version to compare
//   - b: The second version to compare
//
// Returns:
//   - int: Negative if a < b, zero if a == b, positive if a > b
func Compare(a, b Version) int {
	if cmp := semver.Compare(a.Canonical, b.Canonical); cmp != 0 {
		return cmp
	}
	return compareInts(a.Revision, b.Revision)
}

// compareInts compares two integers and returns their ordering.
//
// Parameters:
//   - a: The first integer to compare
//   - b: The second integer to compare
//
// Returns:
//   - int: 1 if a > b, -1 if a < b, 0 if a == b
func compareInts(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
