package versioning

import (
	"fmt"
	"strings"
)

// UpdateCategory classifies the magnitude of a version change.
type UpdateCategory int

// Update categories ordered by magnitude. CategoryPrerelease sorts above
// CategoryMajor because prerelease updates are only admitted when the caller
// permits every category.
const (
	// CategoryPatch covers equal major/minor with differing patch or revision,
	// or no numeric difference at all.
	CategoryPatch UpdateCategory = iota

	// CategoryMinor covers a minor version bump within the same major version.
	CategoryMinor

	// CategoryMajor covers a major version bump.
	CategoryMajor

	// CategoryPrerelease covers a transition from a stable version to a
	// prerelease version, regardless of numeric component differences.
	CategoryPrerelease
)

// String returns the category's display name.
//
// Returns:
//   - string: One of "patch", "minor", "major", "prerelease"
func (c UpdateCategory) String() string {
	switch c {
	case CategoryPatch:
		return "patch"
	case CategoryMinor:
		return "minor"
	case CategoryMajor:
		return "major"
	case CategoryPrerelease:
		return "prerelease"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category name into an UpdateCategory.
//
// Parameters:
//   - s: The category name, case-insensitive ("patch", "minor", "major", "prerelease")
//
// Returns:
//   - UpdateCategory: The parsed category
//   - error: When the name is not a known category; returns nil on success
func ParseCategory(s string) (UpdateCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "patch":
		return CategoryPatch, nil
	case "minor":
		return CategoryMinor, nil
	case "major":
		return CategoryMajor, nil
	case "prerelease":
		return CategoryPrerelease, nil
	default:
		return CategoryPatch, fmt.Errorf("unknown update category: %q", s)
	}
}

// Classify computes the update category for moving from current to latest.
//
// The prerelease transition takes precedence: if latest is a prerelease and
// current is not, the category is CategoryPrerelease regardless of how far
// the numeric components moved.
//
// Parameters:
//   - current: The currently declared version
//   - latest: The candidate version being offered
//
// Returns:
//   - UpdateCategory: The classification of the change
func Classify(current, latest Version) UpdateCategory {
	if latest.IsPrerelease() && !current.IsPrerelease() {
		return CategoryPrerelease
	}
	if latest.Major > current.Major {
		return CategoryMajor
	}
	if latest.Minor > current.Minor {
		return CategoryMinor
	}
	return CategoryPatch
}

// Selection holds the outcome of choosing a candidate version for a package.
//
// Fields:
//   - LatestStable: The newest stable version greater than current, nil if none
//   - LatestPrerelease: The newest prerelease version greater than current, nil if none
//   - Selected: The version chosen for display and classification
//   - Category: The classification of moving from current to Selected
type Selection struct {
	LatestStable     *Version
	LatestPrerelease *Version
	Selected         Version
	Category         UpdateCategory
}

// SelectLatest picks the candidate version for a package from the full list
// of known versions.
//
// It performs the following operations:
//   - Parses each version, skipping entries that do not parse
//   - Tracks the newest stable and newest prerelease versions strictly newer than current
//   - Selects the prerelease only when the caller opted in AND it is greater
//     than the stable candidate; otherwise the stable candidate is selected
//   - Classifies the selected version against current
//
// Parameters:
//   - current: The currently declared version
//   - versions: All known versions for the package, stable and prerelease together
//   - includePrerelease: Whether the caller opted into prerelease candidates
//
// Returns:
//   - Selection: The chosen candidate and its classification
//   - bool: true if a newer admissible version exists, false when the package is up to date
func SelectLatest(current Version, versions []string, includePrerelease bool) (Selection, bool) {
	var sel Selection

	for _, raw := range versions {
		v, ok := Parse(raw)
		if !ok {
			continue
		}
		if Compare(v, current) <= 0 {
			continue
		}

		if v.IsPrerelease() {
			if sel.LatestPrerelease == nil || Compare(v, *sel.LatestPrerelease) > 0 {
				candidate := v
				sel.LatestPrerelease = &candidate
			}
			continue
		}

		if sel.LatestStable == nil || Compare(v, *sel.LatestStable) > 0 {
			candidate := v
			sel.LatestStable = &candidate
		}
	}

	switch {
	case sel.LatestStable != nil:
		sel.Selected = *sel.LatestStable
		if includePrerelease && sel.LatestPrerelease != nil &&
			Compare(*sel.LatestPrerelease, *sel.LatestStable) > 0 {
			sel.Selected = *sel.LatestPrerelease
		}
	case includePrerelease && sel.LatestPrerelease != nil:
		sel.Selected = *sel.LatestPrerelease
	default:
		return Selection{}, false
	}

	sel.Category = Classify(current, sel.Selected)
	return sel, true
}
