package policy

import (
	"github.com/ajxudir/nupdate/pkg/verbose"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// UpdateCandidate describes one package for which a newer version exists.
//
// Candidates are derived per run and exist only for the duration of a scan
// or update; they are never persisted.
//
// Fields:
//   - PackageID: The package id, unique within a manifest
//   - Current: The currently declared version
//   - LatestStable: The newest stable version greater than Current, nil if none
//   - LatestPrerelease: The newest prerelease version greater than Current, nil if none
//   - Latest: The version selected for display and mutation
//   - Category: The classification of moving from Current to Latest
//   - Deprecated: Whether the package is marked deprecated on the index
type UpdateCandidate struct {
	PackageID        string
	Current          versioning.Version
	LatestStable     *versioning.Version
	LatestPrerelease *versioning.Version
	Latest           versioning.Version
	Category         versioning.UpdateCategory
	Deprecated       bool
}

// Apply narrows a candidate list to the updates the policy admits.
//
// It performs the following operations:
//   - Removes candidates whose package id matches any exclusion pattern
//     (case-insensitive, wildcard-aware)
//   - Determines the effective ceiling per candidate: the first matching
//     rule's ceiling when one exists, otherwise the global ceiling
//   - Admits Patch-category candidates under a Patch ceiling, Patch and Minor
//     under a Minor ceiling, and every category under a Major ceiling
//
// Apply is a pure function of its inputs: it never mutates the candidates
// and identical inputs always yield identical outputs.
//
// Parameters:
//   - candidates: The classified candidate set
//   - ceiling: The global policy ceiling
//   - exclude: Exclusion patterns removing packages from consideration
//   - rules: Per-package ceiling overrides, first match wins
//
// Returns:
//   - []UpdateCandidate: The admissible candidates, in input order
func Apply(candidates []UpdateCandidate, ceiling versioning.UpdateCategory, exclude []string, rules []UpdateRule) []UpdateCandidate {
	filtered := make([]UpdateCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		if matched, pattern := MatchAny(candidate.PackageID, exclude); matched {
			verbose.PackageExcluded(candidate.PackageID, "matches exclusion pattern "+pattern)
			continue
		}

		effective := ceiling
		if rule, ok := FindMatchingRule(candidate.PackageID, rules); ok {
			effective = rule.Ceiling
			verbose.Debugf("Rule %q overrides ceiling for %s: %s", rule.Pattern, candidate.PackageID, effective)
		}

		if !admits(effective, candidate.Category) {
			verbose.PackageExcluded(candidate.PackageID,
				candidate.Category.String()+" update exceeds "+effective.String()+" ceiling")
			continue
		}

		filtered = append(filtered, candidate)
	}

	return filtered
}

// admits reports whether a ceiling permits an update category.
//
// Parameters:
//   - ceiling: The effective policy ceiling
//   - category: The candidate's update category
//
// Returns:
//   - bool: true if the category is within the ceiling
func admits(ceiling, category versioning.UpdateCategory) bool {
	switch ceiling {
	case versioning.CategoryPatch:
		return category == versioning.CategoryPatch
	case versioning.CategoryMinor:
		return category == versioning.CategoryPatch || category == versioning.CategoryMinor
	default:
		// A Major ceiling admits all categories, including Prerelease.
		return true
	}
}
