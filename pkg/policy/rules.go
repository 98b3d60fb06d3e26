package policy

import (
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// UpdateRule pairs a package-id pattern with a policy ceiling that overrides
// the global ceiling for matching packages.
//
// Rules are loaded once per run from the resolved policy object and are
// evaluated in list order: the first rule whose pattern matches wins. There
// is no specificity ranking, so an earlier broad pattern shadows a later
// narrow one.
//
// Fields:
//   - Pattern: Package-id pattern, exact or wildcard (see Match)
//   - Ceiling: Maximum update category permitted for matching packages
type UpdateRule struct {
	// Pattern is the package-id pattern, exact or wildcard.
	Pattern string

	// Ceiling is the maximum update category permitted for matching packages.
	Ceiling versioning.UpdateCategory
}

// FindMatchingRule returns the first rule in list order whose pattern matches
// the package id.
//
// Parameters:
//   - name: The package id to look up
//   - rules: Rules in evaluation order
//
// Returns:
//   - *UpdateRule: The first matching rule, nil if none matched
//   - bool: true if a rule matched
func FindMatchingRule(name string, rules []UpdateRule) (*UpdateRule, bool) {
	for i := range rules {
		if Match(name, rules[i].Pattern) {
			return &rules[i], true
		}
	}
	return nil, false
}
