// Package config builds the resolved policy object consumed by the engine.
//
// Configuration is merged in a fixed order: built-in defaults, then the YAML
// config file, then environment variables, then CLI flags. The merge happens
// once, before the engine runs; the engine only ever sees the final Policy.
package config

import (
	"time"

	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// Defaults applied when no other layer provides a value.
const (
	// DefaultSource is the NuGet v3 flat-container endpoint used to list
	// all known versions of a package id.
	DefaultSource = "https://api.nuget.org/v3-flatcontainer"

	// DefaultConcurrency is the permit-pool capacity bounding simultaneous
	// in-flight index queries.
	DefaultConcurrency = 5

	// DefaultCacheTTL is how long index responses are served from cache.
	DefaultCacheTTL = 30 * time.Minute

	// DefaultCentralVersionThreshold is the fraction of reference entries
	// that must lack an explicit Version attribute (strictly more than)
	// before centralized version management is inferred without the flag
	// property. The threshold is a heuristic and can be overridden.
	DefaultCentralVersionThreshold = 0.8

	// DefaultConfigFileName is the config file searched for next to the
	// manifest when no explicit path is given.
	DefaultConfigFileName = ".nupdate.yaml"
)

// Policy is the single resolved policy object the engine consumes.
//
// Fields:
//   - Source: Base URL of the remote package index
//   - Ceiling: Maximum update category applied globally
//   - IncludePrerelease: Whether prerelease versions may be offered as candidates
//   - Exclude: Package-id patterns removed from consideration
//   - Rules: Per-package ceiling overrides, evaluated first-match-wins
//   - Concurrency: Permit-pool capacity for index queries
//   - CacheTTL: Lifetime of cached index responses
//   - BypassCache: Whether to skip the response cache entirely
//   - CentralVersionThreshold: Missing-version fraction triggering centralized detection
type Policy struct {
	Source                  string
	Ceiling                 versioning.UpdateCategory
	IncludePrerelease       bool
	Exclude                 []string
	Rules                   []policy.UpdateRule
	Concurrency             int
	CacheTTL                time.Duration
	BypassCache             bool
	CentralVersionThreshold float64
}

// Defaults returns the built-in base policy.
//
// Returns:
//   - Policy: Policy populated with the package-level default constants
func Defaults() Policy {
	return Policy{
		Source:                  DefaultSource,
		Ceiling:                 versioning.CategoryMajor,
		Concurrency:             DefaultConcurrency,
		CacheTTL:                DefaultCacheTTL,
		CentralVersionThreshold: DefaultCentralVersionThreshold,
	}
}

// Overrides carries one layer's partial settings during the merge.
//
// Pointer fields distinguish "explicitly set" from "absent": only set fields
// override the layer below.
//
// Fields:
//   - Source: Index base URL override
//   - Ceiling: Ceiling name override ("patch", "minor", "major")
//   - IncludePrerelease: Prerelease opt-in override
//   - Exclude: Exclusion patterns appended to the layer below
//   - Rules: Rules appended to the layer below
//   - Concurrency: Permit-pool capacity override
//   - CacheTTL: Cache lifetime override
//   - BypassCache: Cache bypass override
//   - CentralVersionThreshold: Detection threshold override
type Overrides struct {
	Source                  *string
	Ceiling                 *string
	IncludePrerelease       *bool
	Exclude                 []string
	Rules                   []RuleCfg
	Concurrency             *int
	CacheTTL                *time.Duration
	BypassCache             *bool
	CentralVersionThreshold *float64
}

// RuleCfg is the raw, unvalidated form of an update rule as it appears in a
// config file or flag value.
//
// Fields:
//   - Pattern: Package-id pattern, exact or wildcard
//   - Ceiling: Ceiling name for matching packages
type RuleCfg struct {
	Pattern string `yaml:"pattern"`
	Ceiling string `yaml:"ceiling"`
}
