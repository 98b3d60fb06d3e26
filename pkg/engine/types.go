// Package engine orchestrates the scan and update pipelines: manifest
// parsing, throttled concurrent version resolution, classification, policy
// filtering, and (for updates) the transactional batch.
package engine

import (
	"context"

	"github.com/ajxudir/nupdate/pkg/manifest"
	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/update"
)

// VersionSource lists all known versions for a package id.
//
// The production implementation is *registry.Client; tests substitute
// instrumented doubles.
type VersionSource interface {
	// GetAllVersions returns all known versions of a package id, stable and
	// prerelease together. An empty result for an unknown id is a valid,
	// non-error outcome.
	//
	// Parameters:
	//   - ctx: Cancellation signal
	//   - packageID: The package id to query
	//   - bypassCache: Whether to skip any response cache
	//
	// Returns:
	//   - []string: All known versions
	//   - error: A transport failure or the context's cancellation error
	GetAllVersions(ctx context.Context, packageID string, bypassCache bool) ([]string, error)
}

// ResolveFailure records an isolated per-package resolution failure.
//
// Fields:
//   - PackageID: The package whose index query failed
//   - Err: The underlying failure
type ResolveFailure struct {
	PackageID string
	Err       error
}

// ScanResult is the outcome of a scan run against one manifest.
//
// Fields:
//   - ManifestPath: The manifest that was scanned
//   - Location: The resolved mutation target (reused by the update path)
//   - References: Every reference with a resolvable current version
//   - Candidates: Admissible updates after classification and policy filtering
//   - Excluded: Count of classified candidates the policy removed
//   - UpToDate: Count of references with no newer version
//   - Failures: Isolated per-package resolution failures
type ScanResult struct {
	ManifestPath string
	Location     update.ManifestLocation
	References   []manifest.PackageReference
	Candidates   []policy.UpdateCandidate
	Excluded     int
	UpToDate     int
	Failures     []ResolveFailure
}

// HasUpdates reports whether the scan found any admissible updates.
//
// Returns:
//   - bool: true if at least one candidate survived policy filtering
func (r *ScanResult) HasUpdates() bool {
	return len(r.Candidates) > 0
}

// UpdateReport is the outcome of an update run: the scan that produced the
// candidate set plus the batch that applied it.
//
// Fields:
//   - Scan: The scan phase result
//   - Batch: The transactional batch result, nil when no updates were applied
type UpdateReport struct {
	Scan  *ScanResult
	Batch *update.BatchResult
}

// Applied reports whether the run mutated any file.
//
// Returns:
//   - bool: true if a batch ran and at least one candidate succeeded
func (r *UpdateReport) Applied() bool {
	return r.Batch != nil && r.Batch.Succeeded > 0
}
