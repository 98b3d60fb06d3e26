package engine

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ajxudir/nupdate/pkg/config"
	"github.com/ajxudir/nupdate/pkg/manifest"
	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/registry"
	"github.com/ajxudir/nupdate/pkg/update"
	"github.com/ajxudir/nupdate/pkg/verbose"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// Engine runs scans and updates against manifests using one resolved policy.
type Engine struct {
	source VersionSource
	policy config.Policy
}

// New creates an Engine with a registry client built from the policy.
//
// The permit pool is sized from the policy's concurrency setting and owned
// by this engine; independent engines get independent pools.
//
// Parameters:
//   - pol: The resolved policy
//
// Returns:
//   - *Engine: The initialized engine
func New(pol config.Policy) *Engine {
	pool := registry.NewPool(pol.Concurrency)
	return &Engine{
		source: registry.NewClient(pol.Source, pool, pol.CacheTTL),
		policy: pol,
	}
}

// NewWithSource creates an Engine over a caller-supplied version source.
//
// Parameters:
//   - pol: The resolved policy
//   - source: The version source to query (e.g., an instrumented test double)
//
// Returns:
//   - *Engine: The initialized engine
func NewWithSource(pol config.Policy, source VersionSource) *Engine {
	return &Engine{source: source, policy: pol}
}

// Scan discovers the admissible updates for a manifest without touching disk.
//
// It performs the following operations:
//   - Parses the manifest and resolves the mutation location once
//   - For centrally-managed projects, joins manifest ids against the shared
//     version file so version-less references can still be scanned
//   - Resolves candidate versions concurrently under the permit pool, one
//     logical task per reference, collected at a single point
//   - Classifies each candidate and applies the policy filter
//
// A per-package resolution failure is isolated: it is recorded in the
// result's Failures and the package is excluded, while sibling resolutions
// continue. Cancellation aborts in-flight queries and yields no partial
// result.
//
// Parameters:
//   - ctx: Cancellation signal for the resolution phase
//   - manifestPath: The manifest to scan
//
// Returns:
//   - *ScanResult: The classified, filtered candidate set
//   - error: A *errors.ParseError when the manifest (or central file) cannot
//     be parsed, or the context's error on cancellation; returns nil on success
func (e *Engine) Scan(ctx context.Context, manifestPath string) (*ScanResult, error) {
	loc, err := update.ResolveLocation(manifestPath, e.policy.CentralVersionThreshold)
	if err != nil {
		return nil, err
	}

	refs, err := e.collectReferences(loc)
	if err != nil {
		return nil, err
	}

	verbose.Debugf("Scanning %d references from %s", len(refs), manifestPath)

	result := &ScanResult{
		ManifestPath: loc.ManifestPath,
		Location:     loc,
		References:   refs,
	}

	candidates, failures, err := e.resolveCandidates(ctx, refs)
	if err != nil {
		return nil, err
	}
	result.Failures = failures
	result.UpToDate = len(refs) - len(candidates) - len(failures)

	result.Candidates = policy.Apply(candidates, e.policy.Ceiling, e.policy.Exclude, e.policy.Rules)
	result.Excluded = len(candidates) - len(result.Candidates)

	verbose.Debugf("Scan of %s: %d candidates (%d excluded by policy, %d up to date, %d failed)",
		manifestPath, len(result.Candidates), result.Excluded, result.UpToDate, len(failures))

	return result, nil
}

// collectReferences gathers the references to resolve for a location.
//
// For plain manifests this is the manifest's own inline-versioned entries.
// For centrally-managed projects the manifest's ids are joined against the
// shared version file: an inline version wins when both exist.
//
// Parameters:
//   - loc: The resolved location
//
// Returns:
//   - []manifest.PackageReference: References in manifest document order
//   - error: A *errors.ParseError from either file
func (e *Engine) collectReferences(loc update.ManifestLocation) ([]manifest.PackageReference, error) {
	inline, err := manifest.Parse(loc.ManifestPath)
	if err != nil {
		return nil, err
	}

	if !loc.Centralized {
		return inline, nil
	}

	central, err := manifest.ParseCentral(loc.TargetPath)
	if err != nil {
		return nil, err
	}

	pinned := make(map[string]versioning.Version, len(central))
	for _, ref := range central {
		pinned[strings.ToLower(ref.ID)] = ref.Version
	}

	inlineByID := make(map[string]versioning.Version, len(inline))
	for _, ref := range inline {
		inlineByID[strings.ToLower(ref.ID)] = ref.Version
	}

	ids, err := manifest.IDs(loc.ManifestPath)
	if err != nil {
		return nil, err
	}

	refs := make([]manifest.PackageReference, 0, len(ids))
	for _, id := range ids {
		key := strings.ToLower(id)
		if version, ok := inlineByID[key]; ok {
			refs = append(refs, manifest.PackageReference{ID: id, Version: version})
			continue
		}
		if version, ok := pinned[key]; ok {
			refs = append(refs, manifest.PackageReference{ID: id, Version: version})
			continue
		}
		verbose.Debugf("Skipping %s: no version in manifest or %s", id, manifest.CentralVersionFileName)
	}

	return refs, nil
}

// resolveCandidates fans out one version query per reference and collects
// the classified candidates.
//
// Each task writes only its own slot of the results slice; the two
// collection loops below run after Wait, so no lock is needed there. The
// permit pool inside the version source is the sole throughput control.
//
// Parameters:
//   - ctx: Cancellation signal
//   - refs: References to resolve
//
// Returns:
//   - []policy.UpdateCandidate: Classified candidates in reference order
//   - []ResolveFailure: Isolated per-package failures in reference order
//   - error: The context's error on cancellation (no partial results)
func (e *Engine) resolveCandidates(ctx context.Context, refs []manifest.PackageReference) ([]policy.UpdateCandidate, []ResolveFailure, error) {
	type outcome struct {
		candidate *policy.UpdateCandidate
		err       error
	}

	outcomes := make([]outcome, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			versions, err := e.source.GetAllVersions(gctx, ref.ID, e.policy.BypassCache)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// Isolated: report and continue with sibling packages.
				outcomes[i].err = err
				return nil
			}

			sel, ok := versioning.SelectLatest(ref.Version, versions, e.policy.IncludePrerelease)
			if !ok {
				return nil
			}

			outcomes[i].candidate = &policy.UpdateCandidate{
				PackageID:        ref.ID,
				Current:          ref.Version,
				LatestStable:     sel.LatestStable,
				LatestPrerelease: sel.LatestPrerelease,
				Latest:           sel.Selected,
				Category:         sel.Category,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// A cancelled scan yields no partial report.
		return nil, nil, err
	}

	var candidates []policy.UpdateCandidate
	var failures []ResolveFailure
	for i, out := range outcomes {
		if out.err != nil {
			verbose.Infof("Resolution failed for %s: %v", refs[i].ID, out.err)
			failures = append(failures, ResolveFailure{PackageID: refs[i].ID, Err: out.err})
			continue
		}
		if out.candidate != nil {
			candidates = append(candidates, *out.candidate)
		}
	}

	return candidates, failures, nil
}
