// Package update applies a filtered candidate set to disk transactionally.
//
// Each batch moves through a fixed sequence: back up the target file(s),
// mutate each candidate independently, validate the final on-disk state,
// then commit or restore the backup. A batch targets exactly one
// manifest/central-file pair, and callers are expected to serialize batches
// against the same manifest path.
package update

import (
	"path/filepath"

	"github.com/ajxudir/nupdate/pkg/manifest"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

// ManifestLocation identifies the file actually targeted for mutation.
//
// The location is computed once per batch and reused for both backup and
// mutation; it is never recomputed mid-batch.
//
// Fields:
//   - ManifestPath: Absolute path of the manifest itself
//   - TargetPath: Absolute path of the file to mutate (the manifest, or the
//     shared version file when centralized management is active)
//   - Centralized: Whether centralized version management is in effect
type ManifestLocation struct {
	ManifestPath string
	TargetPath   string
	Centralized  bool
}

// targetElement returns the reference element name mutated at this location.
//
// Returns:
//   - string: "PackageVersion" for a central version file, "PackageReference" otherwise
func (l ManifestLocation) targetElement() string {
	if l.Centralized {
		return "PackageVersion"
	}
	return "PackageReference"
}

// paths returns every file the batch touches, mutation target first.
//
// Returns:
//   - []string: The target path, plus the manifest when they differ
func (l ManifestLocation) paths() []string {
	if l.TargetPath == l.ManifestPath {
		return []string{l.TargetPath}
	}
	return []string{l.TargetPath, l.ManifestPath}
}

// ResolveLocation determines the mutation target for a manifest.
//
// It performs the following operations:
//   - Detects centralized version management on the manifest
//   - When centralized, locates the shared version file by ancestor search
//     and targets it for mutation
//   - Falls back to the manifest itself when not centralized, or when the
//     shared version file cannot be located
//
// Parameters:
//   - manifestPath: The manifest to resolve
//   - centralThreshold: The missing-version fraction for centralized detection
//
// Returns:
//   - ManifestLocation: The resolved location
//   - error: A *errors.ParseError when the manifest cannot be inspected;
//     returns nil on success
func ResolveLocation(manifestPath string, centralThreshold float64) (ManifestLocation, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		abs = manifestPath
	}

	loc := ManifestLocation{ManifestPath: abs, TargetPath: abs}

	centralized, err := manifest.DetectCentralizedManagement(abs, centralThreshold)
	if err != nil {
		return ManifestLocation{}, err
	}
	if !centralized {
		return loc, nil
	}

	central, ok := manifest.LocateCentralVersionFile(abs)
	if !ok {
		// Without a locatable shared version file there is nothing central
		// to mutate; inline versions in the manifest remain updatable.
		verbose.Infof("Centralized management detected for %s but no %s found within %d directories; targeting the manifest",
			abs, manifest.CentralVersionFileName, manifest.CentralFileSearchDepth)
		return loc, nil
	}

	loc.TargetPath = central
	loc.Centralized = true
	verbose.Debugf("Mutation target for %s: %s (centralized)", abs, central)
	return loc, nil
}
