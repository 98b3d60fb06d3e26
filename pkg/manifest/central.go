package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/nupdate/pkg/verbose"
)

// DetectCentralizedManagement reports whether a manifest uses centralized
// version management.
//
// It performs the following checks, in order:
//   - If a ManagePackageVersionsCentrally property is present and true
//     anywhere in the document, centralized management is active (even with
//     zero reference entries)
//   - Otherwise, if strictly more than threshold (a fraction, e.g. 0.8) of
//     the reference entries lack an explicit version, centralized management
//     is inferred
//   - Otherwise centralized management is not active; exactly the threshold
//     fraction is not enough
//
// Parameters:
//   - path: The manifest file to inspect
//   - threshold: The missing-version fraction that must be strictly exceeded
//     (config.DefaultCentralVersionThreshold unless overridden)
//
// Returns:
//   - bool: true if centralized management is active
//   - error: A *errors.ParseError when the manifest cannot be read or decoded;
//     returns nil on success
func DetectCentralizedManagement(path string, threshold float64) (bool, error) {
	root, err := readDocument(path)
	if err != nil {
		return false, err
	}

	flag := false
	var entries []rawEntry
	walkNodes(root, func(node *xmlNode) {
		switch {
		case strings.EqualFold(node.XMLName.Local, centralFlagProperty):
			if strings.EqualFold(strings.TrimSpace(node.Content), "true") {
				flag = true
			}
		case node.XMLName.Local == "PackageReference":
			entry := rawEntry{id: strings.TrimSpace(attrValue(node, "Include"))}
			if _, ok := versionOf(node); ok {
				entry.hasVersion = true
			}
			entries = append(entries, entry)
		}
	})

	if flag {
		verbose.Debugf("Centralized management: %s flag set in %s", centralFlagProperty, path)
		return true, nil
	}

	if len(entries) == 0 {
		return false, nil
	}

	missing := 0
	for _, entry := range entries {
		if !entry.hasVersion {
			missing++
		}
	}

	inferred := float64(missing) > threshold*float64(len(entries))
	if inferred {
		verbose.Debugf("Centralized management inferred for %s: %d of %d entries lack a version",
			path, missing, len(entries))
	}
	return inferred, nil
}

// LocateCentralVersionFile searches for the shared version file near a
// manifest.
//
// Starting at the manifest's own directory, up to CentralFileSearchDepth
// ancestor directories are checked walking from leaf toward root; the
// nearest match wins.
//
// Parameters:
//   - manifestPath: The manifest whose shared version file is wanted
//
// Returns:
//   - string: Absolute path of the located Directory.Packages.props
//   - bool: true if a file was found within the search depth
func LocateCentralVersionFile(manifestPath string) (string, bool) {
	dir, err := filepath.Abs(filepath.Dir(manifestPath))
	if err != nil {
		return "", false
	}

	for i := 0; i < CentralFileSearchDepth; i++ {
		candidate := filepath.Join(dir, CentralVersionFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			verbose.Debugf("Located central version file: %s", candidate)
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
