package update

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

var (
	includeAttrRe = regexp.MustCompile(`(?i)\bInclude\s*=\s*"([^"]*)"`)
	versionAttrRe = regexp.MustCompile(`(?i)\bVersion\s*=\s*"([^"]*)"`)
)

// UpdateVersion rewrites the declared version of one package at a location.
//
// When centralized management is active the PackageVersion entry in the
// shared version file is mutated; otherwise the manifest's own
// PackageReference entry is. The rewrite replaces only the bytes of the
// Version attribute value, so every other byte of the document, including
// formatting and attribute order, is preserved exactly.
//
// Parameters:
//   - loc: The resolved location for this batch
//   - packageID: The package id to update (case-insensitive match)
//   - newVersion: The replacement version string
//
// Returns:
//   - error: A *errors.NotFoundError when the package id is absent from the
//     file being mutated (never a silent no-op); returns nil on success
func UpdateVersion(loc ManifestLocation, packageID, newVersion string) error {
	content, err := os.ReadFile(loc.TargetPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", loc.TargetPath, err)
	}

	mutated, found := replaceVersionAttr(string(content), loc.targetElement(), packageID, newVersion)
	if !found {
		return errors.NewNotFoundError(packageID, loc.TargetPath)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(loc.TargetPath); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(loc.TargetPath, []byte(mutated), mode); err != nil {
		return fmt.Errorf("write %s: %w", loc.TargetPath, err)
	}

	verbose.Debugf("Updated %s to %s in %s", packageID, newVersion, loc.TargetPath)
	return nil
}

// replaceVersionAttr performs the byte-indexed attribute replacement.
//
// It performs the following operations:
//   - Locates every opening tag of the reference element
//   - Within each tag, matches the Include attribute against the package id
//   - Finds the Version attribute's value span inside the matching tag
//   - Splices the new version into the exact value span, leaving all other
//     bytes untouched
//
// Parameters:
//   - text: The document content
//   - element: The reference element name ("PackageReference" or "PackageVersion")
//   - packageID: The package id to locate
//   - newVersion: The replacement version string
//
// Returns:
//   - string: The mutated content (unchanged when not found)
//   - bool: true if an entry was located and rewritten
func replaceVersionAttr(text, element, packageID, newVersion string) (string, bool) {
	tagRe := regexp.MustCompile(`<` + regexp.QuoteMeta(element) + `\b[^>]*>`)

	for _, span := range tagRe.FindAllStringIndex(text, -1) {
		tag := text[span[0]:span[1]]

		include := includeAttrRe.FindStringSubmatch(tag)
		if include == nil || !strings.EqualFold(strings.TrimSpace(include[1]), packageID) {
			continue
		}

		idx := versionAttrRe.FindStringSubmatchIndex(tag)
		if idx == nil {
			// Entry exists but carries no inline version (centrally managed);
			// keep looking for another entry with one.
			continue
		}

		start := span[0] + idx[2]
		end := span[0] + idx[3]
		return text[:start] + newVersion + text[end:], true
	}

	return text, false
}
