// Package manifest reads MSBuild project files and their package references.
//
// A manifest is a .csproj-style XML document whose dependencies appear as
// <PackageReference Include="Pkg.Id" Version="1.2.3" /> elements. Projects
// using Central Package Management omit the Version attribute and pin
// versions in a shared Directory.Packages.props file through
// <PackageVersion Include="Pkg.Id" Version="1.2.3" /> entries.
package manifest

import (
	"github.com/ajxudir/nupdate/pkg/versioning"
)

const (
	// CentralVersionFileName is the canonical name of the shared version
	// file consulted and mutated when centralized management is active.
	CentralVersionFileName = "Directory.Packages.props"

	// CentralFileSearchDepth is how many ancestor directories (inclusive of
	// the manifest's own) are searched for the shared version file.
	CentralFileSearchDepth = 5

	// centralFlagProperty is the boolean property that opts a project into
	// centralized version management explicitly.
	centralFlagProperty = "ManagePackageVersionsCentrally"
)

// PackageReference is one declared dependency of a manifest.
//
// References are created by parsing, are immutable, and are discarded after
// a run. The package id is unique within a manifest.
//
// Fields:
//   - ID: The package id (Include attribute)
//   - Version: The declared version, parsed
type PackageReference struct {
	ID      string
	Version versioning.Version
}

// rawEntry is one reference element before lenient filtering, retaining
// enough information for centralized-management detection.
type rawEntry struct {
	id         string
	rawVersion string
	hasVersion bool
}
