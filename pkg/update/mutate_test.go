package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/nupdate/pkg/errors"
)

const quirkyProject = "<Project Sdk=\"Microsoft.NET.Sdk\">\r\n" +
	"  <ItemGroup>\r\n" +
	"\t<PackageReference   Version=\"12.0.3\"  Include=\"Newtonsoft.Json\" />\r\n" +
	"    <PackageReference Include=\"Serilog\" Version=\"2.10.0\"/>\r\n" +
	"    <!-- pinned on purpose -->\r\n" +
	"    <PackageReference Include=\"Polly\" Version=\"7.2.3\" PrivateAssets=\"all\" />\r\n" +
	"  </ItemGroup>\r\n" +
	"</Project>\r\n"

func locationFor(t *testing.T, content string) ManifestLocation {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.csproj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return ManifestLocation{ManifestPath: path, TargetPath: path}
}

// TestUpdateVersion tests the UpdateVersion function.
//
// It verifies that:
//   - Only the version attribute's value bytes change; every other byte of
//     the document, including CRLF line endings, tabs, odd spacing,
//     comments, and attribute order, is preserved exactly
//   - The package id match is case-insensitive
//   - Attribute order within the tag does not matter
//   - An absent package id is a NotFoundError, never a silent no-op
func TestUpdateVersion(t *testing.T) {
	t.Run("byte preserving rewrite", func(t *testing.T) {
		loc := locationFor(t, quirkyProject)

		require.NoError(t, UpdateVersion(loc, "Serilog", "2.12.0"))

		got, err := os.ReadFile(loc.TargetPath)
		require.NoError(t, err)

		want := "<Project Sdk=\"Microsoft.NET.Sdk\">\r\n" +
			"  <ItemGroup>\r\n" +
			"\t<PackageReference   Version=\"12.0.3\"  Include=\"Newtonsoft.Json\" />\r\n" +
			"    <PackageReference Include=\"Serilog\" Version=\"2.12.0\"/>\r\n" +
			"    <!-- pinned on purpose -->\r\n" +
			"    <PackageReference Include=\"Polly\" Version=\"7.2.3\" PrivateAssets=\"all\" />\r\n" +
			"  </ItemGroup>\r\n" +
			"</Project>\r\n"
		assert.Equal(t, want, string(got))
	})

	t.Run("version attribute before include", func(t *testing.T) {
		loc := locationFor(t, quirkyProject)

		require.NoError(t, UpdateVersion(loc, "newtonsoft.json", "13.0.3"))

		got, err := os.ReadFile(loc.TargetPath)
		require.NoError(t, err)
		assert.Contains(t, string(got), "Version=\"13.0.3\"  Include=\"Newtonsoft.Json\"")
		assert.Contains(t, string(got), "Version=\"2.10.0\"")
	})

	t.Run("same version round trip is identical", func(t *testing.T) {
		loc := locationFor(t, quirkyProject)

		require.NoError(t, UpdateVersion(loc, "Polly", "7.2.3"))

		got, err := os.ReadFile(loc.TargetPath)
		require.NoError(t, err)
		assert.Equal(t, quirkyProject, string(got))
	})

	t.Run("unknown package", func(t *testing.T) {
		loc := locationFor(t, quirkyProject)

		err := UpdateVersion(loc, "No.Such.Package", "1.0.0")
		require.Error(t, err)
		nf, ok := errors.IsNotFoundError(err)
		require.True(t, ok)
		assert.Equal(t, "No.Such.Package", nf.Package)
	})

	t.Run("central version file element", func(t *testing.T) {
		dir := t.TempDir()
		manifest := filepath.Join(dir, "app.csproj")
		props := filepath.Join(dir, "Directory.Packages.props")
		require.NoError(t, os.WriteFile(manifest, []byte(`<Project><ItemGroup><PackageReference Include="Serilog" /></ItemGroup></Project>`), 0o644))
		require.NoError(t, os.WriteFile(props, []byte(`<Project><ItemGroup><PackageVersion Include="Serilog" Version="2.10.0" /></ItemGroup></Project>`), 0o644))

		loc := ManifestLocation{ManifestPath: manifest, TargetPath: props, Centralized: true}
		require.NoError(t, UpdateVersion(loc, "Serilog", "2.12.0"))

		got, err := os.ReadFile(props)
		require.NoError(t, err)
		assert.Contains(t, string(got), `<PackageVersion Include="Serilog" Version="2.12.0" />`)

		// The manifest itself is untouched.
		m, err := os.ReadFile(manifest)
		require.NoError(t, err)
		assert.NotContains(t, string(m), "2.12.0")
	})
}

// TestBackupPath tests the BackupPath function.
//
// It verifies that:
//   - The backup name follows <stem>.backup.<timestamp><ext>
//   - The backup lands in the original's directory
func TestBackupPath(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	got := BackupPath(filepath.Join("proj", "app.csproj"), at)
	assert.Equal(t, filepath.Join("proj", "app.backup.20240102150405.csproj"), got)

	got = BackupPath("Directory.Packages.props", at)
	assert.Equal(t, "Directory.Packages.backup.20240102150405.props", got)
}

// TestCreateBackupAndRestore tests the CreateBackup and Restore functions.
//
// It verifies that:
//   - The backup copy carries the original bytes
//   - A centralized location backs up both files with one shared timestamp
//   - Restore puts the original bytes back after a mutation
func TestCreateBackupAndRestore(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	timeNowFunc = func() time.Time { return fixed }
	t.Cleanup(func() { timeNowFunc = time.Now })

	t.Run("single file", func(t *testing.T) {
		loc := locationFor(t, quirkyProject)

		backup, err := CreateBackup(loc)
		require.NoError(t, err)
		require.Len(t, backup.Files, 1)

		copied, err := os.ReadFile(backup.Files[0].BackupPath)
		require.NoError(t, err)
		assert.Equal(t, quirkyProject, string(copied))

		require.NoError(t, UpdateVersion(loc, "Serilog", "9.9.9"))
		require.NoError(t, Restore(backup))

		restored, err := os.ReadFile(loc.TargetPath)
		require.NoError(t, err)
		assert.Equal(t, quirkyProject, string(restored))
	})

	t.Run("centralized backs up both files", func(t *testing.T) {
		dir := t.TempDir()
		manifest := filepath.Join(dir, "app.csproj")
		props := filepath.Join(dir, "Directory.Packages.props")
		require.NoError(t, os.WriteFile(manifest, []byte("<Project />"), 0o644))
		require.NoError(t, os.WriteFile(props, []byte("<Project />"), 0o644))

		loc := ManifestLocation{ManifestPath: manifest, TargetPath: props, Centralized: true}
		backup, err := CreateBackup(loc)
		require.NoError(t, err)
		require.Len(t, backup.Files, 2)
		assert.Equal(t, props, backup.Files[0].OriginalPath)
		assert.Equal(t, manifest, backup.Files[1].OriginalPath)
		for _, f := range backup.Files {
			assert.Contains(t, f.BackupPath, ".backup.20240601103000")
			assert.FileExists(t, f.BackupPath)
		}
	})

	t.Run("unreadable target aborts", func(t *testing.T) {
		loc := ManifestLocation{
			ManifestPath: filepath.Join(t.TempDir(), "missing.csproj"),
		}
		loc.TargetPath = loc.ManifestPath

		_, err := CreateBackup(loc)
		assert.Error(t, err)
	})
}
