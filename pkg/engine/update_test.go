package engine

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/nupdate/pkg/update"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

// TestUpdate tests the Engine.Update method end to end.
//
// It verifies that:
//   - Admissible updates are written to the manifest and the batch commits
//   - The pre-mutation backup carries the original version
//   - A ceiling that admits nothing leaves the file untouched with no batch
func TestUpdate(t *testing.T) {
	src := func() *fakeSource {
		return &fakeSource{versions: map[string][]string{
			"Newtonsoft.Json": {"12.0.3", "13.0.1", "13.0.3"},
			"Serilog":         {"2.10.0", "2.12.0"},
			"Polly":           {"7.2.3", "7.2.4"},
		}}
	}

	t.Run("applies and backs up", func(t *testing.T) {
		manifest := writeManifest(t, scanProject)
		eng := NewWithSource(testPolicy(), src())

		report, err := eng.Update(context.Background(), manifest)
		require.NoError(t, err)
		require.NotNil(t, report.Batch)
		assert.Equal(t, update.OutcomeCommitted, report.Batch.Outcome)
		assert.Equal(t, 2, report.Batch.Succeeded)
		assert.True(t, report.Applied())

		content, err := os.ReadFile(manifest)
		require.NoError(t, err)
		assert.Contains(t, string(content), `Include="Newtonsoft.Json" Version="13.0.3"`)
		assert.Contains(t, string(content), `Include="Polly" Version="7.2.4"`)
		assert.Contains(t, string(content), `Include="Serilog" Version="2.12.0"`, "already current, untouched")

		require.Len(t, report.Batch.BackupPaths, 1)
		backup, err := os.ReadFile(report.Batch.BackupPaths[0])
		require.NoError(t, err)
		assert.Contains(t, string(backup), `Version="12.0.3"`)
	})

	t.Run("restrictive ceiling applies nothing", func(t *testing.T) {
		manifest := writeManifest(t, scanProject)
		pol := testPolicy()
		pol.Ceiling = versioning.CategoryPatch
		pol.Exclude = []string{"Polly"}
		eng := NewWithSource(pol, src())

		before, err := os.ReadFile(manifest)
		require.NoError(t, err)

		report, err := eng.Update(context.Background(), manifest)
		require.NoError(t, err)
		assert.Nil(t, report.Batch)
		assert.False(t, report.Applied())

		after, err := os.ReadFile(manifest)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("cancelled before mutation", func(t *testing.T) {
		manifest := writeManifest(t, scanProject)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		eng := NewWithSource(testPolicy(), src())

		report, err := eng.Update(ctx, manifest)
		require.Error(t, err)
		assert.Nil(t, report)
	})
}
