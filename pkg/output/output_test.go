package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/nupdate/pkg/engine"
	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/update"
	"github.com/ajxudir/nupdate/pkg/versioning"
)

func reportCandidate(t *testing.T, id, current, latest string) policy.UpdateCandidate {
	t.Helper()
	cur, ok := versioning.Parse(current)
	require.True(t, ok)
	lat, ok := versioning.Parse(latest)
	require.True(t, ok)
	return policy.UpdateCandidate{
		PackageID: id,
		Current:   cur,
		Latest:    lat,
		Category:  versioning.Classify(cur, lat),
	}
}

func sampleScan(t *testing.T) *engine.ScanResult {
	t.Helper()
	return &engine.ScanResult{
		ManifestPath: "app.csproj",
		Location:     update.ManifestLocation{ManifestPath: "app.csproj", TargetPath: "app.csproj"},
		Candidates: []policy.UpdateCandidate{
			reportCandidate(t, "Newtonsoft.Json", "12.0.3", "13.0.3"),
			reportCandidate(t, "Polly", "7.2.3", "7.2.4"),
		},
		UpToDate: 1,
		Excluded: 1,
		Failures: []engine.ResolveFailure{
			{PackageID: "Ghost", Err: fmt.Errorf("index unreachable")},
		},
	}
}

// TestTable tests the Table formatter.
//
// It verifies that:
//   - Columns align on the widest cell
//   - Wide (CJK) cells widen their column correctly
func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("NAME", "VALUE")
	table.AddRow("short", "1")
	table.AddRow("a-much-longer-name", "2")
	require.NoError(t, table.Write(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME                VALUE", lines[0])
	assert.Equal(t, "------------------  -----", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "short "))

	var wide bytes.Buffer
	table = NewTable("NAME", "VALUE")
	table.AddRow("日本語", "x")
	require.NoError(t, table.Write(&wide))
	wideLines := strings.Split(wide.String(), "\n")
	// Three double-width runes occupy six columns, wider than "NAME".
	assert.Equal(t, "日本語  x", wideLines[2])
}

// TestWriteScanReport tests the WriteScanReport function.
//
// It verifies that:
//   - Candidates render as table rows
//   - The summary line carries all four counts
//   - Resolution failures are listed
func TestWriteScanReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScanReport(&buf, sampleScan(t)))

	out := buf.String()
	assert.Contains(t, out, "Newtonsoft.Json")
	assert.Contains(t, out, "13.0.3")
	assert.Contains(t, out, "major")
	assert.Contains(t, out, "2 updatable, 1 up to date, 1 excluded, 1 failed")
	assert.Contains(t, out, "Failed to resolve Ghost")
}

// TestWriteUpdateReport tests the WriteUpdateReport function.
//
// It verifies that:
//   - Applied candidates show as updated, failed ones carry their error
//   - The batch outcome and backup paths are printed
//   - A report with no batch says so
func TestWriteUpdateReport(t *testing.T) {
	t.Run("with batch", func(t *testing.T) {
		scan := sampleScan(t)
		report := &engine.UpdateReport{
			Scan: scan,
			Batch: &update.BatchResult{
				Location:  scan.Location,
				Succeeded: 1,
				Failed:    1,
				Outcome:   update.OutcomeCommitted,
				Results: []update.CandidateResult{
					{PackageID: "Newtonsoft.Json", Target: "13.0.3"},
					{PackageID: "Polly", Target: "7.2.4", Err: fmt.Errorf("entry not found")},
				},
				BackupPaths: []string{"app.backup.20240102150405.csproj"},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, WriteUpdateReport(&buf, report))

		out := buf.String()
		assert.Contains(t, out, "updated")
		assert.Contains(t, out, "failed: entry not found")
		assert.Contains(t, out, "Batch committed: 1 updated, 1 failed")
		assert.Contains(t, out, "Backup: app.backup.20240102150405.csproj")
	})

	t.Run("no batch", func(t *testing.T) {
		var buf bytes.Buffer
		report := &engine.UpdateReport{Scan: &engine.ScanResult{}}
		require.NoError(t, WriteUpdateReport(&buf, report))
		assert.Contains(t, buf.String(), "No updates to apply")
	})
}

// TestScanJSON tests the ScanJSON and WriteJSON functions.
//
// It verifies that:
//   - The document round-trips as valid JSON with the expected values
//   - Top-level keys keep their insertion order across runs
func TestScanJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, ScanJSON(sampleScan(t))))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "app.csproj", decoded["manifest"])

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), summary["updatable"])
	assert.Equal(t, float64(1), summary["failed"])

	out := buf.String()
	assert.Less(t, strings.Index(out, `"manifest"`), strings.Index(out, `"candidates"`))
	assert.Less(t, strings.Index(out, `"candidates"`), strings.Index(out, `"summary"`))
}

// TestUpdateJSON tests the UpdateJSON function.
//
// It verifies that:
//   - The batch section carries outcome, counts, and per-result errors
//   - A batchless report marks applied as false
func TestUpdateJSON(t *testing.T) {
	scan := sampleScan(t)
	report := &engine.UpdateReport{
		Scan: scan,
		Batch: &update.BatchResult{
			Succeeded: 2,
			Outcome:   update.OutcomeCommitted,
			Results: []update.CandidateResult{
				{PackageID: "Newtonsoft.Json", Target: "13.0.3"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, UpdateJSON(report)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["applied"])

	batch, ok := decoded["batch"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "committed", batch["outcome"])
	assert.Equal(t, float64(2), batch["succeeded"])

	empty := &engine.UpdateReport{Scan: scan}
	buf.Reset()
	require.NoError(t, WriteJSON(&buf, UpdateJSON(empty)))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["applied"])
}
