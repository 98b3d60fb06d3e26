package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/nupdate/pkg/engine"
)

// ScanJSON builds the machine-readable form of a scan result.
//
// Key order is fixed so output is stable across runs.
//
// Parameters:
//   - scan: The scan result to encode
//
// Returns:
//   - *orderedmap.OrderedMap: The report document
func ScanJSON(scan *engine.ScanResult) *orderedmap.OrderedMap {
	doc := orderedmap.New()
	doc.Set("manifest", scan.ManifestPath)
	doc.Set("target", scan.Location.TargetPath)
	doc.Set("centralized", scan.Location.Centralized)

	candidates := make([]*orderedmap.OrderedMap, 0, len(scan.Candidates))
	for _, candidate := range scan.Candidates {
		entry := orderedmap.New()
		entry.Set("package", candidate.PackageID)
		entry.Set("current", candidate.Current.Raw)
		entry.Set("latest", candidate.Latest.Raw)
		entry.Set("category", candidate.Category.String())
		candidates = append(candidates, entry)
	}
	doc.Set("candidates", candidates)

	failures := make([]*orderedmap.OrderedMap, 0, len(scan.Failures))
	for _, failure := range scan.Failures {
		entry := orderedmap.New()
		entry.Set("package", failure.PackageID)
		entry.Set("error", failure.Err.Error())
		failures = append(failures, entry)
	}
	doc.Set("failures", failures)

	summary := orderedmap.New()
	summary.Set("updatable", len(scan.Candidates))
	summary.Set("upToDate", scan.UpToDate)
	summary.Set("excluded", scan.Excluded)
	summary.Set("failed", len(scan.Failures))
	doc.Set("summary", summary)

	return doc
}

// UpdateJSON builds the machine-readable form of an update run.
//
// Parameters:
//   - report: The update report to encode
//
// Returns:
//   - *orderedmap.OrderedMap: The report document
func UpdateJSON(report *engine.UpdateReport) *orderedmap.OrderedMap {
	doc := ScanJSON(report.Scan)
	if report.Batch == nil {
		doc.Set("applied", false)
		return doc
	}

	doc.Set("applied", report.Applied())
	batch := orderedmap.New()
	batch.Set("outcome", report.Batch.Outcome.String())
	batch.Set("succeeded", report.Batch.Succeeded)
	batch.Set("failed", report.Batch.Failed)
	batch.Set("backups", report.Batch.BackupPaths)

	results := make([]*orderedmap.OrderedMap, 0, len(report.Batch.Results))
	for _, res := range report.Batch.Results {
		entry := orderedmap.New()
		entry.Set("package", res.PackageID)
		entry.Set("target", res.Target)
		if res.Err != nil {
			entry.Set("error", res.Err.Error())
		}
		results = append(results, entry)
	}
	batch.Set("results", results)
	doc.Set("batch", batch)

	return doc
}

// WriteJSON renders a report document as indented JSON.
//
// Parameters:
//   - w: Destination writer
//   - doc: The report document
//
// Returns:
//   - error: The marshal or write failure; returns nil on success
func WriteJSON(w io.Writer, doc *orderedmap.OrderedMap) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
