package output

import (
	"fmt"
	"io"

	"github.com/ajxudir/nupdate/pkg/engine"
)

// WriteScanReport renders a scan result as a console table followed by a
// one-line summary.
//
// Parameters:
//   - w: Destination writer
//   - scan: The scan result to render
//
// Returns:
//   - error: The first write failure; returns nil on success
func WriteScanReport(w io.Writer, scan *engine.ScanResult) error {
	if len(scan.Candidates) > 0 {
		table := NewTable("PACKAGE", "CURRENT", "LATEST", "CATEGORY")
		for _, candidate := range scan.Candidates {
			table.AddRow(
				candidate.PackageID,
				candidate.Current.Raw,
				candidate.Latest.Raw,
				candidate.Category.String(),
			)
		}
		if err := table.Write(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n%d updatable, %d up to date, %d excluded, %d failed\n",
		len(scan.Candidates), scan.UpToDate, scan.Excluded, len(scan.Failures)); err != nil {
		return err
	}

	return writeFailures(w, scan)
}

// WriteUpdateReport renders an update run: the per-candidate application
// table, the batch outcome, and the backup files written.
//
// Parameters:
//   - w: Destination writer
//   - report: The update report to render
//
// Returns:
//   - error: The first write failure; returns nil on success
func WriteUpdateReport(w io.Writer, report *engine.UpdateReport) error {
	if report.Batch == nil {
		if _, err := fmt.Fprintln(w, "No updates to apply"); err != nil {
			return err
		}
		return writeFailures(w, report.Scan)
	}

	table := NewTable("PACKAGE", "TARGET", "STATUS")
	for _, res := range report.Batch.Results {
		status := "updated"
		if res.Err != nil {
			status = fmt.Sprintf("failed: %v", res.Err)
		}
		table.AddRow(res.PackageID, res.Target, status)
	}
	if err := table.Write(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nBatch %s: %d updated, %d failed\n",
		report.Batch.Outcome, report.Batch.Succeeded, report.Batch.Failed); err != nil {
		return err
	}

	for _, path := range report.Batch.BackupPaths {
		if _, err := fmt.Fprintf(w, "Backup: %s\n", path); err != nil {
			return err
		}
	}

	return writeFailures(w, report.Scan)
}

// writeFailures lists isolated resolution failures, one per line.
//
// Parameters:
//   - w: Destination writer
//   - scan: The scan result whose failures are listed
//
// Returns:
//   - error: The first write failure, nil on success
func writeFailures(w io.Writer, scan *engine.ScanResult) error {
	for _, failure := range scan.Failures {
		if _, err := fmt.Fprintf(w, "Failed to resolve %s: %v\n", failure.PackageID, failure.Err); err != nil {
			return err
		}
	}
	return nil
}
