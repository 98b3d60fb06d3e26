package engine

import (
	"context"

	"github.com/ajxudir/nupdate/pkg/update"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

// Update scans a manifest and applies the admissible updates transactionally.
//
// File mutation runs strictly after all version resolution completes and is
// single-threaded. The same resolved location is used for scanning, backup,
// and mutation. Callers are expected to serialize Update calls against the
// same manifest path.
//
// Parameters:
//   - ctx: Cancellation signal for the resolution phase
//   - manifestPath: The manifest to update
//
// Returns:
//   - *UpdateReport: The scan result plus, when candidates existed, the
//     batch result with its commit/rollback outcome
//   - error: A parse error, cancellation, or a backup failure; returns nil
//     otherwise, including for rolled-back batches
func (e *Engine) Update(ctx context.Context, manifestPath string) (*UpdateReport, error) {
	scan, err := e.Scan(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	report := &UpdateReport{Scan: scan}
	if !scan.HasUpdates() {
		verbose.Debugf("No admissible updates for %s", manifestPath)
		return report, nil
	}

	batch, err := update.Run(scan.Location, scan.Candidates)
	if err != nil {
		return nil, err
	}
	report.Batch = batch

	verbose.Infof("Update batch for %s: %d of %d succeeded, %s",
		manifestPath, batch.Succeeded, len(scan.Candidates), batch.Outcome)

	return report, nil
}
