package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/nupdate/pkg/engine"
	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/output"
	"github.com/ajxudir/nupdate/pkg/update"
)

var updateFlags policyFlags

var updateCmd = &cobra.Command{
	Use:   "update <manifest>",
	Short: "Apply admissible package updates",
	Long:  `Resolve, classify, and filter updates for a manifest, then apply them as one transactional batch with a pre-mutation backup.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateFlags.register(updateCmd)
}

// runUpdate executes the update command against one manifest.
//
// It performs the following operations:
//  1. Resolves the layered configuration into a policy
//  2. Runs the scan pipeline to build the candidate set
//  3. Applies the candidates as a transactional batch with backup
//  4. Renders the report and maps the batch outcome to an exit code
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: The manifest path
//
// Returns:
//   - error: A configuration, pipeline, batch, or partial-failure error
func runUpdate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	pol, err := resolvePolicy(cmd, &updateFlags, manifestPath)
	if err != nil {
		return err
	}

	eng := newEngineFunc(pol)
	report, err := eng.Update(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}

	if updateFlags.jsonOutput {
		if err := output.WriteJSON(os.Stdout, output.UpdateJSON(report)); err != nil {
			return err
		}
	} else if err := output.WriteUpdateReport(os.Stdout, report); err != nil {
		return err
	}

	return updateExitError(report)
}

// updateExitError maps an update run's outcome to the process exit contract.
//
// A rolled-back or rollback-failed batch is a complete failure regardless of
// per-candidate counts. A committed batch with mixed per-candidate results
// yields the partial-failure error; resolution failures from the scan phase
// count against the run the same way.
//
// Parameters:
//   - report: The finished update report
//
// Returns:
//   - error: nil, a partial-success error, or a complete-failure exit error
func updateExitError(report *engine.UpdateReport) error {
	scanFailures := len(report.Scan.Failures)

	if report.Batch == nil {
		return scanExitError(report.Scan)
	}

	switch report.Batch.Outcome {
	case update.OutcomeRollbackFailed:
		return errors.NewExitErrorf(errors.ExitFailure, "validation failed and rollback of %s failed", report.Batch.Location.TargetPath)
	case update.OutcomeRolledBack:
		return errors.NewExitErrorf(errors.ExitFailure, "validation failed; %s restored from backup", report.Batch.Location.TargetPath)
	}

	failed := report.Batch.Failed + scanFailures
	if failed == 0 {
		return nil
	}
	if report.Batch.Succeeded == 0 {
		return errors.NewExitErrorf(errors.ExitFailure, "all %d updates failed", failed)
	}

	errs := make([]error, 0, failed)
	for _, res := range report.Batch.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	for _, failure := range report.Scan.Failures {
		errs = append(errs, failure.Err)
	}
	return errors.NewPartialSuccessError(report.Batch.Succeeded, failed, errs)
}
