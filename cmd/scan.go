package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/nupdate/pkg/engine"
	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/output"
)

var scanFlags policyFlags

var newEngineFunc = engine.New

var scanCmd = &cobra.Command{
	Use:   "scan <manifest>",
	Short: "List outdated package references",
	Long:  `Resolve the latest versions of every package reference in a manifest and report the admissible updates without modifying any file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanFlags.register(scanCmd)
}

// runScan executes the scan command against one manifest.
//
// It performs the following operations:
//  1. Resolves the layered configuration into a policy
//  2. Runs the scan pipeline (parse, resolve, classify, filter)
//  3. Renders the report as a table or JSON
//  4. Maps isolated resolution failures to the partial-failure exit code
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: The manifest path
//
// Returns:
//   - error: A configuration, pipeline, or partial-failure error
func runScan(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	pol, err := resolvePolicy(cmd, &scanFlags, manifestPath)
	if err != nil {
		return err
	}

	eng := newEngineFunc(pol)
	scan, err := eng.Scan(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}

	if scanFlags.jsonOutput {
		if err := output.WriteJSON(os.Stdout, output.ScanJSON(scan)); err != nil {
			return err
		}
	} else if err := output.WriteScanReport(os.Stdout, scan); err != nil {
		return err
	}

	return scanExitError(scan)
}

// scanExitError maps a scan's failure counts to the process exit contract.
//
// A scan where every reference resolved returns nil. Isolated failures
// alongside successes yield the partial-failure error; a scan where nothing
// resolved is a complete failure.
//
// Parameters:
//   - scan: The finished scan result
//
// Returns:
//   - error: nil, a partial-success error, or a complete-failure exit error
func scanExitError(scan *engine.ScanResult) error {
	if len(scan.Failures) == 0 {
		return nil
	}

	resolved := len(scan.References) - len(scan.Failures)
	if resolved > 0 {
		errs := make([]error, 0, len(scan.Failures))
		for _, failure := range scan.Failures {
			errs = append(errs, failure.Err)
		}
		return errors.NewPartialSuccessError(resolved, len(scan.Failures), errs)
	}
	return errors.NewExitErrorf(errors.ExitFailure, "all %d package resolutions failed", len(scan.Failures))
}
