// Package cmd implements the command-line interface for nupdate.
// It provides commands for scanning a project manifest for outdated
// package references and for applying the admissible updates.
package cmd

import (
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

var exitFunc = os.Exit
var verboseFlag bool
var traceFlag bool

var rootCmd = &cobra.Command{
	Use:   "nupdate",
	Short: "NuGet package reference scanner and updater",
	Long:  `Scan project manifests for outdated package references and apply policy-filtered updates.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if traceFlag {
			verbose.SetLevel(verbose.LevelTrace)
		} else if verboseFlag {
			verbose.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success
//   - 1: Partial failure (some packages failed to resolve or apply)
//   - 2: Complete failure
//   - 3: Configuration or validation error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		var partialErr *errors.PartialSuccessError
		if stderrors.As(err, &partialErr) {
			verbose.Infof("Exit code %d: partial success - %d succeeded, %d failed", code, partialErr.Succeeded, partialErr.Failed)
		} else {
			verbose.Infof("Exit code %d: %v", code, err)
		}

		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of exiting).
//
// Unlike Execute(), this function returns the error directly without calling
// os.Exit, making it suitable for use in test suites.
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Enable trace output (implies --verbose)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(updateCmd)
}
