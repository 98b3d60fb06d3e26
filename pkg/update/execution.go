package update

import (
	"github.com/ajxudir/nupdate/pkg/errors"
	"github.com/ajxudir/nupdate/pkg/manifest"
	"github.com/ajxudir/nupdate/pkg/policy"
	"github.com/ajxudir/nupdate/pkg/verbose"
)

// BatchOutcome is the overall result of one update batch.
type BatchOutcome int

const (
	// OutcomeCommitted means the mutated file(s) validated and were kept.
	OutcomeCommitted BatchOutcome = iota

	// OutcomeRolledBack means validation failed and the pre-batch backup
	// was restored successfully.
	OutcomeRolledBack

	// OutcomeRollbackFailed means validation failed and the restore itself
	// also failed; the target file may be inconsistent. This is the most
	// severe outcome and is surfaced distinctly from a successful rollback.
	OutcomeRollbackFailed
)

// String returns the outcome's display name.
//
// Returns:
//   - string: One of "committed", "rolled back", "rollback failed"
func (o BatchOutcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeRolledBack:
		return "rolled back"
	case OutcomeRollbackFailed:
		return "rollback failed"
	default:
		return "unknown"
	}
}

// CandidateResult records the application of one candidate within a batch.
//
// Fields:
//   - PackageID: The package that was updated
//   - Target: The version written
//   - Err: The per-candidate failure, nil on success
type CandidateResult struct {
	PackageID string
	Target    string
	Err       error
}

// BatchResult is the full result of one update batch.
//
// Fields:
//   - Location: The location the batch was applied to
//   - Results: Per-candidate results in application order
//   - Succeeded: Count of candidates applied successfully
//   - Failed: Count of candidates whose mutation failed
//   - Outcome: The overall commit/rollback decision
//   - BackupPaths: The sibling backup files written before mutation
type BatchResult struct {
	Location    ManifestLocation
	Results     []CandidateResult
	Succeeded   int
	Failed      int
	Outcome     BatchOutcome
	BackupPaths []string
}

// Run applies a filtered candidate set to a location as one transaction.
//
// The batch moves through the states Idle, BackedUp, Mutating, then either
// Validated (commit) or RolledBack:
//   - The pre-batch backup covers every file the batch touches; a backup
//     failure aborts the batch before anything is mutated
//   - Each candidate is applied independently; an individual failure is
//     recorded and counted, and the batch continues with the rest
//   - Validation runs once, after all mutations, against final on-disk
//     state, and gates the commit/rollback decision for the whole file
//   - On validation failure the backup is restored; a restore failure is
//     reported as the distinct, more severe OutcomeRollbackFailed
//
// Parameters:
//   - loc: The resolved location, computed once and reused for backup and mutation
//   - candidates: The admissible candidates to apply
//
// Returns:
//   - *BatchResult: Per-candidate results and the overall outcome
//   - error: When the backup cannot be created (nothing was mutated);
//     returns nil otherwise, including for rolled-back batches
func Run(loc ManifestLocation, candidates []policy.UpdateCandidate) (*BatchResult, error) {
	backup, err := CreateBackup(loc)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Location: loc}
	for _, file := range backup.Files {
		result.BackupPaths = append(result.BackupPaths, file.BackupPath)
	}

	for _, candidate := range candidates {
		res := CandidateResult{PackageID: candidate.PackageID, Target: candidate.Latest.Raw}
		res.Err = UpdateVersion(loc, candidate.PackageID, candidate.Latest.Raw)
		if res.Err != nil {
			verbose.Infof("Update failed for %s: %v", candidate.PackageID, res.Err)
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Results = append(result.Results, res)
	}

	if err := Validate(loc); err != nil {
		verbose.Infof("Post-batch validation failed: %v", err)
		if restoreErr := Restore(backup); restoreErr != nil {
			result.Outcome = OutcomeRollbackFailed
			verbose.Infof("%v", &errors.RollbackError{Path: loc.TargetPath, Err: restoreErr})
		} else {
			result.Outcome = OutcomeRolledBack
		}
		return result, nil
	}

	result.Outcome = OutcomeCommitted
	return result, nil
}

// Validate checks that every file of a location still exists and parses as
// a well-formed document.
//
// Parameters:
//   - loc: The location to validate
//
// Returns:
//   - error: A *errors.ValidationError for the first file that is missing or
//     malformed; returns nil when all files are well formed
func Validate(loc ManifestLocation) error {
	for _, path := range loc.paths() {
		if err := manifest.Validate(path); err != nil {
			return &errors.ValidationError{Path: path, Err: err}
		}
	}
	return nil
}
