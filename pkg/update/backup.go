package update

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajxudir/nupdate/pkg/verbose"
)

// backupTimestampLayout produces the 14-digit timestamp embedded in backup
// file names (YYYYMMDDHHmmss).
const backupTimestampLayout = "20060102150405"

// timeNowFunc is a variable that holds the time.Now function.
// This allows for clock injection during testing.
var timeNowFunc = time.Now

// Backup holds the pre-batch state of every file a batch touches, both on
// disk (sibling backup copies) and in memory (for restore-on-rollback).
//
// Fields:
//   - Files: One entry per backed-up file, mutation target first
type Backup struct {
	Files []BackupFile
}

// BackupFile is the preserved pre-batch state of a single file.
//
// Fields:
//   - OriginalPath: The file that was backed up
//   - BackupPath: The sibling copy written next to the original
//   - Content: The original bytes, retained for rollback
//   - Mode: The original permission bits
type BackupFile struct {
	OriginalPath string
	BackupPath   string
	Content      []byte
	Mode         os.FileMode
}

// BackupPath derives the sibling backup name for a file at a given instant.
//
// The convention is <stem>.backup.<YYYYMMDDHHmmss><original-extension>,
// written alongside the original.
//
// Parameters:
//   - path: The file to derive a backup name for
//   - t: The instant embedded in the name
//
// Returns:
//   - string: The backup path (e.g., "app.backup.20240101120000.csproj")
func BackupPath(path string, t time.Time) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s.backup.%s%s", stem, t.Format(backupTimestampLayout), ext))
}

// CreateBackup copies the location's file(s) to timestamped sibling paths.
//
// The manifest is always backed up; when centralized management is active
// the shared version file is backed up as well. All copies share one
// timestamp. Original bytes and permissions are retained in memory so a
// failed batch can be rolled back even if the on-disk copies are removed.
//
// Parameters:
//   - loc: The resolved location for this batch
//
// Returns:
//   - *Backup: The preserved pre-batch state
//   - error: When any file cannot be read or its copy cannot be written;
//     returns nil on success
func CreateBackup(loc ManifestLocation) (*Backup, error) {
	now := timeNowFunc()
	backup := &Backup{}

	for _, path := range loc.paths() {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("backup read %s: %w", path, err)
		}

		mode := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}

		backupPath := BackupPath(path, now)
		if err := os.WriteFile(backupPath, content, mode); err != nil {
			return nil, fmt.Errorf("backup write %s: %w", backupPath, err)
		}

		verbose.Debugf("Backed up %s to %s", path, backupPath)
		backup.Files = append(backup.Files, BackupFile{
			OriginalPath: path,
			BackupPath:   backupPath,
			Content:      content,
			Mode:         mode,
		})
	}

	return backup, nil
}

// Restore writes the preserved pre-batch bytes back onto the original paths.
//
// Parameters:
//   - backup: The pre-batch state to restore
//
// Returns:
//   - error: The first write failure encountered; returns nil when every
//     file was restored
func Restore(backup *Backup) error {
	for _, file := range backup.Files {
		if err := os.WriteFile(file.OriginalPath, file.Content, file.Mode); err != nil {
			return fmt.Errorf("restore %s: %w", file.OriginalPath, err)
		}
		verbose.Debugf("Restored %s from backup", file.OriginalPath)
	}
	return nil
}
