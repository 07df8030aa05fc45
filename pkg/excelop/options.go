// Package excelop executes declarative operation plans against spreadsheet
// workbooks: it loads a source file, applies each operation in order through
// the dispatcher, and persists the mutated workbook together with an audit
// log.
package excelop

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Options configures an Executor. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// EnableBackup controls whether a byte copy of the source file is taken
	// before any mutation.
	EnableBackup bool
	// BackupDir is where backups are written.
	BackupDir string
	// BackupKeep bounds the backup rotation; the oldest backups beyond this
	// count are deleted.
	BackupKeep int
	// OutputDir receives generated output files when ExecutePlan is called
	// with an empty output path.
	OutputDir string
	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the executor defaults: backups enabled, five
// retained, written under the system temp directory.
func DefaultOptions() Options {
	return Options{
		EnableBackup: true,
		BackupDir:    filepath.Join(os.TempDir(), "excelop_backups"),
		BackupKeep:   5,
		OutputDir:    ".",
	}
}
