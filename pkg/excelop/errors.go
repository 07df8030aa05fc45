package excelop

import "errors"

// ErrFileNotFound indicates the source file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrNoBackup indicates a restore was requested but no backup exists.
var ErrNoBackup = errors.New("no backup available")

// ErrPlanAborted indicates an operation failed and the remaining plan was
// not executed.
var ErrPlanAborted = errors.New("plan aborted")
