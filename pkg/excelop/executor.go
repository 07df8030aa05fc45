package excelop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/ops"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
	"github.com/excelop/excelop-go/pkg/excelop/xlsconv"
)

// Executor owns one workbook for one plan execution: backup, transcode,
// dispatch, persistence. It is single-writer; run concurrent plans against
// different files with separate Executors.
type Executor struct {
	path       string
	opts       Options
	log        *zap.Logger
	sessionID  string
	wb         *grid.Workbook
	dispatcher *ops.Dispatcher
	opLog      []string
	backupPath string
	tempPath   string
}

// New opens the source file, takes a backup when enabled, and transcodes
// legacy .xls input to the xlsx grid model.
func New(path string, opts Options) (*Executor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Executor{
		path:      path,
		opts:      opts,
		log:       log.With(zap.String("file", filepath.Base(path))),
		sessionID: uuid.NewString(),
	}

	if opts.EnableBackup {
		e.createBackup()
	}

	if strings.EqualFold(filepath.Ext(path), ".xls") {
		tmp, err := xlsconv.Convert(path, e.log)
		if err != nil {
			return nil, fmt.Errorf("transcode .xls: %w", err)
		}
		e.tempPath = tmp
		e.logf("converted .xls input to .xlsx for processing")
	}

	wb, err := openWorkbook(e.loadPath(), e.log)
	if err != nil {
		return nil, err
	}
	e.wb = wb
	e.dispatcher = ops.NewDispatcher(e.log)
	e.log.Info("session opened", zap.String("session", e.sessionID))
	return e, nil
}

func openWorkbook(path string, log *zap.Logger) (*grid.Workbook, error) {
	return grid.Open(path, log)
}

// loadPath is the file the workbook is actually loaded from: the transcoded
// temp file for .xls input, the source file otherwise.
func (e *Executor) loadPath() string {
	if e.tempPath != "" {
		return e.tempPath
	}
	return e.path
}

// Workbook exposes the loaded workbook, primarily for tests and callers
// that need to inspect state between plans.
func (e *Executor) Workbook() *grid.Workbook {
	return e.wb
}

// ExecutePlan applies every operation of the plan in order and persists the
// workbook. The first failing operation aborts the rest; nothing is rolled
// back (the backup is the recovery path). An empty outputPath generates
// `<stem>_processed_<timestamp>.xlsx` under the configured output directory.
// The context is only checked between operations; a running operation is
// never interrupted.
func (e *Executor) ExecutePlan(ctx context.Context, p *plan.Plan, outputPath string) (string, error) {
	e.opLog = nil
	total := len(p.Operations)
	for i := range p.Operations {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrPlanAborted, err)
		}
		op := &p.Operations[i]
		desc := op.Description
		if desc == "" {
			desc = string(op.Kind)
		}
		e.logf("[%d/%d] executing: %s", i+1, total, desc)
		if err := e.dispatcher.Dispatch(e.wb, op, e.logf); err != nil {
			e.logf("  failed: %v", err)
			return "", fmt.Errorf("%w: operation %d: %v", ErrPlanAborted, i+1, err)
		}
		e.logf("  done")
	}

	if outputPath == "" {
		stem := strings.TrimSuffix(filepath.Base(e.path), filepath.Ext(e.path))
		name := fmt.Sprintf("%s_processed_%s.xlsx", stem, time.Now().Format("20060102_150405"))
		outputPath = filepath.Join(e.opts.OutputDir, name)
	}
	if err := e.wb.Save(outputPath); err != nil {
		return "", err
	}
	e.logf("saved: %s", outputPath)
	return outputPath, nil
}

// Log returns the ordered human-readable operation log.
func (e *Executor) Log() []string {
	return e.opLog
}

// Records returns the append-only execution records in dispatch order.
func (e *Executor) Records() []ops.Record {
	return e.dispatcher.Records()
}

// SessionID identifies this execution session on logs and records.
func (e *Executor) SessionID() string {
	return e.sessionID
}

// Close releases the workbook and removes the .xls transcode temp file.
func (e *Executor) Close() error {
	var err error
	if e.wb != nil {
		err = e.wb.Close()
	}
	if e.tempPath != "" {
		if rmErr := os.Remove(e.tempPath); rmErr == nil {
			e.tempPath = ""
		}
	}
	return err
}

func (e *Executor) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.opLog = append(e.opLog, msg)
	e.log.Info(msg, zap.String("session", e.sessionID))
}
