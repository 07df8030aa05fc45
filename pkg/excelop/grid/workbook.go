// Package grid models a workbook as a collection of rectangular sheets with
// header-row semantics, backed by an excelize file.
package grid

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Workbook wraps an open excelize file and tracks the active sheet.
type Workbook struct {
	file *excelize.File
	log  *zap.Logger
}

// Open loads a workbook from path.
func Open(path string, logger *zap.Logger) (*Workbook, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, log: logger}, nil
}

// New creates an empty in-memory workbook with a single default sheet.
func New(logger *zap.Logger) *Workbook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{file: excelize.NewFile(), log: logger}
}

// File exposes the underlying excelize file for operations that need it
// directly, such as picture embedding and cell styling.
func (w *Workbook) File() *excelize.File {
	return w.file
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// HasSheet reports whether a sheet with the given name exists.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// ActiveSheet returns the workbook's active sheet.
func (w *Workbook) ActiveSheet() *Sheet {
	name := w.file.GetSheetName(w.file.GetActiveSheetIndex())
	return &Sheet{file: w.file, name: name}
}

// Sheet returns the named sheet, or false if it does not exist.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	if !w.HasSheet(name) {
		return nil, false
	}
	return &Sheet{file: w.file, name: name}, true
}

// Target resolves the sheet an operation should act on. A name that matches
// an existing sheet selects it; anything else, including the empty string,
// falls back to the active sheet. The fallback on an unknown name is kept for
// compatibility with upstream planners and logged at warn level.
func (w *Workbook) Target(name string) *Sheet {
	if name == "" {
		return w.ActiveSheet()
	}
	if s, ok := w.Sheet(name); ok {
		return s
	}
	w.log.Warn("unknown target sheet, falling back to active",
		zap.String("requested", name),
		zap.String("active", w.ActiveSheet().Name()))
	return w.ActiveSheet()
}

// CreateSheet adds a new empty sheet. An existing sheet of the same name is
// removed first, so the caller always gets a blank sheet.
func (w *Workbook) CreateSheet(name string) (*Sheet, error) {
	if w.HasSheet(name) {
		if err := w.file.DeleteSheet(name); err != nil {
			return nil, fmt.Errorf("replace sheet %s: %w", name, err)
		}
	}
	if _, err := w.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}
	return &Sheet{file: w.file, name: name}, nil
}

// Save writes the workbook to path.
func (w *Workbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}
