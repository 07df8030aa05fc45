// Package xlsconv transcodes legacy BIFF (.xls) workbooks into the xlsx grid
// model so the executor only ever operates on one container format. All
// columns are preserved, including empty ones, and header line breaks are
// normalized during the copy.
package xlsconv

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"go.uber.org/zap"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
)

// Convert reads the .xls workbook at path and writes an equivalent temporary
// .xlsx file, returning its path. The caller owns the temp file.
func Convert(path string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	book, err := xls.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open xls %s: %w", path, err)
	}

	wb := grid.New(logger)
	defer wb.Close()
	defaultSheet := wb.SheetNames()[0]

	copied := 0
	reusedDefault := false
	for i := 0; i < book.GetNumberSheets(); i++ {
		src, err := book.GetSheet(i)
		if err != nil {
			return "", fmt.Errorf("read xls sheet %d: %w", i, err)
		}
		if src.GetName() == defaultSheet {
			reusedDefault = true
		}
		dst, err := wb.CreateSheet(src.GetName())
		if err != nil {
			return "", err
		}
		for r := 0; r <= src.GetNumberRows(); r++ {
			row, err := src.GetRow(r)
			if err != nil {
				continue
			}
			for c, cell := range row.GetCols() {
				v := CoerceValue(cell.GetString(), r == 0)
				if v == "" {
					continue
				}
				if err := dst.SetCell(r+1, c+1, v); err != nil {
					return "", fmt.Errorf("transcode sheet %q: %w", src.GetName(), err)
				}
			}
		}
		copied++
	}
	// Drop the blank default sheet unless the source reused its name.
	if copied > 0 && !reusedDefault && len(wb.SheetNames()) > 1 {
		if err := wb.File().DeleteSheet(defaultSheet); err != nil {
			return "", err
		}
	}
	wb.File().SetActiveSheet(0)

	tmp, err := os.CreateTemp("", "excelop_*.xlsx")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := wb.Save(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	logger.Info("transcoded legacy workbook",
		zap.String("source", path), zap.String("temp", tmpPath))
	return tmpPath, nil
}

// CoerceValue maps an xls cell string onto the grid's scalar model: numbers
// stay numeric, boolean spellings become booleans, everything else is text.
// Header-row values additionally get line-break normalization.
func CoerceValue(raw string, headerRow bool) any {
	if headerRow {
		return grid.NormalizeHeader(raw)
	}
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return raw
}
