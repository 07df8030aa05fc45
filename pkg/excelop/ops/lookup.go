package ops

import (
	"os"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Vlookup builds a key→value map from a target sheet (same workbook, or an
// explicitly supplied external file) and appends one new column populated by
// lookup. Unmatched keys leave the new cells empty.
func Vlookup(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.VlookupParams](op)
	if err != nil {
		return err
	}

	targetName := p.TargetSheet
	var target *grid.Sheet
	if p.SourceFile != "" {
		if _, statErr := os.Stat(p.SourceFile); statErr != nil {
			return opErrf(op.Kind, CategoryExternal, "source file does not exist: %s", p.SourceFile)
		}
		ext, err := grid.Open(p.SourceFile, ctx.Logger)
		if err != nil {
			return opErr(op.Kind, CategoryExternal, "opening source file failed", err)
		}
		defer ext.Close()
		// A planner may prefix the sheet with "file!"; keep the sheet part.
		if i := strings.LastIndex(targetName, "!"); i >= 0 {
			targetName = targetName[i+1:]
		}
		if s, ok := ext.Sheet(targetName); ok {
			target = s
		} else {
			target = ext.ActiveSheet()
		}
	} else if strings.Contains(targetName, "!") {
		return opErrf(op.Kind, CategoryValidation,
			"target sheet %q names a file but no source_file was given; use MERGE_HORIZONTAL for cross-file joins", targetName)
	} else {
		s, ok := ctx.Workbook.Sheet(targetName)
		if !ok {
			return opErrf(op.Kind, CategoryExternal, "target sheet does not exist: %s", targetName)
		}
		target = s
	}

	lookup, err := buildLookup(ctx, op, target, p.TargetLookupColumn, p.TargetReturnColumn)
	if err != nil {
		return err
	}

	lookupIdx, err := resolveColumn(ctx, op.Kind, p.LookupColumn)
	if err != nil {
		return err
	}

	newCol := ctx.Sheet.MaxColumn() + 1
	if err := ctx.Sheet.SetCell(1, newCol, p.NewColumnName); err != nil {
		return opErr(op.Kind, CategoryStructural, "header write failed", err)
	}
	matched := 0
	for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
		key := ctx.Sheet.Cell(r, lookupIdx)
		v, ok := lookup[key]
		if ok {
			matched++
		}
		if err := ctx.Sheet.SetCell(r, newCol, v); err != nil {
			return opErr(op.Kind, CategoryStructural, "lookup write failed", err)
		}
	}
	ctx.Logf("vlookup filled %q, matched %d rows", p.NewColumnName, matched)
	return nil
}

// buildLookup maps every key-column cell of the target sheet to the return
// column's value in the same row. Later duplicates of a key overwrite
// earlier ones.
func buildLookup(ctx *Context, op *plan.Operation, target *grid.Sheet, keyCol, returnCol string) (map[string]string, error) {
	headers := target.UniqueHeaders()
	keyIdx, _, err := grid.ResolveColumn(headers, keyCol)
	if err != nil {
		return nil, opErr(op.Kind, CategoryColumn, "target lookup column not found", err)
	}
	retIdx, _, err := grid.ResolveColumn(headers, returnCol)
	if err != nil {
		return nil, opErr(op.Kind, CategoryColumn, "target return column not found", err)
	}

	lookup := make(map[string]string)
	for r := 2; r <= target.MaxRow(); r++ {
		key := target.Cell(r, keyIdx)
		if key == "" {
			continue
		}
		lookup[key] = target.Cell(r, retIdx)
	}
	return lookup, nil
}
