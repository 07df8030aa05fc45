package ops

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

var aggFormulas = map[string]string{
	"sum":   "SUM",
	"avg":   "AVERAGE",
	"count": "COUNT",
	"max":   "MAX",
	"min":   "MIN",
}

// Calculate appends one summary row holding per-column aggregate formulas.
// Each range spans row 2 through the row just above the summary row, so the
// summary never includes itself.
func Calculate(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.CalculateParams](op)
	if err != nil {
		return err
	}

	summaryRow := ctx.Sheet.MaxRow() + 1
	if err := ctx.Sheet.SetCell(summaryRow, 1, "汇总"); err != nil {
		return opErr(op.Kind, CategoryStructural, "summary label write failed", err)
	}

	for _, spec := range p.Operations {
		fn, ok := aggFormulas[spec.Function]
		if !ok {
			ctx.Logf("skipping unknown aggregate %q on column %q", spec.Function, spec.Column)
			continue
		}
		colIdx, err := resolveColumn(ctx, op.Kind, spec.Column)
		if err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(colIdx)
		if err != nil {
			return opErr(op.Kind, CategoryStructural, "column name conversion failed", err)
		}
		f := fmt.Sprintf("=%s(%s2:%s%d)", fn, colName, colName, summaryRow-1)
		if err := ctx.Sheet.SetCell(summaryRow, colIdx, f); err != nil {
			return opErr(op.Kind, CategoryStructural, "summary formula write failed", err)
		}
	}
	ctx.Logf("appended summary row %d", summaryRow)
	return nil
}
