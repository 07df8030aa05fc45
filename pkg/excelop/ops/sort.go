package ops

import (
	"sort"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Sort orders data rows by one column. The sort is stable, so ties keep
// their original relative order and repeating a sort is idempotent. Numeric
// cells order numerically and sort before text; text orders lexically.
func Sort(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.SortParams](op)
	if err != nil {
		return err
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Column)
	if err != nil {
		return err
	}

	records := ctx.Sheet.Records()
	if len(records) <= 1 {
		return nil
	}
	rows := records[1:]
	asc := p.Order == "asc"

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := "", ""
		if colIdx-1 < len(rows[i]) {
			a = rows[i][colIdx-1]
		}
		if colIdx-1 < len(rows[j]) {
			b = rows[j][colIdx-1]
		}
		less := cellLess(a, b)
		if asc {
			return less
		}
		return cellLess(b, a)
	})

	if err := ctx.Sheet.WriteRows(rows); err != nil {
		return opErr(op.Kind, CategoryStructural, "writing sorted rows back failed", err)
	}
	ctx.Logf("sorted by %q (%s)", p.Column, p.Order)
	return nil
}

func cellLess(a, b string) bool {
	an, aok := toFloat(a)
	bn, bok := toFloat(b)
	switch {
	case aok && bok:
		return an < bn
	case aok:
		return true
	case bok:
		return false
	default:
		return a < b
	}
}
