package ops

import (
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Filter keeps rows where column <operator> value holds. Numeric operators
// coerce the column to numbers; a cell that does not coerce simply fails the
// predicate and its row is excluded.
func Filter(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.FilterParams](op)
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
	target := anyToString(p.Value)

	kept := make([][]string, 0, len(records)-1)
	for _, row := range records[1:] {
		cell := ""
		if colIdx-1 < len(row) {
			cell = row[colIdx-1]
		}
		if filterMatch(cell, p.Operator, target) {
			kept = append(kept, row)
		}
	}

	if err := ctx.Sheet.WriteRows(kept); err != nil {
		return opErr(op.Kind, CategoryStructural, "writing filtered rows back failed", err)
	}
	ctx.Logf("filter kept %d/%d rows", len(kept), len(records)-1)
	return nil
}

// filterMatch applies one filter operator. Equality compares numerically
// when both sides parse as numbers, textually otherwise.
func filterMatch(cell, operator, target string) bool {
	switch operator {
	case "eq", "ne":
		eq := false
		if cn, ok1 := toFloat(cell); ok1 {
			if tn, ok2 := toFloat(target); ok2 {
				eq = cn == tn
			}
		}
		if !eq {
			eq = cell == target
		}
		if operator == "eq" {
			return eq
		}
		return !eq
	case "gt", "lt", "gte", "lte":
		cn, ok1 := toFloat(cell)
		tn, ok2 := toFloat(target)
		if !ok1 || !ok2 {
			return false
		}
		switch operator {
		case "gt":
			return cn > tn
		case "lt":
			return cn < tn
		case "gte":
			return cn >= tn
		default:
			return cn <= tn
		}
	case "contains":
		return strings.Contains(strings.ToLower(cell), strings.ToLower(target))
	case "startswith":
		return strings.HasPrefix(cell, target)
	case "endswith":
		return strings.HasSuffix(cell, target)
	}
	return false
}
