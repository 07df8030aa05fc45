package ops

import (
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// DeleteRows removes the rows matching the condition; it is the structural
// inverse of Filter. Rows are removed bottom-up so indices stay valid.
func DeleteRows(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.DeleteRowsParams](op)
	if err != nil {
		return err
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Condition.Column)
	if err != nil {
		return err
	}

	target := anyToString(p.Condition.Value)
	var toDelete []int
	for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
		if conditionMatch(ctx.Sheet.Cell(r, colIdx), p.Condition.Operator, target) {
			toDelete = append(toDelete, r)
		}
	}
	for i := len(toDelete) - 1; i >= 0; i-- {
		if err := ctx.Sheet.DeleteRow(toDelete[i]); err != nil {
			return opErr(op.Kind, CategoryStructural, "row removal failed", err)
		}
	}
	ctx.Logf("deleted %d rows", len(toDelete))
	return nil
}

// conditionMatch evaluates a DELETE_ROWS predicate. Equality operators
// normalize common true/false spellings first so "是"/"yes"/"1" compare
// equal; empty cells normalize to false.
func conditionMatch(cell, operator, target string) bool {
	cell = strings.TrimSpace(cell)
	target = strings.TrimSpace(target)

	switch operator {
	case "eq", "ne":
		eq := normalizeBool(cell) == normalizeBool(target)
		if operator == "eq" {
			return eq
		}
		return !eq
	case "contains":
		return strings.Contains(strings.ToLower(cell), strings.ToLower(target))
	case "empty":
		return cell == ""
	case "not_empty":
		return cell != ""
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
	}
	return false
}

// normalizeBool folds boolean-like spellings to canonical TRUE/FALSE, and
// returns other values unchanged.
func normalizeBool(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "是", "真":
		return "TRUE"
	case "false", "0", "no", "n", "否", "假", "":
		return "FALSE"
	}
	return v
}

// Deduplicate removes duplicate rows, comparing an optional column subset
// (full-row equality when none given) and keeping the first or last
// occurrence. Applying it twice is a no-op.
func Deduplicate(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.DeduplicateParams](op)
	if err != nil {
		return err
	}

	var keyIdxs []int
	for _, col := range p.Columns {
		idx, err := resolveColumn(ctx, op.Kind, col)
		if err != nil {
			return err
		}
		keyIdxs = append(keyIdxs, idx)
	}

	records := ctx.Sheet.Records()
	if len(records) <= 1 {
		return nil
	}
	rows := records[1:]

	key := func(row []string) string {
		if len(keyIdxs) == 0 {
			return strings.Join(row, "\x1f")
		}
		parts := make([]string, len(keyIdxs))
		for i, idx := range keyIdxs {
			if idx-1 < len(row) {
				parts[i] = row[idx-1]
			}
		}
		return strings.Join(parts, "\x1f")
	}

	keepIdx := make(map[string]int)
	for i, row := range rows {
		k := key(row)
		if _, seen := keepIdx[k]; !seen || p.Keep == "last" {
			keepIdx[k] = i
		}
	}

	kept := make([][]string, 0, len(keepIdx))
	for i, row := range rows {
		if keepIdx[key(row)] == i {
			kept = append(kept, row)
		}
	}

	if err := ctx.Sheet.WriteRows(kept); err != nil {
		return opErr(op.Kind, CategoryStructural, "writing deduplicated rows back failed", err)
	}
	ctx.Logf("deduplicate removed %d rows", len(rows)-len(kept))
	return nil
}
