package ops

import (
	"sort"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// PivotSheetSuffix names the sheet a pivot writes to, appended to the source
// sheet name. A pre-existing sheet of that name is replaced.
const PivotSheetSuffix = "_透视表"

// Pivot aggregates the sheet into a cross-tabulation (index down the side,
// optional column labels across the top, aggregated values in the body) on a
// new sheet.
func Pivot(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.PivotParams](op)
	if err != nil {
		return err
	}

	headers := ctx.Sheet.UniqueHeaders()
	indexIdx, err := pivotColumn(op, headers, p.Index, "index")
	if err != nil {
		return err
	}
	valuesIdx, err := pivotColumn(op, headers, p.Values, "values")
	if err != nil {
		return err
	}
	columnsIdx := 0
	if p.Columns != "" {
		columnsIdx, err = pivotColumn(op, headers, p.Columns, "columns")
		if err != nil {
			return err
		}
	}

	records := ctx.Sheet.Records()
	if len(records) <= 1 {
		return opErrf(op.Kind, CategoryStructural, "sheet has no data rows to pivot")
	}

	type cellAgg struct {
		sum     float64
		count   int
		nonNull int
		max     float64
		min     float64
	}
	groups := make(map[string]map[string]*cellAgg)
	var indexOrder []string
	colSet := make(map[string]bool)

	cell := func(row []string, idx int) string {
		if idx >= 1 && idx-1 < len(row) {
			return row[idx-1]
		}
		return ""
	}

	for _, row := range records[1:] {
		idxVal := cell(row, indexIdx)
		colVal := headers[valuesIdx-1]
		if columnsIdx > 0 {
			colVal = cell(row, columnsIdx)
		}
		byCol, ok := groups[idxVal]
		if !ok {
			byCol = make(map[string]*cellAgg)
			groups[idxVal] = byCol
			indexOrder = append(indexOrder, idxVal)
		}
		colSet[colVal] = true
		agg, ok := byCol[colVal]
		if !ok {
			agg = &cellAgg{}
			byCol[colVal] = agg
		}
		raw := cell(row, valuesIdx)
		if raw != "" {
			agg.nonNull++
		}
		if n, numOK := toFloat(raw); numOK {
			if agg.count == 0 || n > agg.max {
				agg.max = n
			}
			if agg.count == 0 || n < agg.min {
				agg.min = n
			}
			agg.sum += n
			agg.count++
		}
	}
	if len(groups) == 0 {
		return opErrf(op.Kind, CategoryStructural, "pivot produced no rows")
	}

	colLabels := make([]string, 0, len(colSet))
	for c := range colSet {
		colLabels = append(colLabels, c)
	}
	sort.Slice(colLabels, func(i, j int) bool { return cellLess(colLabels[i], colLabels[j]) })
	sort.Slice(indexOrder, func(i, j int) bool { return cellLess(indexOrder[i], indexOrder[j]) })

	pivotName := ctx.Sheet.Name() + PivotSheetSuffix
	out, err := ctx.Workbook.CreateSheet(pivotName)
	if err != nil {
		return opErr(op.Kind, CategoryStructural, "pivot sheet creation failed", err)
	}

	if err := out.SetCell(1, 1, headers[indexIdx-1]); err != nil {
		return opErr(op.Kind, CategoryStructural, "pivot write failed", err)
	}
	for c, label := range colLabels {
		if err := out.SetCell(1, c+2, label); err != nil {
			return opErr(op.Kind, CategoryStructural, "pivot write failed", err)
		}
	}
	for r, idxVal := range indexOrder {
		if err := out.SetCell(r+2, 1, idxVal); err != nil {
			return opErr(op.Kind, CategoryStructural, "pivot write failed", err)
		}
		for c, label := range colLabels {
			agg, ok := groups[idxVal][label]
			if !ok {
				continue
			}
			var v any
			switch p.AggFunc {
			case "sum":
				v = agg.sum
			case "avg", "mean":
				if agg.count > 0 {
					v = agg.sum / float64(agg.count)
				}
			case "count":
				v = float64(agg.nonNull)
			case "max":
				if agg.count > 0 {
					v = agg.max
				}
			case "min":
				if agg.count > 0 {
					v = agg.min
				}
			}
			if v == nil {
				continue
			}
			if err := out.SetCell(r+2, c+2, v); err != nil {
				return opErr(op.Kind, CategoryStructural, "pivot write failed", err)
			}
		}
	}
	ctx.Logf("pivot created sheet %q with %d rows", pivotName, len(indexOrder))
	return nil
}

// pivotColumn validates a referenced column by exact name against the
// deduplicated headers, surfacing fuzzy suggestions on a miss.
func pivotColumn(op *plan.Operation, headers []string, name, role string) (int, error) {
	for i, h := range headers {
		if h == grid.NormalizeHeader(name) {
			return i + 1, nil
		}
	}
	similar := grid.SimilarColumns(headers, name, 3)
	oe := opErrf(op.Kind, CategoryColumn, "pivot %s column %q not found", role, name)
	if len(similar) > 0 {
		oe.Suggestion = "did you mean: " + strings.Join(similar, ", ")
	} else {
		avail := headers
		if len(avail) > 10 {
			avail = avail[:10]
		}
		oe.Suggestion = "available columns: " + strings.Join(avail, ", ")
	}
	return 0, oe
}
