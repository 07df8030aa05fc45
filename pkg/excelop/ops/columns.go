package ops

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/formula"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

var rowRefRe = regexp.MustCompile(`([A-Za-z]+)\d+`)

// AddColumn inserts a new named column at end/after:/before: position. A
// formula parameter is treated as a row-relative template: its row numbers
// are rewritten per data row, not recompiled.
func AddColumn(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.AddColumnParams](op)
	if err != nil {
		return err
	}

	var colIdx int
	switch {
	case strings.HasPrefix(p.Position, "after:"):
		ref, err := resolveColumn(ctx, op.Kind, strings.TrimPrefix(p.Position, "after:"))
		if err != nil {
			return err
		}
		colIdx = ref + 1
	case strings.HasPrefix(p.Position, "before:"):
		ref, err := resolveColumn(ctx, op.Kind, strings.TrimPrefix(p.Position, "before:"))
		if err != nil {
			return err
		}
		colIdx = ref
	default:
		colIdx = ctx.Sheet.MaxColumn() + 1
	}

	if err := ctx.Sheet.InsertColumn(colIdx); err != nil {
		return opErr(op.Kind, CategoryStructural, "column insert failed", err)
	}
	if err := ctx.Sheet.SetCell(1, colIdx, p.Name); err != nil {
		return opErr(op.Kind, CategoryStructural, "header write failed", err)
	}

	if p.Formula != "" {
		for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
			if err := ctx.Sheet.SetCell(r, colIdx, adjustFormulaRow(p.Formula, r)); err != nil {
				return opErr(op.Kind, CategoryStructural, "formula fill failed", err)
			}
		}
	}
	ctx.Logf("added column %q", p.Name)
	return nil
}

// adjustFormulaRow rewrites every row number in the template to row.
func adjustFormulaRow(template string, row int) string {
	return rowRefRe.ReplaceAllStringFunc(template, func(ref string) string {
		col := strings.TrimRight(ref, "0123456789")
		return col + strconv.Itoa(row)
	})
}

// DeleteColumns removes the named columns. Every formula cell on the sheet
// is first evaluated to a literal where possible: column shifting does not
// rewrite formula references, so leaving formulas in place would corrupt
// them. Columns are removed in descending index order.
func DeleteColumns(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.DeleteColumnParams](op)
	if err != nil {
		return err
	}

	idxs := make([]int, 0, len(p.Columns))
	for _, col := range p.Columns {
		idx, err := resolveColumn(ctx, op.Kind, col)
		if err != nil {
			return err
		}
		idxs = append(idxs, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))

	MaterializeFormulas(ctx.Sheet)

	for _, idx := range idxs {
		if err := ctx.Sheet.DeleteColumn(idx); err != nil {
			return opErr(op.Kind, CategoryStructural, "column removal failed", err)
		}
	}
	ctx.Logf("deleted %d columns", len(idxs))
	return nil
}

// MaterializeFormulas replaces every evaluable formula cell on the sheet
// with its computed literal. Formulas outside the supported subset keep
// their original text.
func MaterializeFormulas(s formulaSheet) {
	maxRow, maxCol := s.MaxRow(), s.MaxColumn()
	for r := 2; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			content := s.Cell(r, c)
			if !strings.HasPrefix(content, "=") {
				continue
			}
			if v, ok := formula.Evaluate(s, content); ok {
				_ = s.SetCell(r, c, v)
			}
		}
	}
}

// formulaSheet is the sheet surface MaterializeFormulas needs.
type formulaSheet interface {
	formula.Source
	SetCell(row, col int, value any) error
	MaxRow() int
	MaxColumn() int
}

// SplitColumn divides one text column by a delimiter into new appended
// columns.
func SplitColumn(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.SplitColumnParams](op)
	if err != nil {
		return err
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Column)
	if err != nil {
		return err
	}

	maxRow := ctx.Sheet.MaxRow()
	base := ctx.Sheet.MaxColumn()
	for i, name := range p.NewColumns {
		if err := ctx.Sheet.SetCell(1, base+i+1, name); err != nil {
			return opErr(op.Kind, CategoryStructural, "header write failed", err)
		}
	}
	for r := 2; r <= maxRow; r++ {
		parts := strings.Split(ctx.Sheet.Cell(r, colIdx), p.Delimiter)
		for i := range p.NewColumns {
			v := ""
			if i < len(parts) {
				v = parts[i]
			}
			if err := ctx.Sheet.SetCell(r, base+i+1, v); err != nil {
				return opErr(op.Kind, CategoryStructural, "split write failed", err)
			}
		}
	}
	ctx.Logf("split column %q into %d columns", p.Column, len(p.NewColumns))
	return nil
}

// MergeColumns concatenates the named columns with a delimiter into one new
// appended column.
func MergeColumns(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.MergeColumnsParams](op)
	if err != nil {
		return err
	}

	idxs := make([]int, 0, len(p.Columns))
	for _, col := range p.Columns {
		idx, err := resolveColumn(ctx, op.Kind, col)
		if err != nil {
			return err
		}
		idxs = append(idxs, idx)
	}

	newCol := ctx.Sheet.MaxColumn() + 1
	if err := ctx.Sheet.SetCell(1, newCol, p.NewName); err != nil {
		return opErr(op.Kind, CategoryStructural, "header write failed", err)
	}
	for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
		parts := make([]string, len(idxs))
		for i, idx := range idxs {
			parts[i] = ctx.Sheet.Cell(r, idx)
		}
		if err := ctx.Sheet.SetCell(r, newCol, strings.Join(parts, p.Delimiter)); err != nil {
			return opErr(op.Kind, CategoryStructural, "merge write failed", err)
		}
	}
	ctx.Logf("merged %d columns into %q", len(idxs), p.NewName)
	return nil
}
