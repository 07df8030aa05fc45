package ops

import (
	"regexp"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Replace substitutes text within one column, literally or by regular
// expression, and reports the number of cells changed.
func Replace(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.ReplaceParams](op)
	if err != nil {
		return err
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Column)
	if err != nil {
		return err
	}

	var re *regexp.Regexp
	if p.Regex {
		re, err = regexp.Compile(p.OldValue)
		if err != nil {
			return opErr(op.Kind, CategoryValidation, "invalid replace pattern", err)
		}
	}

	count := 0
	for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
		old := ctx.Sheet.Cell(r, colIdx)
		if old == "" {
			continue
		}
		var next string
		if re != nil {
			next = re.ReplaceAllString(old, p.NewValue)
		} else {
			next = strings.ReplaceAll(old, p.OldValue, p.NewValue)
		}
		if next != old {
			if err := ctx.Sheet.SetCell(r, colIdx, next); err != nil {
				return opErr(op.Kind, CategoryStructural, "replace write failed", err)
			}
			count++
		}
	}
	ctx.Logf("replaced %d cells", count)
	return nil
}

// Fill populates blank cells in one column with a literal value, or carries
// the nearest non-blank value forward (ffill) or backward (bfill) across
// contiguous blank runs.
func Fill(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.FillParams](op)
	if err != nil {
		return err
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Column)
	if err != nil {
		return err
	}
	maxRow := ctx.Sheet.MaxRow()

	set := func(r int, v string) error {
		if err := ctx.Sheet.SetCell(r, colIdx, v); err != nil {
			return opErr(op.Kind, CategoryStructural, "fill write failed", err)
		}
		return nil
	}

	switch p.Method {
	case "value":
		for r := 2; r <= maxRow; r++ {
			if strings.TrimSpace(ctx.Sheet.Cell(r, colIdx)) == "" {
				if err := set(r, p.Value); err != nil {
					return err
				}
			}
		}
	case "ffill":
		last := ""
		for r := 2; r <= maxRow; r++ {
			v := ctx.Sheet.Cell(r, colIdx)
			if strings.TrimSpace(v) != "" {
				last = v
			} else if last != "" {
				if err := set(r, last); err != nil {
					return err
				}
			}
		}
	case "bfill":
		last := ""
		for r := maxRow; r >= 2; r-- {
			v := ctx.Sheet.Cell(r, colIdx)
			if strings.TrimSpace(v) != "" {
				last = v
			} else if last != "" {
				if err := set(r, last); err != nil {
					return err
				}
			}
		}
	}
	ctx.Logf("filled blanks in column %q (%s)", p.Column, p.Method)
	return nil
}
