package ops

import (
	"regexp"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

var defaultFormats = map[string]string{
	"number":     "#,##0.00",
	"date":       "yyyy-mm-dd",
	"percentage": "0.00%",
	"currency":   "¥#,##0.00",
}

// Format sets a numeric display pattern on every data cell of one column.
// A missing column parameter is tolerated with a warning: planners sometimes
// route style requests here with no column at all.
func Format(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.FormatParams](op)
	if err != nil {
		return err
	}
	if p.Column == "" {
		ctx.Logf("format skipped: no column given")
		return nil
	}
	colIdx, err := resolveColumn(ctx, op.Kind, p.Column)
	if err != nil {
		return err
	}

	pattern := p.FormatString
	if pattern == "" {
		def, ok := defaultFormats[p.FormatType]
		if !ok {
			return opErrf(op.Kind, CategoryValidation, "unsupported format type %q", p.FormatType)
		}
		pattern = def
	}

	f := ctx.Workbook.File()
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pattern})
	if err != nil {
		return opErr(op.Kind, CategoryStructural, "style creation failed", err)
	}

	maxRow := ctx.Sheet.MaxRow()
	if maxRow < 2 {
		return nil
	}
	top, _ := excelize.CoordinatesToCellName(colIdx, 2)
	bottom, _ := excelize.CoordinatesToCellName(colIdx, maxRow)
	if err := f.SetCellStyle(ctx.Sheet.Name(), top, bottom, styleID); err != nil {
		return opErr(op.Kind, CategoryStructural, "number format failed", err)
	}
	ctx.Logf("formatted column %q as %s", p.Column, pattern)
	return nil
}

var rangeRefRe = regexp.MustCompile(`^([A-Za-z]+)(\d+):([A-Za-z]+)(\d+)$`)

// Style applies borders and fills over an explicit range or the whole data
// region. The header sub-mode additionally emboldens, centers and fills the
// header row.
func Style(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.StyleParams](op)
	if err != nil {
		return err
	}

	minCol, minRow, maxCol, maxRow := 1, 1, ctx.Sheet.MaxColumn(), ctx.Sheet.MaxRow()
	if m := rangeRefRe.FindStringSubmatch(p.Range); m != nil {
		if c, err := excelize.ColumnNameToNumber(m[1]); err == nil {
			minCol = c
		}
		minRow, _ = strconv.Atoi(m[2])
		if c, err := excelize.ColumnNameToNumber(m[3]); err == nil {
			maxCol = c
		}
		maxRow, _ = strconv.Atoi(m[4])
	}
	if maxRow < minRow || maxCol < minCol {
		return opErrf(op.Kind, CategoryValidation, "empty style range %q", p.Range)
	}

	f := ctx.Workbook.File()
	sheet := ctx.Sheet.Name()

	border := []excelize.Border{
		{Type: "left", Style: borderWidth(p.BorderStyle), Color: "000000"},
		{Type: "right", Style: borderWidth(p.BorderStyle), Color: "000000"},
		{Type: "top", Style: borderWidth(p.BorderStyle), Color: "000000"},
		{Type: "bottom", Style: borderWidth(p.BorderStyle), Color: "000000"},
	}
	fill := excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{p.FillColor}}

	if p.StyleType == "border" || p.StyleType == "all" {
		styleID, err := f.NewStyle(&excelize.Style{Border: border})
		if err != nil {
			return opErr(op.Kind, CategoryStructural, "border style creation failed", err)
		}
		top, _ := excelize.CoordinatesToCellName(minCol, minRow)
		bottom, _ := excelize.CoordinatesToCellName(maxCol, maxRow)
		if err := f.SetCellStyle(sheet, top, bottom, styleID); err != nil {
			return opErr(op.Kind, CategoryStructural, "border apply failed", err)
		}
		ctx.Logf("bordered range %s:%s", top, bottom)
	}

	if p.StyleType == "fill" || p.StyleType == "header" || p.StyleType == "all" {
		headerStyle, err := f.NewStyle(&excelize.Style{
			Fill: fill,
			Font: &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			return opErr(op.Kind, CategoryStructural, "header style creation failed", err)
		}
		left, _ := excelize.CoordinatesToCellName(minCol, p.HeaderRow)
		right, _ := excelize.CoordinatesToCellName(maxCol, p.HeaderRow)
		if err := f.SetCellStyle(sheet, left, right, headerStyle); err != nil {
			return opErr(op.Kind, CategoryStructural, "header style apply failed", err)
		}
		ctx.Logf("styled header row %d", p.HeaderRow)
	}

	if p.StyleType == "fill" && p.AllRows {
		fillStyle, err := f.NewStyle(&excelize.Style{Fill: fill})
		if err != nil {
			return opErr(op.Kind, CategoryStructural, "fill style creation failed", err)
		}
		top, _ := excelize.CoordinatesToCellName(minCol, minRow)
		bottom, _ := excelize.CoordinatesToCellName(maxCol, maxRow)
		if err := f.SetCellStyle(sheet, top, bottom, fillStyle); err != nil {
			return opErr(op.Kind, CategoryStructural, "fill apply failed", err)
		}
	}
	return nil
}

func borderWidth(style string) int {
	switch style {
	case "medium":
		return 2
	case "thick":
		return 5
	default: // thin
		return 1
	}
}
