package ops

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/excelop/excelop-go/pkg/excelop/chart"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// pixelsPerUnit scales the planner's width/height (given in plot units, 15x10
// by default) to raster pixels.
const pixelsPerUnit = 80

// CreateChart renders a raster chart from numeric columns and embeds the PNG
// either on a new sheet or to the right of the existing data. Column names
// are resolved through the same layered matching as every other operation,
// with corrections logged; formulas are evaluated to literals first so the
// chart plots values, not formula text.
func CreateChart(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.ChartParams](op)
	if err != nil {
		return err
	}

	dataIdxs := make([]int, 0, len(p.DataColumns))
	names := make([]string, 0, len(p.DataColumns))
	for _, col := range p.DataColumns {
		idx, err := resolveColumn(ctx, op.Kind, col)
		if err != nil {
			return err
		}
		dataIdxs = append(dataIdxs, idx)
		names = append(names, ctx.Sheet.Headers()[idx-1])
	}
	labelIdx := 0
	if p.LabelColumn != "" {
		labelIdx, err = resolveColumn(ctx, op.Kind, p.LabelColumn)
		if err != nil {
			return err
		}
	}

	MaterializeFormulas(ctx.Sheet)

	maxRow := ctx.Sheet.MaxRow()
	if maxRow < 2 {
		return opErrf(op.Kind, CategoryStructural, "sheet has no data rows to chart")
	}

	series := make([]chart.Series, len(dataIdxs))
	for i, idx := range dataIdxs {
		values := make([]float64, 0, maxRow-1)
		for r := 2; r <= maxRow; r++ {
			n, ok := toFloat(ctx.Sheet.Cell(r, idx))
			if !ok {
				n = 0
			}
			values = append(values, n)
		}
		series[i] = chart.Series{Name: names[i], Values: values}
	}

	var labels []string
	for r := 2; r <= maxRow; r++ {
		if labelIdx > 0 {
			labels = append(labels, ctx.Sheet.Cell(r, labelIdx))
		} else {
			labels = append(labels, "行"+strconv.Itoa(r-1))
		}
	}

	if p.ChartType == "scatter" && len(series) < 2 {
		return opErrf(op.Kind, CategoryValidation, "scatter charts need at least two data columns")
	}

	png, err := chart.Render(chart.Config{
		Type:       p.ChartType,
		Title:      p.Title,
		Labels:     labels,
		Series:     series,
		Width:      int(p.Width * pixelsPerUnit),
		Height:     int(p.Height * pixelsPerUnit),
		ShowValues: p.ShowValues == nil || *p.ShowValues,
	})
	if err != nil {
		return opErr(op.Kind, CategoryStructural, "chart rendering failed", err)
	}

	f := ctx.Workbook.File()
	pic := &excelize.Picture{Extension: ".png", File: png}
	if p.Position == "new_sheet" {
		sheet, err := ctx.Workbook.CreateSheet(p.SheetName)
		if err != nil {
			return opErr(op.Kind, CategoryStructural, "chart sheet creation failed", err)
		}
		if err := f.AddPictureFromBytes(sheet.Name(), "A1", pic); err != nil {
			return opErr(op.Kind, CategoryStructural, "chart embedding failed", err)
		}
		ctx.Logf("chart created on new sheet %q", p.SheetName)
		return nil
	}

	anchor, err := excelize.CoordinatesToCellName(ctx.Sheet.MaxColumn()+2, 1)
	if err != nil {
		return opErr(op.Kind, CategoryStructural, "chart anchor failed", err)
	}
	if err := f.AddPictureFromBytes(ctx.Sheet.Name(), anchor, pic); err != nil {
		return opErr(op.Kind, CategoryStructural, "chart embedding failed", err)
	}
	ctx.Logf("chart embedded beside the data at %s", anchor)
	return nil
}
