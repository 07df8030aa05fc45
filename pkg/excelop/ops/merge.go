package ops

import (
	"fmt"
	"os"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// openExternal loads the external workbook named by an operation and picks
// the requested sheet, falling back to its active sheet.
func openExternal(ctx *Context, kind plan.Kind, path, sheetName string) (*grid.Workbook, *grid.Sheet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, opErrf(kind, CategoryExternal, "source file does not exist: %s", path)
	}
	wb, err := grid.Open(path, ctx.Logger)
	if err != nil {
		return nil, nil, opErr(kind, CategoryExternal, "opening source file failed", err)
	}
	if sheetName != "" {
		if s, ok := wb.Sheet(sheetName); ok {
			return wb, s, nil
		}
	}
	return wb, wb.ActiveSheet(), nil
}

// MergeVertical appends the rows of an external file beneath the current
// data. Rows whose normalized values match the target header are treated as
// duplicated headers and skipped.
func MergeVertical(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.MergeVerticalParams](op)
	if err != nil {
		return err
	}
	wb, source, err := openExternal(ctx, op.Kind, p.SourceFile, p.SourceSheet)
	if err != nil {
		return err
	}
	defer wb.Close()

	targetHeaders := make([]string, 0)
	for _, h := range ctx.Sheet.Headers() {
		targetHeaders = append(targetHeaders, strings.ToLower(strings.TrimSpace(h)))
	}

	records := source.Records()
	start := 0
	if p.SkipHeaderOrDefault() {
		start = 1
	}

	nextRow := ctx.Sheet.MaxRow() + 1
	added := 0
	for _, row := range records[min(start, len(records)):] {
		if looksLikeHeader(row, targetHeaders) {
			ctx.Logf("skipped a duplicated header row")
			continue
		}
		for c, v := range row {
			if err := ctx.Sheet.SetCell(nextRow+added, c+1, v); err != nil {
				return opErr(op.Kind, CategoryStructural, "append write failed", err)
			}
		}
		added++
	}
	ctx.Logf("merge_vertical appended %d rows from %s", added, p.SourceFile)
	return nil
}

// looksLikeHeader reports whether a row's normalized cells match the target
// header prefix of the same length.
func looksLikeHeader(row []string, targetHeaders []string) bool {
	if len(row) == 0 || len(row) > len(targetHeaders) {
		return false
	}
	for i, v := range row {
		if strings.ToLower(strings.TrimSpace(grid.NormalizeHeader(v))) != targetHeaders[i] {
			return false
		}
	}
	return true
}

// MergeHorizontal joins columns from an external file onto the current sheet
// by matching a key column. Added columns that collide with existing headers
// are suffixed for uniqueness; rows with unmatched keys keep empty cells.
func MergeHorizontal(ctx *Context, op *plan.Operation) error {
	p, err := params[plan.MergeHorizontalParams](op)
	if err != nil {
		return err
	}
	wb, source, err := openExternal(ctx, op.Kind, p.SourceFile, p.SourceSheet)
	if err != nil {
		return err
	}
	defer wb.Close()

	sourceHeaders := source.UniqueHeaders()
	if len(sourceHeaders) == 0 {
		return opErrf(op.Kind, CategoryStructural, "source file has no data")
	}

	srcKeyName := p.SourceKeyColumn
	if srcKeyName == "" {
		srcKeyName = p.KeyColumn
	}
	srcKeyIdx, _, err := grid.ResolveColumn(sourceHeaders, srcKeyName)
	if err != nil {
		return opErrf(op.Kind, CategoryColumn, "key column not found in source file: %s", srcKeyName)
	}

	// Default to every non-key source column.
	columnsToAdd := p.ColumnsToAdd
	if len(columnsToAdd) == 0 {
		for i, h := range sourceHeaders {
			if i+1 != srcKeyIdx {
				columnsToAdd = append(columnsToAdd, h)
			}
		}
	}

	srcIdxs := make([]int, 0, len(columnsToAdd))
	srcNames := make([]string, 0, len(columnsToAdd))
	for _, name := range columnsToAdd {
		idx, _, err := grid.ResolveColumn(sourceHeaders, name)
		if err != nil {
			continue
		}
		srcIdxs = append(srcIdxs, idx)
		srcNames = append(srcNames, name)
	}
	if len(srcIdxs) == 0 {
		return opErrf(op.Kind, CategoryStructural, "none of the requested columns exist in the source file")
	}

	keyIdx, err := resolveColumn(ctx, op.Kind, p.KeyColumn)
	if err != nil {
		return err
	}

	// Index source rows by key.
	byKey := make(map[string][]string)
	for r := 2; r <= source.MaxRow(); r++ {
		key := source.Cell(r, srcKeyIdx)
		row := make([]string, len(srcIdxs))
		for i, idx := range srcIdxs {
			row[i] = source.Cell(r, idx)
		}
		byKey[key] = row
	}

	// Append the new columns, suffixing names that collide.
	existing := map[string]bool{}
	for _, h := range ctx.Sheet.Headers() {
		existing[h] = true
	}
	base := ctx.Sheet.MaxColumn()
	added := make([]string, len(srcNames))
	for i, name := range srcNames {
		actual := name
		for suffix := 1; existing[actual]; suffix++ {
			actual = fmt.Sprintf("%s_%d", name, suffix)
		}
		if actual != name {
			ctx.Logf("column name collision: %q -> %q", name, actual)
		}
		existing[actual] = true
		added[i] = actual
		if err := ctx.Sheet.SetCell(1, base+i+1, actual); err != nil {
			return opErr(op.Kind, CategoryStructural, "header write failed", err)
		}
	}

	matched := 0
	for r := 2; r <= ctx.Sheet.MaxRow(); r++ {
		row, ok := byKey[ctx.Sheet.Cell(r, keyIdx)]
		if !ok {
			continue
		}
		for i, v := range row {
			if err := ctx.Sheet.SetCell(r, base+i+1, v); err != nil {
				return opErr(op.Kind, CategoryStructural, "join write failed", err)
			}
		}
		matched++
	}
	ctx.Logf("merge_horizontal added %d columns (%s), matched %d rows",
		len(added), strings.Join(added, ", "), matched)
	return nil
}
