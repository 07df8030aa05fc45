package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddColumnWithFormulaTemplate(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"单价", "数量"},
		{10, 3},
		{20, 5},
	})

	op := parseOp(t, "ADD_COLUMN", `{"name": "金额", "formula": "=A2*B2"}`)
	require.NoError(t, AddColumn(ctx, op))

	require.Equal(t, "金额", ctx.Sheet.Cell(1, 3))
	// Row numbers in the template are rewritten per data row.
	require.Equal(t, "=A2*B2", ctx.Sheet.Cell(2, 3))
	require.Equal(t, "=A3*B3", ctx.Sheet.Cell(3, 3))
}

func TestAddColumnAfter(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"姓名", "城市"},
		{"Ann", "北京"},
	})

	op := parseOp(t, "ADD_COLUMN", `{"name": "部门", "position": "after:姓名"}`)
	require.NoError(t, AddColumn(ctx, op))

	require.Equal(t, "部门", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "城市", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "北京", ctx.Sheet.Cell(2, 3))
}

func TestDeleteColumnsMaterializesFormulas(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"单价", "数量", "金额"},
		{10, 3, nil},
		{20, 5, nil},
	})
	require.NoError(t, ctx.Sheet.SetCell(2, 3, "=A2*B2"))
	require.NoError(t, ctx.Sheet.SetCell(3, 3, "=A3*B3"))

	op := parseOp(t, "DELETE_COLUMN", `{"columns": ["数量"]}`)
	require.NoError(t, DeleteColumns(ctx, op))

	// 金额 shifted into column 2 holding computed literals, not broken
	// references to the removed column.
	require.Equal(t, 2, ctx.Sheet.MaxColumn())
	require.Equal(t, "金额", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "30", ctx.Sheet.Cell(2, 2))
	require.Equal(t, "100", ctx.Sheet.Cell(3, 2))
}

func TestDeleteMultipleColumns(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"A", "B", "C", "D"},
		{1, 2, 3, 4},
	})

	op := parseOp(t, "DELETE_COLUMN", `{"columns": ["B", "D"]}`)
	require.NoError(t, DeleteColumns(ctx, op))

	require.Equal(t, 2, ctx.Sheet.MaxColumn())
	require.Equal(t, "A", ctx.Sheet.Cell(1, 1))
	require.Equal(t, "C", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "3", ctx.Sheet.Cell(2, 2))
}

func TestSplitColumn(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"姓名"},
		{"张 三"},
		{"李四"},
	})

	op := parseOp(t, "SPLIT_COLUMN", `{"column": "姓名", "new_columns": ["姓", "名"]}`)
	require.NoError(t, SplitColumn(ctx, op))

	require.Equal(t, "姓", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "名", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "张", ctx.Sheet.Cell(2, 2))
	require.Equal(t, "三", ctx.Sheet.Cell(2, 3))
	// Fewer parts than new columns leaves the remainder empty.
	require.Equal(t, "李四", ctx.Sheet.Cell(3, 2))
	require.Equal(t, "", ctx.Sheet.Cell(3, 3))
}

func TestMergeColumns(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"省", "市"},
		{"广东", "深圳"},
	})

	op := parseOp(t, "MERGE_COLUMNS", `{"columns": ["省", "市"], "delimiter": "-"}`)
	require.NoError(t, MergeColumns(ctx, op))

	require.Equal(t, "合并列", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "广东-深圳", ctx.Sheet.Cell(2, 3))
}

func TestAdjustFormulaRow(t *testing.T) {
	tests := []struct {
		template string
		row      int
		want     string
	}{
		{"=A2*B2", 5, "=A5*B5"},
		{"=SUM(A2:C2)", 7, "=SUM(A7:C7)"},
		{"=A10+1", 3, "=A3+1"},
	}
	for _, tt := range tests {
		if got := adjustFormulaRow(tt.template, tt.row); got != tt.want {
			t.Errorf("adjustFormulaRow(%q, %d) = %q, want %q", tt.template, tt.row, got, tt.want)
		}
	}
}
