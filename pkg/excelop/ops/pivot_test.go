package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPivotSumWithColumns(t *testing.T) {
	wb, ctx := testCtx(t, [][]any{
		{"部门", "城市", "销售额"},
		{"A部", "北京", 1000},
		{"B部", "上海", 2000},
		{"A部", "上海", 500},
	})

	op := parseOp(t, "PIVOT", `{"index": "部门", "columns": "城市", "values": "销售额"}`)
	require.NoError(t, Pivot(ctx, op))

	out, ok := wb.Sheet("Sheet1" + PivotSheetSuffix)
	require.True(t, ok)

	require.Equal(t, "部门", out.Cell(1, 1))
	require.Equal(t, "上海", out.Cell(1, 2))
	require.Equal(t, "北京", out.Cell(1, 3))

	require.Equal(t, "A部", out.Cell(2, 1))
	require.Equal(t, "500", out.Cell(2, 2))
	require.Equal(t, "1000", out.Cell(2, 3))

	require.Equal(t, "B部", out.Cell(3, 1))
	require.Equal(t, "2000", out.Cell(3, 2))
	// No B部 rows in 北京: the cell stays empty rather than zero.
	require.Equal(t, "", out.Cell(3, 3))
}

func TestPivotCountWithoutColumns(t *testing.T) {
	wb, ctx := testCtx(t, [][]any{
		{"部门", "销售额"},
		{"A部", 1000},
		{"A部", ""},
		{"B部", 300},
	})

	op := parseOp(t, "PIVOT", `{"index": "部门", "values": "销售额", "aggfunc": "count"}`)
	require.NoError(t, Pivot(ctx, op))

	out, ok := wb.Sheet("Sheet1" + PivotSheetSuffix)
	require.True(t, ok)

	// Without a columns parameter the single column is named after values.
	require.Equal(t, "销售额", out.Cell(1, 2))
	// Count counts non-null cells, numeric or not.
	require.Equal(t, "1", out.Cell(2, 2))
	require.Equal(t, "1", out.Cell(3, 2))
}

func TestPivotUnknownColumnSuggests(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"部门", "销售额"},
		{"A部", 1},
	})

	op := parseOp(t, "PIVOT", `{"index": "部们", "values": "销售额"}`)
	err := Pivot(ctx, op)
	require.Error(t, err)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, CategoryColumn, oe.Category)
	require.NotEmpty(t, oe.Suggestion)
}

func TestPivotReplacesExistingSheet(t *testing.T) {
	wb, ctx := testCtx(t, [][]any{
		{"部门", "销售额"},
		{"A部", 10},
	})

	op := parseOp(t, "PIVOT", `{"index": "部门", "values": "销售额"}`)
	require.NoError(t, Pivot(ctx, op))
	require.NoError(t, Pivot(ctx, op))

	out, _ := wb.Sheet("Sheet1" + PivotSheetSuffix)
	require.Equal(t, 2, out.MaxRow())
}
