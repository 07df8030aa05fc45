package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateAppendsSummaryRow(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"产品", "销售额", "数量"},
		{"A", 100, 1},
		{"B", 200, 2},
		{"C", 300, 3},
	})

	op := parseOp(t, "CALCULATE", `{"operations": [
		{"column": "销售额", "function": "sum"},
		{"column": "数量", "function": "avg"}
	]}`)
	require.NoError(t, Calculate(ctx, op))

	require.Equal(t, "汇总", ctx.Sheet.Cell(5, 1))
	// Ranges stop above the summary row so it never includes itself.
	require.Equal(t, "=SUM(B2:B4)", ctx.Sheet.Cell(5, 2))
	require.Equal(t, "=AVERAGE(C2:C4)", ctx.Sheet.Cell(5, 3))
}

func TestCalculateSkipsUnknownAggregate(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"产品", "销售额"},
		{"A", 100},
	})

	op := parseOp(t, "CALCULATE", `{"operations": [
		{"column": "销售额", "function": "median"},
		{"column": "销售额", "function": "max"}
	]}`)
	require.NoError(t, Calculate(ctx, op))

	require.Equal(t, "汇总", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "=MAX(B2:B2)", ctx.Sheet.Cell(3, 2))
}
