package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterNumeric(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"产品", "销售额"},
		{"A", 500},
		{"B", 1200},
		{"C", 3000},
	})

	op := parseOp(t, "FILTER", `{"column": "销售额", "operator": "gt", "value": 1000}`)
	require.NoError(t, Filter(ctx, op))

	require.Equal(t, 3, ctx.Sheet.MaxRow())
	require.Equal(t, "B", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "C", ctx.Sheet.Cell(3, 1))
}

func TestFilterEqTextAndNumber(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"城市", "编号"},
		{"北京", 1},
		{"上海", 2},
		{"北京", 3},
	})

	op := parseOp(t, "FILTER", `{"column": "城市", "value": "北京"}`)
	require.NoError(t, Filter(ctx, op))
	require.Equal(t, 3, ctx.Sheet.MaxRow())

	// Numeric equality tolerates different spellings of the same number.
	op = parseOp(t, "FILTER", `{"column": "编号", "value": "1.0"}`)
	require.NoError(t, Filter(ctx, op))
	require.Equal(t, 2, ctx.Sheet.MaxRow())
	require.Equal(t, "1", ctx.Sheet.Cell(2, 2))
}

func TestFilterContains(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"Email"},
		{"ann@corp.com"},
		{"bob@gmail.com"},
		{"cid@CORP.com"},
	})

	op := parseOp(t, "FILTER", `{"column": "Email", "operator": "contains", "value": "corp"}`)
	require.NoError(t, Filter(ctx, op))
	require.Equal(t, 3, ctx.Sheet.MaxRow()) // case-insensitive
}

func TestFilterNonNumericCellFailsNumericOperator(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"销售额"},
		{"N/A"},
		{2000},
	})

	op := parseOp(t, "FILTER", `{"column": "销售额", "operator": "gte", "value": 0}`)
	require.NoError(t, Filter(ctx, op))
	require.Equal(t, 2, ctx.Sheet.MaxRow())
	require.Equal(t, "2000", ctx.Sheet.Cell(2, 1))
}

func TestFilterFuzzyColumnResolution(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"Total Score"},
		{10},
		{90},
	})

	// Substring match resolves "Score" to "Total Score".
	op := parseOp(t, "FILTER", `{"column": "Score", "operator": "gt", "value": 50}`)
	require.NoError(t, Filter(ctx, op))
	require.Equal(t, 2, ctx.Sheet.MaxRow())
}
