package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortAscending(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"Name", "Score"},
		{"Ann", 90},
		{"Bob", 40},
		{"Cid", 72.5},
	})

	op := parseOp(t, "SORT", `{"column": "Score"}`)
	require.NoError(t, Sort(ctx, op))

	require.Equal(t, "Bob", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "Cid", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "Ann", ctx.Sheet.Cell(4, 1))
}

func TestSortDescendingNumbersBeforeText(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"Value"},
		{"pending"},
		{300},
		{25},
	})

	op := parseOp(t, "SORT", `{"column": "Value", "order": "desc"}`)
	require.NoError(t, Sort(ctx, op))

	// Text sorts after numbers ascending, so descending puts it first.
	require.Equal(t, "pending", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "300", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "25", ctx.Sheet.Cell(4, 1))
}

func TestSortStable(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"Dept", "Name"},
		{"B", "first"},
		{"A", "x"},
		{"B", "second"},
	})

	op := parseOp(t, "SORT", `{"column": "Dept"}`)
	require.NoError(t, Sort(ctx, op))

	require.Equal(t, "x", ctx.Sheet.Cell(2, 2))
	require.Equal(t, "first", ctx.Sheet.Cell(3, 2))
	require.Equal(t, "second", ctx.Sheet.Cell(4, 2))
}
