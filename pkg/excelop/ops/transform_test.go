package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceLiteral(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"状态"},
		{"进行中"},
		{"已完成"},
		{"进行中"},
	})

	op := parseOp(t, "REPLACE", `{"column": "状态", "old_value": "进行中", "new_value": "处理中"}`)
	require.NoError(t, Replace(ctx, op))

	require.Equal(t, "处理中", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "已完成", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "处理中", ctx.Sheet.Cell(4, 1))
}

func TestReplaceRegex(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"电话"},
		{"tel:1234"},
		{"tel:5678"},
	})

	op := parseOp(t, "REPLACE", `{"column": "电话", "old_value": "^tel:", "new_value": "", "regex": true}`)
	require.NoError(t, Replace(ctx, op))

	require.Equal(t, "1234", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "5678", ctx.Sheet.Cell(3, 1))
}

func TestReplaceInvalidRegex(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"A"},
		{"x"},
	})

	op := parseOp(t, "REPLACE", `{"column": "A", "old_value": "([", "new_value": "", "regex": true}`)
	err := Replace(ctx, op)
	require.Error(t, err)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, CategoryValidation, oe.Category)
}

func TestFillValue(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"城市"},
		{"北京"},
		{""},
		{"上海"},
	})

	op := parseOp(t, "FILL", `{"column": "城市", "value": "未知"}`)
	require.NoError(t, Fill(ctx, op))

	require.Equal(t, "未知", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "上海", ctx.Sheet.Cell(4, 1))
}

func TestFillForward(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"部门", "姓名"},
		{"销售部", "Ann"},
		{"", "Bob"},
		{"", "Cid"},
		{"技术部", "Dan"},
		{"", "Eve"},
	})

	op := parseOp(t, "FILL", `{"column": "部门", "method": "ffill"}`)
	require.NoError(t, Fill(ctx, op))

	require.Equal(t, "销售部", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "销售部", ctx.Sheet.Cell(4, 1))
	require.Equal(t, "技术部", ctx.Sheet.Cell(6, 1))
}

func TestFillBackward(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"组"},
		{""},
		{"G1"},
		{""},
		{"G2"},
	})

	op := parseOp(t, "FILL", `{"column": "组", "method": "bfill"}`)
	require.NoError(t, Fill(ctx, op))

	require.Equal(t, "G1", ctx.Sheet.Cell(2, 1))
	require.Equal(t, "G2", ctx.Sheet.Cell(4, 1))
}
