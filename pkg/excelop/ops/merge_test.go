package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeVerticalSkipsDuplicatedHeader(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"姓名", "部门"},
			{"Dan", "技术部"},
			{"姓名", "部门"}, // header repeated inside the data
			{"Eve", "销售部"},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"姓名", "部门"},
		{"Ann", "财务部"},
	})

	op := parseOp(t, "MERGE_VERTICAL", `{"source_file": "`+source+`"}`)
	require.NoError(t, MergeVertical(ctx, op))

	require.Equal(t, 4, ctx.Sheet.MaxRow())
	require.Equal(t, "Dan", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "Eve", ctx.Sheet.Cell(4, 1))
}

func TestMergeVerticalKeepHeader(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"值"},
			{"x"},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"编号"},
		{"1"},
	})

	// skip_header=false appends every source row; the source header does not
	// match the target header so it is kept as data.
	op := parseOp(t, "MERGE_VERTICAL", `{"source_file": "`+source+`", "skip_header": false}`)
	require.NoError(t, MergeVertical(ctx, op))

	require.Equal(t, 4, ctx.Sheet.MaxRow())
	require.Equal(t, "值", ctx.Sheet.Cell(3, 1))
	require.Equal(t, "x", ctx.Sheet.Cell(4, 1))
}

func TestMergeVerticalMissingFile(t *testing.T) {
	_, ctx := testCtx(t, [][]any{{"A"}})

	op := parseOp(t, "MERGE_VERTICAL", `{"source_file": "/nonexistent/file.xlsx"}`)
	err := MergeVertical(ctx, op)
	require.Error(t, err)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, CategoryExternal, oe.Category)
}

func TestMergeHorizontalJoin(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"客户ID", "城市", "等级"},
			{"C1", "北京", "金"},
			{"C2", "上海", "银"},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"客户ID", "金额"},
		{"C1", 100},
		{"C3", 300},
		{"C2", 200},
	})

	op := parseOp(t, "MERGE_HORIZONTAL", `{"source_file": "`+source+`", "key_column": "客户ID"}`)
	require.NoError(t, MergeHorizontal(ctx, op))

	// Every non-key source column is joined by default.
	require.Equal(t, "城市", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "等级", ctx.Sheet.Cell(1, 4))
	require.Equal(t, "北京", ctx.Sheet.Cell(2, 3))
	require.Equal(t, "金", ctx.Sheet.Cell(2, 4))
	// Unmatched key rows keep empty cells.
	require.Equal(t, "", ctx.Sheet.Cell(3, 3))
	require.Equal(t, "上海", ctx.Sheet.Cell(4, 3))
}

func TestMergeHorizontalCollisionSuffix(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"客户ID", "城市"},
			{"C1", "广州"},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"客户ID", "城市"},
		{"C1", "北京"},
	})

	op := parseOp(t, "MERGE_HORIZONTAL", `{"source_file": "`+source+`", "key_column": "客户ID", "columns_to_add": ["城市"]}`)
	require.NoError(t, MergeHorizontal(ctx, op))

	// The joined column is renamed to avoid shadowing the existing one.
	require.Equal(t, "城市_1", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "广州", ctx.Sheet.Cell(2, 3))
	require.Equal(t, "北京", ctx.Sheet.Cell(2, 2))
}

func TestMergeHorizontalSourceKeyColumn(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"编号", "折扣"},
			{"C1", "0.9"},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"客户ID"},
		{"C1"},
	})

	op := parseOp(t, "MERGE_HORIZONTAL", `{
		"source_file": "`+source+`",
		"key_column": "客户ID",
		"source_key_column": "编号"
	}`)
	require.NoError(t, MergeHorizontal(ctx, op))

	require.Equal(t, "折扣", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "0.9", ctx.Sheet.Cell(2, 2))
}
