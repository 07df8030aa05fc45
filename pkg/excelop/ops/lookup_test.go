package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVlookupSameWorkbook(t *testing.T) {
	path := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"订单", "客户ID"},
			{"O1", "C1"},
			{"O2", "C9"},
			{"O3", "C2"},
		},
		"客户表": {
			{"客户ID", "客户名"},
			{"C1", "甲公司"},
			{"C2", "乙公司"},
		},
	})
	_, ctx := openCtx(t, path)

	op := parseOp(t, "VLOOKUP", `{
		"lookup_column": "客户ID",
		"target_sheet": "客户表",
		"target_lookup_column": "客户ID",
		"target_return_column": "客户名"
	}`)
	require.NoError(t, Vlookup(ctx, op))

	require.Equal(t, "查找结果", ctx.Sheet.Cell(1, 3))
	require.Equal(t, "甲公司", ctx.Sheet.Cell(2, 3))
	// Unmatched keys leave the cell empty.
	require.Equal(t, "", ctx.Sheet.Cell(3, 3))
	require.Equal(t, "乙公司", ctx.Sheet.Cell(4, 3))
}

func TestVlookupExternalFile(t *testing.T) {
	source := fixtureFile(t, map[string][][]any{
		"Sheet1": {
			{"ID", "价格"},
			{"P1", 10},
			{"P2", 20},
		},
	})
	_, ctx := testCtx(t, [][]any{
		{"产品ID"},
		{"P2"},
		{"P1"},
	})

	op := parseOp(t, "VLOOKUP", `{
		"lookup_column": "产品ID",
		"target_sheet": "Sheet1",
		"target_lookup_column": "ID",
		"target_return_column": "价格",
		"new_column_name": "价格",
		"source_file": "`+source+`"
	}`)
	require.NoError(t, Vlookup(ctx, op))

	require.Equal(t, "价格", ctx.Sheet.Cell(1, 2))
	require.Equal(t, "20", ctx.Sheet.Cell(2, 2))
	require.Equal(t, "10", ctx.Sheet.Cell(3, 2))
}

func TestVlookupMissingTargetSheet(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"ID"},
		{"P1"},
	})

	op := parseOp(t, "VLOOKUP", `{
		"lookup_column": "ID",
		"target_sheet": "不存在",
		"target_lookup_column": "ID",
		"target_return_column": "X"
	}`)
	err := Vlookup(ctx, op)
	require.Error(t, err)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, CategoryExternal, oe.Category)
}

func TestVlookupFileStyleSheetWithoutSourceFile(t *testing.T) {
	_, ctx := testCtx(t, [][]any{
		{"ID"},
		{"P1"},
	})

	op := parseOp(t, "VLOOKUP", `{
		"lookup_column": "ID",
		"target_sheet": "other.xlsx!Sheet1",
		"target_lookup_column": "ID",
		"target_return_column": "X"
	}`)
	err := Vlookup(ctx, op)
	require.Error(t, err)

	var oe *OpError
	require.ErrorAs(t, err, &oe)
	require.Equal(t, CategoryValidation, oe.Category)
	require.Contains(t, oe.Message, "MERGE_HORIZONTAL")
}
