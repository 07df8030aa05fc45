package plan

import (
	"fmt"
	"strings"
)

// Condition is a column predicate shared by filter-like operations.
type Condition struct {
	Column   string `mapstructure:"column"`
	Operator string `mapstructure:"operator"`
	Value    any    `mapstructure:"value"`
}

// FilterOperators lists the comparison operators the filter handler accepts.
var FilterOperators = []string{
	"eq", "ne", "gt", "lt", "gte", "lte", "contains", "startswith", "endswith",
}

// RowOperators extends FilterOperators with the blank-cell predicates used by
// DELETE_ROWS conditions.
var RowOperators = append([]string{"empty", "not_empty"}, FilterOperators...)

// FilterParams keeps rows where column <operator> value holds.
type FilterParams struct {
	Column   string `mapstructure:"column"`
	Operator string `mapstructure:"operator"`
	Value    any    `mapstructure:"value"`
}

func (p *FilterParams) validate() error {
	if p.Operator == "" {
		p.Operator = "eq"
	}
	if p.Column == "" {
		return &ValidationError{
			Message:    "filter is missing the column parameter",
			Suggestion: "name the column to filter on, e.g. column=\"销售额\"",
		}
	}
	if p.Value == nil {
		return &ValidationError{
			Message:    "filter is missing the comparison value",
			Suggestion: "provide the value to compare against, e.g. value=1000",
		}
	}
	if !contains(FilterOperators, p.Operator) {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported filter operator %q", p.Operator),
			Suggestion: "supported operators: " + strings.Join(FilterOperators, ", "),
		}
	}
	return nil
}

// SortParams sorts rows by one column; the sort is stable.
type SortParams struct {
	Column string `mapstructure:"column"`
	Order  string `mapstructure:"order"`
}

func (p *SortParams) validate() error {
	if p.Order == "" {
		p.Order = "asc"
	}
	if p.Column == "" {
		return &ValidationError{Message: "sort is missing the column parameter"}
	}
	if p.Order != "asc" && p.Order != "desc" {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported sort order %q", p.Order),
			Suggestion: `use "asc" or "desc"`,
		}
	}
	return nil
}

// AddColumnParams inserts a new column, optionally filling it with a
// row-relative formula template.
type AddColumnParams struct {
	Name     string `mapstructure:"name"`
	Formula  string `mapstructure:"formula"`
	Position string `mapstructure:"position"`
}

func (p *AddColumnParams) validate() error {
	if p.Position == "" {
		p.Position = "end"
	}
	if p.Name == "" {
		return &ValidationError{Message: "add_column is missing the new column name"}
	}
	if p.Position != "end" &&
		!strings.HasPrefix(p.Position, "after:") &&
		!strings.HasPrefix(p.Position, "before:") {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported column position %q", p.Position),
			Suggestion: `use "end", "after:<column>" or "before:<column>"`,
		}
	}
	return nil
}

// DeleteColumnParams removes one or more columns by name.
type DeleteColumnParams struct {
	Columns []string `mapstructure:"columns"`
}

func (p *DeleteColumnParams) validate() error {
	if len(p.Columns) == 0 {
		return &ValidationError{Message: "delete_column names no columns"}
	}
	return nil
}

// DeleteRowsParams removes rows matching the condition.
type DeleteRowsParams struct {
	Condition Condition `mapstructure:"condition"`
}

func (p *DeleteRowsParams) validate() error {
	if p.Condition.Operator == "" {
		p.Condition.Operator = "eq"
	}
	if p.Condition.Column == "" {
		return &ValidationError{Message: "delete_rows condition is missing the column"}
	}
	if !contains(RowOperators, p.Condition.Operator) {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported delete_rows operator %q", p.Condition.Operator),
			Suggestion: "supported operators: " + strings.Join(RowOperators, ", "),
		}
	}
	return nil
}

// DeduplicateParams drops duplicate rows by an optional column subset.
type DeduplicateParams struct {
	Columns []string `mapstructure:"columns"`
	Keep    string   `mapstructure:"keep"`
}

func (p *DeduplicateParams) validate() error {
	if p.Keep == "" {
		p.Keep = "first"
	}
	if p.Keep != "first" && p.Keep != "last" {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported keep mode %q", p.Keep),
			Suggestion: `use "first" or "last"`,
		}
	}
	return nil
}

// CalcSpec is one per-column aggregate in a CALCULATE operation.
type CalcSpec struct {
	Column   string `mapstructure:"column"`
	Function string `mapstructure:"function"`
}

// CalculateParams appends one summary row of aggregate formulas.
type CalculateParams struct {
	Operations []CalcSpec `mapstructure:"operations"`
}

func (p *CalculateParams) validate() error {
	if len(p.Operations) == 0 {
		return &ValidationError{Message: "calculate lists no aggregates"}
	}
	for i := range p.Operations {
		if p.Operations[i].Function == "" {
			p.Operations[i].Function = "sum"
		}
		if p.Operations[i].Column == "" {
			return &ValidationError{Message: "calculate aggregate is missing the column"}
		}
	}
	return nil
}

// FormatParams sets per-cell numeric display patterns on a column.
type FormatParams struct {
	Column       string `mapstructure:"column"`
	FormatType   string `mapstructure:"format_type"`
	FormatString string `mapstructure:"format_string"`
}

func (p *FormatParams) validate() error { return nil }

// StyleParams applies borders, fills and header emphasis over a range.
type StyleParams struct {
	StyleType   string `mapstructure:"style_type"`
	Range       string `mapstructure:"range"`
	HeaderRow   int    `mapstructure:"header_row"`
	BorderStyle string `mapstructure:"border_style"`
	FillColor   string `mapstructure:"fill_color"`
	AllRows     bool   `mapstructure:"all_rows"`
}

func (p *StyleParams) validate() error {
	if p.StyleType == "" {
		p.StyleType = "border"
	}
	if p.HeaderRow == 0 {
		p.HeaderRow = 1
	}
	if p.BorderStyle == "" {
		p.BorderStyle = "thin"
	}
	if p.FillColor == "" {
		p.FillColor = "D9E1F2"
	}
	return nil
}

// ReplaceParams substitutes text in one column, literally or by regex.
type ReplaceParams struct {
	Column   string `mapstructure:"column"`
	OldValue string `mapstructure:"old_value"`
	NewValue string `mapstructure:"new_value"`
	Regex    bool   `mapstructure:"regex"`
}

func (p *ReplaceParams) validate() error {
	if p.Column == "" {
		return &ValidationError{Message: "replace is missing the column parameter"}
	}
	if p.OldValue == "" {
		return &ValidationError{Message: "replace is missing the value to replace"}
	}
	return nil
}

// FillParams fills blank cells with a literal or by forward/backward fill.
type FillParams struct {
	Column string `mapstructure:"column"`
	Method string `mapstructure:"method"`
	Value  string `mapstructure:"value"`
}

func (p *FillParams) validate() error {
	if p.Method == "" {
		p.Method = "value"
	}
	if p.Column == "" {
		return &ValidationError{Message: "fill is missing the column parameter"}
	}
	if p.Method != "value" && p.Method != "ffill" && p.Method != "bfill" {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported fill method %q", p.Method),
			Suggestion: `use "value", "ffill" or "bfill"`,
		}
	}
	return nil
}

// SplitColumnParams divides a text column by a delimiter into new columns.
type SplitColumnParams struct {
	Column     string   `mapstructure:"column"`
	Delimiter  string   `mapstructure:"delimiter"`
	NewColumns []string `mapstructure:"new_columns"`
}

func (p *SplitColumnParams) validate() error {
	if p.Delimiter == "" {
		p.Delimiter = " "
	}
	if p.Column == "" {
		return &ValidationError{Message: "split_column is missing the column parameter"}
	}
	if len(p.NewColumns) == 0 {
		return &ValidationError{Message: "split_column names no new columns"}
	}
	return nil
}

// MergeColumnsParams concatenates columns with a delimiter into a new column.
type MergeColumnsParams struct {
	Columns   []string `mapstructure:"columns"`
	NewName   string   `mapstructure:"new_name"`
	Delimiter string   `mapstructure:"delimiter"`
}

func (p *MergeColumnsParams) validate() error {
	if p.NewName == "" {
		p.NewName = "合并列"
	}
	if p.Delimiter == "" {
		p.Delimiter = " "
	}
	if len(p.Columns) == 0 {
		return &ValidationError{Message: "merge_columns names no source columns"}
	}
	return nil
}

// VlookupParams appends a column populated from a key lookup against another
// sheet, or an external file when SourceFile is set.
type VlookupParams struct {
	LookupColumn       string `mapstructure:"lookup_column"`
	TargetSheet        string `mapstructure:"target_sheet"`
	TargetLookupColumn string `mapstructure:"target_lookup_column"`
	TargetReturnColumn string `mapstructure:"target_return_column"`
	NewColumnName      string `mapstructure:"new_column_name"`
	SourceFile         string `mapstructure:"source_file"`
}

func (p *VlookupParams) validate() error {
	if p.NewColumnName == "" {
		p.NewColumnName = "查找结果"
	}
	if p.LookupColumn == "" || p.TargetSheet == "" ||
		p.TargetLookupColumn == "" || p.TargetReturnColumn == "" {
		return &ValidationError{
			Message:    "vlookup requires lookup_column, target_sheet, target_lookup_column and target_return_column",
			Suggestion: "for cross-file joins use MERGE_HORIZONTAL instead",
		}
	}
	return nil
}

// PivotParams builds a cross-tabulation on a new sheet.
type PivotParams struct {
	Index   string `mapstructure:"index"`
	Columns string `mapstructure:"columns"`
	Values  string `mapstructure:"values"`
	AggFunc string `mapstructure:"aggfunc"`
}

func (p *PivotParams) validate() error {
	if p.AggFunc == "" {
		p.AggFunc = "sum"
	}
	if p.Index == "" || p.Values == "" {
		return &ValidationError{Message: "pivot requires index and values columns"}
	}
	if !contains([]string{"sum", "avg", "mean", "count", "max", "min"}, p.AggFunc) {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported pivot aggregate %q", p.AggFunc),
			Suggestion: "use sum, avg, count, max or min",
		}
	}
	return nil
}

// ChartParams renders a raster chart and embeds it in the workbook.
type ChartParams struct {
	ChartType   string   `mapstructure:"chart_type"`
	DataColumns []string `mapstructure:"data_columns"`
	LabelColumn string   `mapstructure:"label_column"`
	Title       string   `mapstructure:"title"`
	Position    string   `mapstructure:"position"`
	Width       float64  `mapstructure:"width"`
	Height      float64  `mapstructure:"height"`
	SheetName   string   `mapstructure:"sheet_name"`
	ShowValues  *bool    `mapstructure:"show_values"`
}

func (p *ChartParams) validate() error {
	if p.ChartType == "" {
		p.ChartType = "bar"
	}
	p.ChartType = strings.ToLower(p.ChartType)
	if p.Title == "" {
		p.Title = "图表"
	}
	if p.Position == "" {
		p.Position = "new_sheet"
	}
	if p.Width == 0 {
		p.Width = 15
	}
	if p.Height == 0 {
		p.Height = 10
	}
	if p.SheetName == "" {
		p.SheetName = "图表_" + p.ChartType
	}
	if len(p.DataColumns) == 0 {
		return &ValidationError{Message: "create_chart requires at least one data column"}
	}
	if !contains([]string{"bar", "column", "line", "pie", "scatter", "area"}, p.ChartType) {
		return &ValidationError{
			Message:    fmt.Sprintf("unsupported chart type %q", p.ChartType),
			Suggestion: "use bar, line, pie, scatter or area",
		}
	}
	return nil
}

// MergeVerticalParams appends rows from an external file beneath the data.
type MergeVerticalParams struct {
	SourceFile  string `mapstructure:"source_file"`
	SourceSheet string `mapstructure:"source_sheet"`
	SkipHeader  *bool  `mapstructure:"skip_header"`
}

func (p *MergeVerticalParams) validate() error {
	if p.SourceFile == "" {
		return &ValidationError{Message: "merge_vertical requires a source_file path"}
	}
	return nil
}

// SkipHeaderOrDefault returns the skip_header flag, defaulting to true.
func (p *MergeVerticalParams) SkipHeaderOrDefault() bool {
	return p.SkipHeader == nil || *p.SkipHeader
}

// MergeHorizontalParams joins external-file columns on a key column.
type MergeHorizontalParams struct {
	SourceFile      string   `mapstructure:"source_file"`
	SourceSheet     string   `mapstructure:"source_sheet"`
	KeyColumn       string   `mapstructure:"key_column"`
	SourceKeyColumn string   `mapstructure:"source_key_column"`
	ColumnsToAdd    []string `mapstructure:"columns_to_add"`
}

func (p *MergeHorizontalParams) validate() error {
	if p.SourceFile == "" {
		return &ValidationError{Message: "merge_horizontal requires a source_file path"}
	}
	if p.KeyColumn == "" {
		return &ValidationError{Message: "merge_horizontal requires the key_column of the current sheet"}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
