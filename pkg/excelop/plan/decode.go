package plan

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// ValidationError reports a missing or invalid operation parameter, detected
// before any grid mutation.
type ValidationError struct {
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return e.Message + " (" + e.Suggestion + ")"
	}
	return e.Message
}

// validator is implemented by every per-kind parameter struct. validate both
// checks required fields and applies defaults in place.
type validator interface {
	validate() error
}

var paramFactories = map[Kind]func() validator{
	KindFilter:          func() validator { return &FilterParams{} },
	KindSort:            func() validator { return &SortParams{} },
	KindAddColumn:       func() validator { return &AddColumnParams{} },
	KindDeleteColumn:    func() validator { return &DeleteColumnParams{} },
	KindDeleteRows:      func() validator { return &DeleteRowsParams{} },
	KindDeduplicate:     func() validator { return &DeduplicateParams{} },
	KindCalculate:       func() validator { return &CalculateParams{} },
	KindFormat:          func() validator { return &FormatParams{} },
	KindStyle:           func() validator { return &StyleParams{} },
	KindReplace:         func() validator { return &ReplaceParams{} },
	KindFill:            func() validator { return &FillParams{} },
	KindSplitColumn:     func() validator { return &SplitColumnParams{} },
	KindMergeColumns:    func() validator { return &MergeColumnsParams{} },
	KindVlookup:         func() validator { return &VlookupParams{} },
	KindPivot:           func() validator { return &PivotParams{} },
	KindCreateChart:     func() validator { return &ChartParams{} },
	KindMergeVertical:   func() validator { return &MergeVerticalParams{} },
	KindMergeHorizontal: func() validator { return &MergeHorizontalParams{} },
}

// decodeParams builds the typed parameter struct for kind from the loose
// planner map, applying defaults and validating required fields.
func decodeParams(kind Kind, raw map[string]any) (any, error) {
	factory := paramFactories[kind]
	params := factory()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		WeaklyTypedInput: true,
		DecodeHook:       scalarToSliceHook,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("malformed parameters: %v", err)}
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// scalarToSliceHook lets planners pass a single string where a list is
// expected, e.g. columns="城市" for DELETE_COLUMN.
func scalarToSliceHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Slice && from.Kind() == reflect.String {
		return []any{data}, nil
	}
	return data, nil
}
