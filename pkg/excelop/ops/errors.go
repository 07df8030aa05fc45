package ops

import (
	"fmt"

	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Category classifies a handler failure per the executor's error taxonomy.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryColumn      Category = "column_resolution"
	CategoryOperator    Category = "unsupported_operator"
	CategoryFormula     Category = "unsupported_formula"
	CategoryExternal    Category = "external_resource"
	CategoryStructural  Category = "structural_integrity"
	CategoryUnsupported Category = "unsupported_operation"
)

// OpError wraps a handler failure with the operation kind and a remediation
// suggestion for the caller. It is the only error shape handlers propagate.
type OpError struct {
	Kind       plan.Kind
	Category   Category
	Message    string
	Suggestion string
	Err        error
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Suggestion != "" {
		msg += " (suggestion: " + e.Suggestion + ")"
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(kind plan.Kind, cat Category, msg string, cause error) *OpError {
	return &OpError{Kind: kind, Category: cat, Message: msg, Err: cause}
}

func opErrf(kind plan.Kind, cat Category, format string, args ...any) *OpError {
	return &OpError{Kind: kind, Category: cat, Message: fmt.Sprintf(format, args...)}
}
