package ops

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// resolveColumn maps a requested column name against the context sheet's
// headers, logging the correction when a non-exact tier matched.
func resolveColumn(ctx *Context, kind plan.Kind, name string) (int, error) {
	idx, matched, err := grid.ResolveColumn(ctx.Sheet.Headers(), name)
	if err != nil {
		var nf *grid.ColumnNotFoundError
		if errors.As(err, &nf) {
			oe := opErr(kind, CategoryColumn, "column resolution failed", err)
			if len(nf.Suggestions) > 0 {
				oe.Suggestion = "check the spelling, or use a similar column: " +
					strings.Join(nf.Suggestions, ", ")
			} else {
				oe.Suggestion = "choose from the available columns: " +
					strings.Join(nf.Available, ", ")
			}
			return 0, oe
		}
		return 0, opErr(kind, CategoryColumn, "column resolution failed", err)
	}
	if matched != grid.NormalizeHeader(name) {
		ctx.Logf("column name corrected: %q -> %q", name, matched)
	}
	return idx, nil
}

// toFloat parses a cell string as a number, tolerating thousands separators.
func toFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	return f, err == nil
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
