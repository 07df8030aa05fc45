// Package formula evaluates a restricted subset of spreadsheet formulas:
// arithmetic over single-cell references, SUM/AVERAGE/COUNT/MAX/MIN over a
// single-row or single-column range, and one level of IF with a cell
// comparison condition. Anything outside the subset evaluates to
// "unevaluated" so the original formula text can be preserved; evaluation
// never returns an error to the caller.
package formula

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source supplies raw cell content. A cell holding a formula must be
// returned as its "="-prefixed text.
type Source interface {
	Cell(row, col int) string
}

var (
	arithmeticRe = regexp.MustCompile(`^[A-Za-z]+\d+(\s*[-+*/]\s*[A-Za-z]+\d+)*$`)
	cellRefRe    = regexp.MustCompile(`([A-Za-z]+)(\d+)`)
	rangeRe      = regexp.MustCompile(`^([A-Za-z]+)(\d+):([A-Za-z]+)(\d+)$`)
	aggregateRe  = regexp.MustCompile(`(?i)^(SUM|AVERAGE|COUNT|MAX|MIN)\(([A-Za-z]+\d+:[A-Za-z]+\d+)\)$`)
	ifRe         = regexp.MustCompile(`(?i)^IF\((.+?),(.+?),(.+?)\)$`)
	comparisonRe = regexp.MustCompile(`^(.+?)(>=|<=|<>|!=|=|>|<)(.+)$`)
)

// Evaluate computes a "="-prefixed formula against src. The second return is
// false when the formula is not evaluable within the supported subset,
// including malformed text, 2D ranges, and cyclic references.
func Evaluate(src Source, text string) (any, bool) {
	if !strings.HasPrefix(text, "=") {
		return nil, false
	}
	e := &evaluator{src: src, visited: make(map[[2]int]bool)}
	return e.eval(strings.TrimSpace(text[1:]))
}

type evaluator struct {
	src     Source
	visited map[[2]int]bool
}

func (e *evaluator) eval(body string) (any, bool) {
	upper := strings.ToUpper(body)
	switch {
	case arithmeticRe.MatchString(body):
		return e.arithmetic(body)
	case aggregateRe.MatchString(body):
		m := aggregateRe.FindStringSubmatch(body)
		return e.aggregate(strings.ToUpper(m[1]), m[2])
	case strings.HasPrefix(upper, "IF("):
		return e.conditional(body)
	}
	return nil, false
}

// cellValue resolves one reference, evaluating through nested formulas. A
// reference already on the evaluation path is a cycle and fails the whole
// evaluation instead of recursing without bound.
func (e *evaluator) cellValue(col, row int) (any, bool) {
	key := [2]int{row, col}
	if e.visited[key] {
		return nil, false
	}
	content := e.src.Cell(row, col)
	if content == "" {
		return nil, false
	}
	if strings.HasPrefix(content, "=") {
		e.visited[key] = true
		defer delete(e.visited, key)
		return e.eval(strings.TrimSpace(content[1:]))
	}
	return content, true
}

func (e *evaluator) numericCell(col, row int) (float64, bool) {
	v, ok := e.cellValue(col, row)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// arithOperand resolves a reference for arithmetic. Empty and non-numeric
// plain cells read as zero, but a formula cell that cannot be evaluated,
// a cycle included, fails the expression rather than corrupting it with a
// silent zero.
func (e *evaluator) arithOperand(col, row int) (float64, bool) {
	content := e.src.Cell(row, col)
	if content == "" {
		return 0, true
	}
	if strings.HasPrefix(content, "=") {
		v, ok := e.cellValue(col, row)
		if !ok {
			return 0, false
		}
		n, ok := toNumber(v)
		if !ok {
			return 0, false
		}
		return n, true
	}
	if n, ok := toNumber(content); ok {
		return n, true
	}
	return 0, true
}

func (e *evaluator) arithmetic(body string) (any, bool) {
	body = strings.ReplaceAll(body, " ", "")
	var values []float64
	var ops []byte
	rest := body
	for {
		m := cellRefRe.FindStringSubmatchIndex(rest)
		if m == nil || m[0] != 0 {
			return nil, false
		}
		col, err := excelize.ColumnNameToNumber(strings.ToUpper(rest[m[2]:m[3]]))
		if err != nil {
			return nil, false
		}
		row, err := strconv.Atoi(rest[m[4]:m[5]])
		if err != nil {
			return nil, false
		}
		n, ok := e.arithOperand(col, row)
		if !ok {
			return nil, false
		}
		values = append(values, n)
		rest = rest[m[1]:]
		if rest == "" {
			break
		}
		ops = append(ops, rest[0])
		rest = rest[1:]
	}

	// Multiplication and division bind tighter than addition.
	for i := 0; i < len(ops); {
		switch ops[i] {
		case '*':
			values[i] *= values[i+1]
		case '/':
			if values[i+1] == 0 {
				return nil, false
			}
			values[i] /= values[i+1]
		default:
			i++
			continue
		}
		values = append(values[:i+1], values[i+2:]...)
		ops = append(ops[:i], ops[i+1:]...)
	}
	result := values[0]
	for i, op := range ops {
		if op == '+' {
			result += values[i+1]
		} else {
			result -= values[i+1]
		}
	}
	return result, true
}

// rangeValues collects the numeric values of a single-row or single-column
// range. Non-numeric cells are excluded, not coerced to zero. A 2D range is
// unsupported and fails.
func (e *evaluator) rangeValues(rangeStr string) ([]float64, bool) {
	m := rangeRe.FindStringSubmatch(rangeStr)
	if m == nil {
		return nil, false
	}
	startCol, err := excelize.ColumnNameToNumber(strings.ToUpper(m[1]))
	if err != nil {
		return nil, false
	}
	startRow, _ := strconv.Atoi(m[2])
	endCol, err := excelize.ColumnNameToNumber(strings.ToUpper(m[3]))
	if err != nil {
		return nil, false
	}
	endRow, _ := strconv.Atoi(m[4])

	var values []float64
	switch {
	case startCol == endCol:
		for r := startRow; r <= endRow; r++ {
			if n, ok := e.numericCell(startCol, r); ok {
				values = append(values, n)
			}
		}
	case startRow == endRow:
		for c := startCol; c <= endCol; c++ {
			if n, ok := e.numericCell(c, startRow); ok {
				values = append(values, n)
			}
		}
	default:
		return nil, false
	}
	return values, true
}

func (e *evaluator) aggregate(fn, rangeStr string) (any, bool) {
	values, ok := e.rangeValues(rangeStr)
	if !ok {
		return nil, false
	}
	switch fn {
	case "COUNT":
		return float64(len(values)), true
	case "SUM":
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum, true
	case "AVERAGE":
		if len(values) == 0 {
			return 0.0, true
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), true
	case "MAX":
		if len(values) == 0 {
			return 0.0, true
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	case "MIN":
		if len(values) == 0 {
			return 0.0, true
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min, true
	}
	return nil, false
}

func (e *evaluator) conditional(body string) (any, bool) {
	m := ifRe.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}
	cond, ok := e.condition(strings.TrimSpace(m[1]))
	if !ok {
		return nil, false
	}
	branch := strings.TrimSpace(m[3])
	if cond {
		branch = strings.TrimSpace(m[2])
	}
	return literal(branch)
}

func (e *evaluator) condition(expr string) (bool, bool) {
	m := comparisonRe.FindStringSubmatch(expr)
	if m == nil {
		return false, false
	}
	left, lok := e.operand(strings.TrimSpace(m[1]))
	right, rok := e.operand(strings.TrimSpace(m[3]))
	if !lok || !rok {
		return false, false
	}
	op := m[2]

	ln, lnum := toNumber(left)
	rn, rnum := toNumber(right)
	if lnum && rnum {
		switch op {
		case "=":
			return ln == rn, true
		case "<>", "!=":
			return ln != rn, true
		case ">":
			return ln > rn, true
		case "<":
			return ln < rn, true
		case ">=":
			return ln >= rn, true
		case "<=":
			return ln <= rn, true
		}
		return false, false
	}

	ls, rs := toString(left), toString(right)
	switch op {
	case "=":
		return ls == rs, true
	case "<>", "!=":
		return ls != rs, true
	}
	// Ordering on non-numeric operands is outside the subset.
	return false, false
}

// operand resolves one side of a comparison: a cell reference, a quoted
// string, or a numeric literal.
func (e *evaluator) operand(s string) (any, bool) {
	if m := cellRefRe.FindStringSubmatch(s); m != nil && m[0] == s {
		col, err := excelize.ColumnNameToNumber(strings.ToUpper(m[1]))
		if err != nil {
			return nil, false
		}
		row, _ := strconv.Atoi(m[2])
		v, ok := e.cellValue(col, row)
		if !ok {
			return 0.0, true
		}
		return v, true
	}
	return literal(s)
}

// literal interprets an IF branch or comparison operand that is not a cell
// reference: quoted text or a number. Bare words are outside the subset.
func literal(s string) (any, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(n, ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}
