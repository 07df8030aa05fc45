package grid

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	dotSuffix        = regexp.MustCompile(`\.(\d+)$`)
	underscoreSuffix = regexp.MustCompile(`_(\d+)$`)
)

// ColumnNotFoundError reports a column name that matched no resolution tier.
// Suggestions holds up to 3 fuzzy-similar headers when any exist; Available
// holds up to 10 header names otherwise.
type ColumnNotFoundError struct {
	Column      string
	Suggestions []string
	Available   []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("column %q not found; similar columns: %s",
			e.Column, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("column %q not found; available columns: %s",
		e.Column, strings.Join(e.Available, ", "))
}

// ResolveColumn maps a requested column name to a 1-based index against the
// given headers. Matching tiers, first hit wins:
//
//  1. exact match after line-break normalization
//  2. trailing ".N" and "_N" suffixes treated as interchangeable
//  3. case-insensitive exact match
//  4. substring containment in either direction
//
// The matched header is returned so callers can log corrections when it
// differs from the request. The layered policy exists because upstream
// planners never see live data and routinely emit cosmetically mismatched
// names.
func ResolveColumn(headers []string, requested string) (int, string, error) {
	want := NormalizeHeader(requested)

	for i, h := range headers {
		if h == want {
			return i + 1, h, nil
		}
	}

	for _, alt := range []string{
		dotSuffix.ReplaceAllString(want, "_$1"),
		underscoreSuffix.ReplaceAllString(want, ".$1"),
	} {
		if alt == want {
			continue
		}
		for i, h := range headers {
			if h == alt {
				return i + 1, h, nil
			}
		}
	}

	for i, h := range headers {
		if strings.EqualFold(h, want) {
			return i + 1, h, nil
		}
	}

	lowWant := strings.ToLower(want)
	for i, h := range headers {
		if h == "" {
			continue
		}
		lowH := strings.ToLower(h)
		if strings.Contains(lowH, lowWant) || strings.Contains(lowWant, lowH) {
			return i + 1, h, nil
		}
	}

	return 0, "", &ColumnNotFoundError{
		Column:      want,
		Suggestions: SimilarColumns(headers, want, 3),
		Available:   availableColumns(headers, 10),
	}
}

// SimilarColumns ranks headers by fuzzy similarity to name and returns the
// closest limit matches.
func SimilarColumns(headers []string, name string, limit int) []string {
	candidates := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			candidates = append(candidates, h)
		}
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	out := make([]string, 0, limit)
	for _, r := range ranks {
		out = append(out, r.Target)
		if len(out) == limit {
			break
		}
	}
	return out
}

func availableColumns(headers []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, h := range headers {
		if h == "" {
			continue
		}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}
