// Package plan models the operation plan consumed from the upstream planner:
// an ordered list of typed operations with kind-specific parameters.
package plan

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Kind identifies one supported operation type.
type Kind string

const (
	KindFilter          Kind = "FILTER"
	KindSort            Kind = "SORT"
	KindAddColumn       Kind = "ADD_COLUMN"
	KindDeleteColumn    Kind = "DELETE_COLUMN"
	KindDeleteRows      Kind = "DELETE_ROWS"
	KindDeduplicate     Kind = "DEDUPLICATE"
	KindCalculate       Kind = "CALCULATE"
	KindFormat          Kind = "FORMAT"
	KindStyle           Kind = "STYLE"
	KindReplace         Kind = "REPLACE"
	KindFill            Kind = "FILL"
	KindSplitColumn     Kind = "SPLIT_COLUMN"
	KindMergeColumns    Kind = "MERGE_COLUMNS"
	KindVlookup         Kind = "VLOOKUP"
	KindPivot           Kind = "PIVOT"
	KindCreateChart     Kind = "CREATE_CHART"
	KindMergeVertical   Kind = "MERGE_VERTICAL"
	KindMergeHorizontal Kind = "MERGE_HORIZONTAL"
)

// Operation is one declarative mutation request. Params holds the decoded,
// kind-specific parameter struct; operations are immutable once built.
type Operation struct {
	Kind        Kind
	Description string
	TargetSheet string
	Params      any
}

// Plan is an ordered sequence of operations. Execution order is significant
// and is never reordered.
type Plan struct {
	Operations      []Operation
	Summary         string
	EstimatedImpact string
}

type rawOperation struct {
	Type        string         `json:"type"`
	Params      map[string]any `json:"params"`
	Description string         `json:"description"`
	TargetSheet string         `json:"target_sheet"`
}

type rawPlan struct {
	Operations      []rawOperation `json:"operations"`
	Summary         string         `json:"summary"`
	EstimatedImpact string         `json:"estimated_impact"`
}

// Parse decodes planner JSON into a validated Plan. Operations with an
// unknown type are skipped with a warning; this is the external boundary, so
// a planner emitting a kind this executor predates must not be fatal here.
// Kind-specific parameter validation failures are.
func Parse(data []byte, logger *zap.Logger) (*Plan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var raw rawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	p := &Plan{
		Summary:         raw.Summary,
		EstimatedImpact: raw.EstimatedImpact,
	}
	for i, op := range raw.Operations {
		kind := Kind(op.Type)
		if _, known := paramFactories[kind]; !known {
			logger.Warn("skipping operation of unknown type",
				zap.Int("index", i), zap.String("type", op.Type))
			continue
		}
		params, err := decodeParams(kind, op.Params)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i+1, kind, err)
		}
		p.Operations = append(p.Operations, Operation{
			Kind:        kind,
			Description: op.Description,
			TargetSheet: op.TargetSheet,
			Params:      params,
		})
	}
	return p, nil
}
