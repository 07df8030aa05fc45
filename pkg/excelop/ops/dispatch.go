// Package ops implements one handler per operation kind and the dispatcher
// that routes operations to them while keeping an append-only execution
// record.
package ops

import (
	"time"

	"go.uber.org/zap"

	"github.com/excelop/excelop-go/pkg/excelop/grid"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

// Status is the terminal state of one executed operation.
type Status string

const (
	StatusSucceeded Status = "success"
	StatusFailed    Status = "failed"
)

// Record is the audit entry for one executed operation. Records are
// append-only and never mutated after creation.
type Record struct {
	Kind        plan.Kind
	Description string
	TargetSheet string
	Timestamp   time.Time
	Status      Status
	Error       string
}

// Context carries per-operation execution state into a handler. Sheet is the
// already-resolved target sheet; Logf appends to the human-readable
// operation log.
type Context struct {
	Workbook *grid.Workbook
	Sheet    *grid.Sheet
	Logger   *zap.Logger
	Logf     func(format string, args ...any)
}

// Handler applies one operation kind to the context's sheet. A handler
// either completes its full mutation or leaves the sheet untouched.
type Handler func(ctx *Context, op *plan.Operation) error

// Dispatcher routes operations to registered handlers and records each
// outcome.
type Dispatcher struct {
	handlers map[plan.Kind]Handler
	records  []Record
	logger   *zap.Logger
}

// NewDispatcher builds a dispatcher with every supported handler registered.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		handlers: make(map[plan.Kind]Handler),
		logger:   logger,
	}
	d.handlers[plan.KindFilter] = Filter
	d.handlers[plan.KindSort] = Sort
	d.handlers[plan.KindAddColumn] = AddColumn
	d.handlers[plan.KindDeleteColumn] = DeleteColumns
	d.handlers[plan.KindDeleteRows] = DeleteRows
	d.handlers[plan.KindDeduplicate] = Deduplicate
	d.handlers[plan.KindCalculate] = Calculate
	d.handlers[plan.KindFormat] = Format
	d.handlers[plan.KindStyle] = Style
	d.handlers[plan.KindReplace] = Replace
	d.handlers[plan.KindFill] = Fill
	d.handlers[plan.KindSplitColumn] = SplitColumn
	d.handlers[plan.KindMergeColumns] = MergeColumns
	d.handlers[plan.KindVlookup] = Vlookup
	d.handlers[plan.KindPivot] = Pivot
	d.handlers[plan.KindCreateChart] = CreateChart
	d.handlers[plan.KindMergeVertical] = MergeVertical
	d.handlers[plan.KindMergeHorizontal] = MergeHorizontal
	return d
}

// Dispatch resolves the operation's target sheet, invokes the matching
// handler and appends an execution record. An operation kind with no
// registered handler is fatal here, unlike at the plan-parsing boundary.
func (d *Dispatcher) Dispatch(wb *grid.Workbook, op *plan.Operation, logf func(string, ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	rec := Record{
		Kind:        op.Kind,
		Description: op.Description,
		TargetSheet: op.TargetSheet,
		Timestamp:   time.Now(),
	}
	if rec.TargetSheet == "" {
		rec.TargetSheet = "active"
	}

	err := d.run(wb, op, logf)
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
	} else {
		rec.Status = StatusSucceeded
	}
	d.records = append(d.records, rec)
	return err
}

func (d *Dispatcher) run(wb *grid.Workbook, op *plan.Operation, logf func(string, ...any)) error {
	handler, ok := d.handlers[op.Kind]
	if !ok {
		return opErrf(op.Kind, CategoryUnsupported, "no handler registered for operation type %q", op.Kind)
	}
	ctx := &Context{
		Workbook: wb,
		Sheet:    wb.Target(op.TargetSheet),
		Logger:   d.logger,
		Logf:     logf,
	}
	d.logger.Debug("dispatching operation",
		zap.String("kind", string(op.Kind)),
		zap.String("sheet", ctx.Sheet.Name()))
	return handler(ctx, op)
}

// Records returns the execution records in dispatch order.
func (d *Dispatcher) Records() []Record {
	return d.records
}

// params asserts the operation's decoded parameter struct. A mismatch means
// the plan package built the operation wrong, which is a programming error.
func params[T any](op *plan.Operation) (*T, error) {
	p, ok := op.Params.(*T)
	if !ok {
		return nil, opErrf(op.Kind, CategoryValidation,
			"internal: unexpected parameter type %T", op.Params)
	}
	return p, nil
}
