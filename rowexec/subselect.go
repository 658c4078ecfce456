package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// Subquery pairs a bound subquery operator with the binding slot
// FilterOnSubSelectOperator must fill once that subquery finishes.
type Subquery struct {
	Group     sql.GroupId
	BindingID int
	Operator  Operator
	// IsIn selects the IN-with-subquery-operand semantics (consume the
	// full subquery, append every non-null column-0 value); when false,
	// this is a binary-comparison-with-subquery-operand (take exactly one
	// record's column-0 value).
	IsIn bool
}

// FilterOnSubSelectOperator is a breaker with respect to its subqueries:
// every subquery runs to completion and binds its result before the main
// input is filtered, but the main input itself streams once that binding
// phase is done. Both sides of a comparison are treated symmetrically: it
// does not matter which operand of the predicate is the Subquery binding,
// every Subquery entry supplied is resolved identically by kind.
type FilterOnSubSelectOperator struct {
	input      Operator
	pred       predicate.BooleanPredicate
	subqueries []Subquery
	bindingCtx *binding.Context
	resolved   bool
	filtered   Operator
}

func NewFilterOnSubSelectOperator(input Operator, pred predicate.BooleanPredicate, bindingCtx *binding.Context, subqueries []Subquery) *FilterOnSubSelectOperator {
	return &FilterOnSubSelectOperator{input: input, pred: pred, bindingCtx: bindingCtx, subqueries: subqueries}
}

func (f *FilterOnSubSelectOperator) Schema() []sql.ColumnDef { return f.input.Schema() }

func (f *FilterOnSubSelectOperator) resolveSubqueries(ctx *sql.Context) error {
	if f.resolved {
		return nil
	}
	for _, sq := range f.subqueries {
		if ctx.Cancelled() {
			return errCancelled()
		}
		if sq.IsIn {
			for {
				r, err := sq.Operator.Next(ctx)
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				f.bindingCtx.AppendMulti(sq.BindingID, r.Values[0])
			}
		} else {
			r, err := sq.Operator.Next(ctx)
			if err == io.EOF {
				return errNoSubqueryRow()
			}
			if err != nil {
				return err
			}
			f.bindingCtx.Bind(sq.BindingID, r.Values[0])
		}
		if err := sq.Operator.Close(ctx); err != nil {
			return err
		}
	}
	f.resolved = true
	return nil
}

func (f *FilterOnSubSelectOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if err := f.resolveSubqueries(ctx); err != nil {
		return sql.Record{}, err
	}
	if f.filtered == nil {
		f.filtered = NewFilterOperator(f.input, f.pred)
	}
	return f.filtered.Next(ctx)
}

func (f *FilterOnSubSelectOperator) Close(ctx *sql.Context) error {
	var firstErr error
	if !f.resolved {
		// subqueries not yet driven to completion (cancellation, early
		// close) still hold open cursors.
		for _, sq := range f.subqueries {
			if err := sq.Operator.Close(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if err := f.input.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
