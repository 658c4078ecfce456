package stats

import (
	"fmt"
	"math"

	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// Estimator maps an input row count to an expected output row count for a
// fixed predicate, as produced by NaiveSelectivityCalculator.Estimate.
type Estimator func(rows int64) int64

// Lookup resolves the ValueStatistics for a column, the contract the
// selectivity calculator uses instead of talking to the catalogue
// directly.
type Lookup interface {
	StatisticsFor(col sql.ColumnDef) (ValueStatistics, error)
}

// NaiveSelectivityCalculator estimates selectivity for Boolean predicates:
// the selectivity of a conjunction is the product of its operands'
// selectivities, of a disjunction 1 - Π(1 - s_i) clamped to [0,1]. It has
// no notion of correlation between columns, hence "naive".
type NaiveSelectivityCalculator struct {
	Stats Lookup
}

// Estimate returns a function mapping row-count to expected output size
// for pred.
func (c NaiveSelectivityCalculator) Estimate(pred predicate.BooleanPredicate) (Estimator, error) {
	s, err := c.selectivity(pred)
	if err != nil {
		return nil, err
	}
	return func(rows int64) int64 {
		return int64(math.Round(float64(rows) * s))
	}, nil
}

func (c NaiveSelectivityCalculator) selectivity(pred predicate.BooleanPredicate) (float64, error) {
	switch p := pred.(type) {
	case predicate.Atomic:
		return c.atomicSelectivity(p)
	case predicate.Conjunction:
		ls, err := c.selectivity(p.Left)
		if err != nil {
			return 0, err
		}
		rs, err := c.selectivity(p.Right)
		if err != nil {
			return 0, err
		}
		return clamp01(ls * rs), nil
	case predicate.Disjunction:
		ls, err := c.selectivity(p.Left)
		if err != nil {
			return 0, err
		}
		rs, err := c.selectivity(p.Right)
		if err != nil {
			return 0, err
		}
		return clamp01(1 - (1-ls)*(1-rs)), nil
	default:
		return 0, fmt.Errorf("unsupported predicate kind %T", pred)
	}
}

// atomicSelectivity falls back to 0.5 (unknown-distribution default) when
// no statistics are available for the predicate's column(s); otherwise it
// derives a rough estimate from NumberOfDistinctEntries for equality and
// uses a fixed 0.33 for inequality comparisons.
func (c NaiveSelectivityCalculator) atomicSelectivity(a predicate.Atomic) (float64, error) {
	cols := a.Columns().Columns()
	if c.Stats == nil || len(cols) == 0 {
		return 0.5, nil
	}
	st, err := c.Stats.StatisticsFor(cols[0])
	if err != nil {
		return 0.5, nil
	}
	switch a.Op {
	case Eq:
		if st.NumberOfDistinctEntries > 0 {
			s := 1.0 / float64(st.NumberOfDistinctEntries)
			if a.Negated {
				return clamp01(1 - s), nil
			}
			return clamp01(s), nil
		}
		return 0.1, nil
	case Neq:
		if st.NumberOfDistinctEntries > 0 {
			return clamp01(1 - 1.0/float64(st.NumberOfDistinctEntries)), nil
		}
		return 0.9, nil
	case Gt, Gte, Lt, Lte:
		return 0.33, nil
	case In:
		return 0.2, nil
	case IsNull:
		return 0.05, nil
	default:
		return 0.5, nil
	}
}

// aliases to keep the switch above terse without re-importing predicate.Op
// under a longer qualifier.
const (
	Eq     = predicate.Eq
	Neq    = predicate.Neq
	Gt     = predicate.Gt
	Gte    = predicate.Gte
	Lt     = predicate.Lt
	Lte    = predicate.Lte
	In     = predicate.In
	IsNull = predicate.IsNull
)

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
