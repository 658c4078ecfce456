package stats_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/stats"
)

func testCol(name string) sql.ColumnDef {
	n, err := sql.NewColumnName("", "t", name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: sql.Int}
}

func eqOn(c sql.ColumnDef) predicate.Atomic {
	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.Int, int64(1)))
	return predicate.NewAtomic(predicate.Eq, false, left, right, &c, nil)
}

// fixedLookup returns the same statistics for every column.
type fixedLookup struct {
	st stats.ValueStatistics
}

func (f fixedLookup) StatisticsFor(sql.ColumnDef) (stats.ValueStatistics, error) {
	return f.st, nil
}

// TestEqualitySelectivityFromDistinctCount checks equality selectivity is
// 1/NDV when statistics are available.
func TestEqualitySelectivityFromDistinctCount(t *testing.T) {
	require := require.New(t)

	calc := stats.NaiveSelectivityCalculator{Stats: fixedLookup{stats.ValueStatistics{NumberOfDistinctEntries: 10}}}
	est, err := calc.Estimate(eqOn(testCol("a")))
	require.NoError(err)
	require.Equal(int64(100), est(1000))
}

// TestConjunctionSelectivityIsProduct checks the product rule: two
// independent equality atoms at 1/10 each compose to 1/100.
func TestConjunctionSelectivityIsProduct(t *testing.T) {
	require := require.New(t)

	calc := stats.NaiveSelectivityCalculator{Stats: fixedLookup{stats.ValueStatistics{NumberOfDistinctEntries: 10}}}
	and := predicate.NewConjunction(eqOn(testCol("a")), eqOn(testCol("b")))
	est, err := calc.Estimate(and)
	require.NoError(err)
	require.Equal(int64(10), est(1000))
}

// TestDisjunctionSelectivityIsComplementOfProduct checks the
// 1 - Π(1 - s_i) rule: two atoms at 1/10 each compose to 0.19.
func TestDisjunctionSelectivityIsComplementOfProduct(t *testing.T) {
	require := require.New(t)

	calc := stats.NaiveSelectivityCalculator{Stats: fixedLookup{stats.ValueStatistics{NumberOfDistinctEntries: 10}}}
	or := predicate.NewDisjunction(eqOn(testCol("a")), eqOn(testCol("b")))
	est, err := calc.Estimate(or)
	require.NoError(err)
	require.Equal(int64(190), est(1000))
}

// TestSelectivityWithoutStatsFallsBack checks the unknown-distribution
// default of 0.5 when no Lookup is configured.
func TestSelectivityWithoutStatsFallsBack(t *testing.T) {
	require := require.New(t)

	calc := stats.NaiveSelectivityCalculator{}
	est, err := calc.Estimate(eqOn(testCol("a")))
	require.NoError(err)
	require.Equal(int64(500), est(1000))
}

// TestEstimatorNeverNegative checks the monotonicity side of §3's
// outputSize invariant: an estimator applied to zero rows yields zero.
func TestEstimatorNeverNegative(t *testing.T) {
	require := require.New(t)

	calc := stats.NaiveSelectivityCalculator{Stats: fixedLookup{stats.ValueStatistics{NumberOfDistinctEntries: 10}}}
	est, err := calc.Estimate(eqOn(testCol("a")))
	require.NoError(err)
	require.Equal(int64(0), est(0))
}
