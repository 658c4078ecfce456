package planner_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/planner"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// rangeIndex is a minimal catalog.Index test double: it matches every
// predicate and slices its backing records by contiguous TupleId range
// when given a catalog.Partition, the same range-slicing Filter contract
// pilosaindex.Index and vectorindex.Index both honour. Unlike those two,
// its Cost is directly settable, which is what lets this file force
// cost.Policy.EstimateWorkers above 1 without depending on either index's
// own cost model.
type rangeIndex struct {
	name    sql.Name
	col     sql.ColumnDef
	records []sql.Record
	cpu     float64
}

func newRangeIndex(col sql.ColumnDef, records []sql.Record, cpu float64) *rangeIndex {
	n, err := sql.NewName(sql.IndexName, "range_idx")
	if err != nil {
		panic(err)
	}
	return &rangeIndex{name: n, col: col, records: records, cpu: cpu}
}

func (x *rangeIndex) DBOName() sql.Name                            { return x.name }
func (x *rangeIndex) CanProcess(p predicate.Predicate) bool        { return true }
func (x *rangeIndex) Cost(p predicate.Predicate) cost.Cost         { return cost.Cost{CPU: x.cpu} }
func (x *rangeIndex) ColumnsFor(p predicate.Predicate) []sql.ColumnDef {
	return []sql.ColumnDef{x.col}
}
func (x *rangeIndex) TraitsFor(p predicate.Predicate) trait.Set { return trait.Set{} }

func (x *rangeIndex) Filter(ctx *sql.Context, p predicate.Predicate, part *catalog.Partition) (sql.RecordCursor, error) {
	recs := x.records
	if part != nil {
		total := sql.TupleId(len(x.records))
		size := int64(total) / int64(part.Total)
		start := sql.TupleId(int64(part.Index) * size)
		end := start + sql.TupleId(size)
		if part.Index == part.Total-1 {
			end = total
		}
		var filtered []sql.Record
		for _, r := range x.records {
			if r.ID >= start && r.ID < end {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}
	out := make([]sql.Record, len(recs))
	copy(out, recs)
	return sql.NewSliceCursor(out), nil
}

var _ catalog.Index = (*rangeIndex)(nil)

// forcingPolicy weights the scalar score on CPU alone and sets a low
// enough SpeedupPerWorker that EstimateWorkers walks all the way to
// MaxWorkers whenever cp.CPU >= 1, which is exactly what lets the tests
// below force p > 1 through planner.Partition.
func forcingPolicy() cost.Policy {
	return cost.Policy{WeightCPU: 1, SpeedupPerWorker: 0.01, MaxWorkers: 4}
}

func rangeRecords(v sql.ColumnDef, n int) []sql.Record {
	out := make([]sql.Record, n)
	for i := 0; i < n; i++ {
		out[i] = sql.NewRecord(sql.TupleId(i), sql.NewValue(sql.Int, int64(i)))
	}
	return out
}

// drainIDs executes root end to end and returns the sorted TupleIds of
// every record it emits, the shape used below to check multiset
// equivalence against an unpartitioned run regardless of Merge's
// unspecified interleaving order.
func drainIDs(t *testing.T, root physical.Node) []int {
	t.Helper()
	qctx := sql.NewEmptyContext()
	op, err := root.ToOperator(&physical.ExecContext{Query: qctx})
	require.NoError(t, err)
	records, err := rowexec.Drain(qctx, op)
	require.NoError(t, err)
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = int(r.ID)
	}
	sort.Ints(ids)
	return ids
}

// TestPartitionMergeLimitingSortWhenOrderAndLimit checks partition.go's
// hasOrder&&hasLimit branch: a root promising both traits partitions into
// a MergeLimitingSort carrying the root's own order and limit, and the
// merged, limit-truncated output is a sub-multiset of the unpartitioned
// run of the same size.
func TestPartitionMergeLimitingSortWhenOrderAndLimit(t *testing.T) {
	require := require.New(t)

	v := col("v", sql.Int)
	records := rangeRecords(v, 40)
	idx := newRangeIndex(v, records, 40)
	pred := eq(v, sql.NewValue(sql.Int, int64(0)))
	cols := sql.NewColumnSet(v)

	order := []trait.OrderTerm{{Column: v, Direction: trait.Asc}}
	traits := trait.NewSet(trait.OrderTrait{Order: order}, trait.LimitTrait{Limit: 10})
	root := physical.NewIndexScan(idx, pred, cols, int64(len(records)), traits)

	policy := forcingPolicy()
	p := policy.EstimateWorkers(physical.TotalCost(root), physical.TotalCost(root))
	require.Greater(p, 1, "policy should force partitioning for this test to exercise anything")

	result := planner.Partition(root, policy)
	mls, ok := result.(*physical.MergeLimitingSort)
	require.True(ok, "expected *physical.MergeLimitingSort, got %T", result)
	require.Equal(int64(10), mls.Limit)
	require.Len(mls.Order, 1)
	require.True(mls.Order[0].Column.Equal(v))

	partitionedIDs := drainIDs(t, result)
	require.Len(partitionedIDs, 10)

	unpartitioned := physical.NewIndexScan(idx, pred, cols, int64(len(records)), trait.Set{})
	fullIDs := drainIDs(t, unpartitioned)
	require.Len(fullIDs, 40)

	fullSet := make(map[int]bool, len(fullIDs))
	for _, id := range fullIDs {
		fullSet[id] = true
	}
	for _, id := range partitionedIDs {
		require.True(fullSet[id], "partitioned output contains id %d not present in the unpartitioned run", id)
	}
}

// TestPartitionLimitOfMergeWhenLimitOnly checks the hasLimit-only branch:
// Limit(Merge(siblings)), and that the partitioned-then-merged output,
// before truncation, is exactly the same multiset as the unpartitioned
// run — partitioning by disjoint TupleId ranges and merging back must not
// lose or duplicate a single record.
func TestPartitionLimitOfMergeWhenLimitOnly(t *testing.T) {
	require := require.New(t)

	v := col("v", sql.Int)
	records := rangeRecords(v, 40)
	idx := newRangeIndex(v, records, 40)
	pred := eq(v, sql.NewValue(sql.Int, int64(0)))
	cols := sql.NewColumnSet(v)

	traits := trait.NewSet(trait.LimitTrait{Limit: 15})
	root := physical.NewIndexScan(idx, pred, cols, int64(len(records)), traits)

	policy := forcingPolicy()
	result := planner.Partition(root, policy)

	limit, ok := result.(*physical.Limit)
	require.True(ok, "expected *physical.Limit, got %T", result)
	require.Equal(int64(15), limit.N)

	merge, ok := limit.Inputs()[0].(*physical.Merge)
	require.True(ok, "expected Limit's input to be *physical.Merge, got %T", limit.Inputs()[0])
	require.Greater(len(merge.Inputs()), 1)

	partitionedIDs := drainIDs(t, result)
	require.Len(partitionedIDs, 15)

	mergeOnlyIDs := drainIDs(t, merge)
	require.Len(mergeOnlyIDs, 40, "merging every partition back together must reconstruct the full set")
	for i, id := range mergeOnlyIDs {
		require.Equal(i, id, "partitioning by disjoint TupleId ranges must not lose or duplicate records")
	}
}

// TestPartitionMergeLimitingSortWhenOrderOnly checks the hasOrder-only
// branch: it still builds a MergeLimitingSort (this core has no separate
// sort-preserving streaming merge, per partition.go's doc comment), with
// an effectively unbounded limit, so nothing is truncated and the output
// multiset matches the unpartitioned run exactly.
func TestPartitionMergeLimitingSortWhenOrderOnly(t *testing.T) {
	require := require.New(t)

	v := col("v", sql.Int)
	records := rangeRecords(v, 40)
	idx := newRangeIndex(v, records, 40)
	pred := eq(v, sql.NewValue(sql.Int, int64(0)))
	cols := sql.NewColumnSet(v)

	order := []trait.OrderTerm{{Column: v, Direction: trait.Asc}}
	traits := trait.NewSet(trait.OrderTrait{Order: order})
	root := physical.NewIndexScan(idx, pred, cols, int64(len(records)), traits)

	policy := forcingPolicy()
	result := planner.Partition(root, policy)

	mls, ok := result.(*physical.MergeLimitingSort)
	require.True(ok, "expected *physical.MergeLimitingSort, got %T", result)
	require.Equal(int64(math.MaxInt64), mls.Limit)

	partitionedIDs := drainIDs(t, result)
	require.Len(partitionedIDs, 40)
	for i, id := range partitionedIDs {
		require.Equal(i, id)
	}
}

// TestPartitionMergeWhenNeitherOrderNorLimit checks the default branch:
// no Order, no Limit, just Merge(siblings).
func TestPartitionMergeWhenNeitherOrderNorLimit(t *testing.T) {
	require := require.New(t)

	v := col("v", sql.Int)
	records := rangeRecords(v, 40)
	idx := newRangeIndex(v, records, 40)
	pred := eq(v, sql.NewValue(sql.Int, int64(0)))
	cols := sql.NewColumnSet(v)

	root := physical.NewIndexScan(idx, pred, cols, int64(len(records)), trait.Set{})

	policy := forcingPolicy()
	result := planner.Partition(root, policy)

	merge, ok := result.(*physical.Merge)
	require.True(ok, "expected *physical.Merge, got %T", result)
	require.Greater(len(merge.Inputs()), 1)

	partitionedIDs := drainIDs(t, result)
	require.Len(partitionedIDs, 40)
}

// TestPartitionLeavesUnpartitionableRootAlone checks Partition's early
// exit: a root tagged NotPartitionableTrait (e.g. already wrapped in a
// physical.Limit) is returned unchanged even under a policy that would
// otherwise force p > 1.
func TestPartitionLeavesUnpartitionableRootAlone(t *testing.T) {
	require := require.New(t)

	v := col("v", sql.Int)
	records := rangeRecords(v, 40)
	idx := newRangeIndex(v, records, 40)
	pred := eq(v, sql.NewValue(sql.Int, int64(0)))
	cols := sql.NewColumnSet(v)

	scan := physical.NewIndexScan(idx, pred, cols, int64(len(records)), trait.Set{})
	limited := physical.NewLimit(scan, 5)

	result := planner.Partition(limited, forcingPolicy())
	require.Same(limited, result)
}
