package rowexec

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

func valsOf(t *testing.T, records []sql.Record) []int64 {
	t.Helper()
	out := make([]int64, len(records))
	for i, r := range records {
		v, err := r.Values[0].AsInt64()
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

// TestMergeOperatorPreservesMultiset checks §8's partitioning-safety
// property: merging several partition streams back together reproduces
// the original multiset exactly, regardless of interleaving order.
func TestMergeOperatorPreservesMultiset(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	p1 := newSliceOperator(schema, intRecords(schema, 1, 2, 3))
	p2 := newSliceOperator(schema, intRecords(schema, 4, 5))
	p3 := newSliceOperator(schema, intRecords(schema, 6))

	merge := NewMergeOperator([]Operator{p1, p2, p3})
	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, merge)

	got := valsOf(t, out)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Equal([]int64{1, 2, 3, 4, 5, 6}, got)
}

// TestMergeLimitingSortOperatorTopK checks the other half of the
// partitioning-safety property: MergeLimitingSort merges, re-sorts, and
// truncates to exactly the top `limit` records by the demanded order.
func TestMergeLimitingSortOperatorTopK(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	p1 := newSliceOperator(schema, intRecords(schema, 5, 1, 9))
	p2 := newSliceOperator(schema, intRecords(schema, 3, 7))

	order := []trait.OrderTerm{{Column: idCol(), Direction: trait.Asc}}
	merge := NewMergeLimitingSortOperator([]Operator{p1, p2}, order, 3)

	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, merge)

	got := valsOf(t, out)
	require.Equal([]int64{1, 3, 5}, got)
}

// TestMergeLimitingSortOperatorLimitExceedsInput checks a limit larger
// than the total input still returns every record, sorted.
func TestMergeLimitingSortOperatorLimitExceedsInput(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	p1 := newSliceOperator(schema, intRecords(schema, 2, 1))
	order := []trait.OrderTerm{{Column: idCol(), Direction: trait.Asc}}
	merge := NewMergeLimitingSortOperator([]Operator{p1}, order, 100)

	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, merge)

	require.Equal([]int64{1, 2}, valsOf(t, out))
}
