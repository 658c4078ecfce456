package plancache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/catalog/testutil"
	"github.com/cottontaildb/queryengine/plan"
	"github.com/cottontaildb/queryengine/plancache"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

func testCol(name string) sql.ColumnDef {
	n, err := sql.NewColumnName("", "t", name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: sql.Int}
}

func testFilter(input plan.Node, c sql.ColumnDef, v int64) *plan.Filter {
	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.Int, v))
	return plan.NewFilter(input, predicate.NewAtomic(predicate.Eq, false, left, right, &c, nil), nil)
}

// TestDigestStableForEqualTrees checks §8's plan-cache coherence
// property: two independently built but structurally Equal logical
// trees digest identically.
func TestDigestStableForEqualTrees(t *testing.T) {
	require := require.New(t)

	a := testCol("a")
	entity := testutil.NewEntity("t", a)
	scan1 := plan.NewEntityScan(entity, sql.NewColumnSet(a), 10)
	scan2 := plan.NewEntityScan(entity, sql.NewColumnSet(a), 10)

	tree1 := testFilter(scan1, a, 42)
	tree2 := testFilter(scan2, a, 42)

	d1, err := plancache.Digest(tree1)
	require.NoError(err)
	d2, err := plancache.Digest(tree2)
	require.NoError(err)

	require.True(tree1.Equal(tree2))
	require.Equal(d1, d2)
}

// TestDigestSameAcrossLiteralValues checks that two trees differing only
// in a bound literal's value digest identically: the digest keys the
// plan's *shape*, not its parameters, since those are resolved later via
// binding.Context and the compiled plan is meant to be reused across
// parameter values the way a prepared statement is.
func TestDigestSameAcrossLiteralValues(t *testing.T) {
	require := require.New(t)

	a := testCol("a")
	entity := testutil.NewEntity("t", a)
	scan := plan.NewEntityScan(entity, sql.NewColumnSet(a), 10)

	tree1 := testFilter(scan, a, 42)
	tree2 := testFilter(scan, a, 43)

	d1, err := plancache.Digest(tree1)
	require.NoError(err)
	d2, err := plancache.Digest(tree2)
	require.NoError(err)

	require.Equal(d1, d2)
}

// TestDigestChangesWithColumn checks that filtering a different column
// changes the digest, so distinct query shapes never collide in the
// cache.
func TestDigestChangesWithColumn(t *testing.T) {
	require := require.New(t)

	a, b := testCol("a"), testCol("b")
	entity := testutil.NewEntity("t", a, b)
	scan := plan.NewEntityScan(entity, sql.NewColumnSet(a, b), 10)

	tree1 := testFilter(scan, a, 42)
	tree2 := testFilter(scan, b, 42)

	d1, err := plancache.Digest(tree1)
	require.NoError(err)
	d2, err := plancache.Digest(tree2)
	require.NoError(err)

	require.NotEqual(d1, d2)
	require.False(tree1.Equal(tree2))
}
