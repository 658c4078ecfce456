package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
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

func atomicOn(c sql.ColumnDef, op predicate.Op, negated bool, lit int64) predicate.Atomic {
	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.Int, lit))
	return predicate.NewAtomic(op, negated, left, right, &c, nil)
}

func row(v int64) sql.Record {
	return sql.NewRecord(0, sql.NewValue(sql.Int, v))
}

// TestAtomicComparisons walks the comparison operators against a fixed
// literal right-hand side.
func TestAtomicComparisons(t *testing.T) {
	c := testCol("a")
	cases := []struct {
		op    predicate.Op
		value int64
		want  bool
	}{
		{predicate.Eq, 5, true},
		{predicate.Eq, 4, false},
		{predicate.Neq, 4, true},
		{predicate.Gt, 6, true},
		{predicate.Gt, 5, false},
		{predicate.Gte, 5, true},
		{predicate.Lt, 4, true},
		{predicate.Lte, 5, true},
	}
	for _, tc := range cases {
		got, err := atomicOn(c, tc.op, false, 5).IsMatch(row(tc.value))
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%d %s 5", tc.value, tc.op)
	}
}

// TestAtomicNegation checks the Negated flag flips the match result.
func TestAtomicNegation(t *testing.T) {
	require := require.New(t)
	c := testCol("a")

	got, err := atomicOn(c, predicate.Eq, true, 5).IsMatch(row(5))
	require.NoError(err)
	require.False(got)

	got, err = atomicOn(c, predicate.Eq, true, 5).IsMatch(row(4))
	require.NoError(err)
	require.True(got)
}

// TestAtomicNullNeverMatches checks SQL-style null semantics: a null
// operand fails every comparison except IS NULL.
func TestAtomicNullNeverMatches(t *testing.T) {
	require := require.New(t)
	c := testCol("a")
	nullRow := sql.NewRecord(0, sql.Null(sql.Int))

	got, err := atomicOn(c, predicate.Eq, false, 5).IsMatch(nullRow)
	require.NoError(err)
	require.False(got)

	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	isNull := predicate.NewAtomic(predicate.IsNull, false, left, binding.Binding{}, &c, nil)
	got, err = isNull.IsMatch(nullRow)
	require.NoError(err)
	require.True(got)
}

// TestConjunctionDisjunctionMatch checks the AND/OR composition over two
// atomics.
func TestConjunctionDisjunctionMatch(t *testing.T) {
	require := require.New(t)
	c := testCol("a")

	gt3 := atomicOn(c, predicate.Gt, false, 3)
	lt7 := atomicOn(c, predicate.Lt, false, 7)

	and := predicate.NewConjunction(gt3, lt7)
	or := predicate.NewDisjunction(gt3, lt7)

	got, err := and.IsMatch(row(5))
	require.NoError(err)
	require.True(got)

	got, err = and.IsMatch(row(8))
	require.NoError(err)
	require.False(got)

	got, err = or.IsMatch(row(8))
	require.NoError(err)
	require.True(got, "8 > 3 satisfies the disjunction alone")
}

// TestPredicateColumns checks a composite predicate reports the union of
// the columns its atoms read.
func TestPredicateColumns(t *testing.T) {
	require := require.New(t)
	a, b := testCol("a"), testCol("b")

	and := predicate.NewConjunction(
		atomicOn(a, predicate.Eq, false, 1),
		atomicOn(b, predicate.Eq, false, 2),
	)
	cols := and.Columns()
	require.True(cols.Contains(a))
	require.True(cols.Contains(b))
	require.Equal(2, cols.Len())
}

// TestDigestSensitiveToStructure checks the digest distinguishes
// operator, negation, column and AND-vs-OR, but not the literal's value
// (literals late-bind, so they are not part of the plan shape).
func TestDigestSensitiveToStructure(t *testing.T) {
	require := require.New(t)
	a, b := testCol("a"), testCol("b")

	base, err := atomicOn(a, predicate.Eq, false, 1).Digest()
	require.NoError(err)

	sameShape, err := atomicOn(a, predicate.Eq, false, 99).Digest()
	require.NoError(err)
	require.Equal(base, sameShape)

	negated, err := atomicOn(a, predicate.Eq, true, 1).Digest()
	require.NoError(err)
	require.NotEqual(base, negated)

	otherOp, err := atomicOn(a, predicate.Gt, false, 1).Digest()
	require.NoError(err)
	require.NotEqual(base, otherOp)

	otherCol, err := atomicOn(b, predicate.Eq, false, 1).Digest()
	require.NoError(err)
	require.NotEqual(base, otherCol)

	and, err := predicate.NewConjunction(atomicOn(a, predicate.Eq, false, 1), atomicOn(b, predicate.Eq, false, 1)).Digest()
	require.NoError(err)
	or, err := predicate.NewDisjunction(atomicOn(a, predicate.Eq, false, 1), atomicOn(b, predicate.Eq, false, 1)).Digest()
	require.NoError(err)
	require.NotEqual(and, or)
}
