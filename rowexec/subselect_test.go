package rowexec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// TestFilterOnSubSelectIN checks literal scenario (d): the main stream is
// filtered by "col IN (subquery)", where the subquery side accumulates
// every non-null value it emits before the main stream runs at all.
func TestFilterOnSubSelectIN(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	main := newSliceOperator(schema, intRecords(schema, 1, 2, 3, 4, 5))
	sub := newSliceOperator(schema, intRecords(schema, 2, 4))

	bc := binding.NewContext()
	c := idCol()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewSubqueryBinding(bc, sql.NewGroupId(), c)
	pred := predicate.NewAtomic(predicate.In, false, left, right, &c, nil)

	sq := Subquery{BindingID: binding.BindID(right), Operator: sub, IsIn: true}
	op := NewFilterOnSubSelectOperator(main, pred, bc, []Subquery{sq})

	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, op)

	require.Len(out, 2)
	v0, _ := out[0].Values[0].AsInt64()
	v1, _ := out[1].Values[0].AsInt64()
	require.Equal(int64(2), v0)
	require.Equal(int64(4), v1)
}

// TestFilterOnSubSelectResolvesSubqueryBeforeMainStream checks that the
// subquery side is fully drained (and closed) before the main stream is
// ever touched, the ordering FilterOnSubSelectOperator's doc promises.
func TestFilterOnSubSelectResolvesSubqueryBeforeMainStream(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	main := newSliceOperator(schema, intRecords(schema, 1, 2, 3))
	sub := &closeTrackingOperator{Operator: newSliceOperator(schema, intRecords(schema, 1))}

	bc := binding.NewContext()
	c := idCol()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewSubqueryBinding(bc, sql.NewGroupId(), c)
	pred := predicate.NewAtomic(predicate.Eq, false, left, right, &c, nil)

	sq := Subquery{BindingID: binding.BindID(right), Operator: sub, IsIn: false}
	op := NewFilterOnSubSelectOperator(main, pred, bc, []Subquery{sq})

	ctx := sql.NewEmptyContext()
	_, err := op.Next(ctx)
	require.NoError(err)
	require.True(sub.closed)
}

type closeTrackingOperator struct {
	Operator
	closed bool
}

func (c *closeTrackingOperator) Close(ctx *sql.Context) error {
	c.closed = true
	return c.Operator.Close(ctx)
}
