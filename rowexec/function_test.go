package rowexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	qerrors "github.com/cottontaildb/queryengine/engine/errors"
	"github.com/cottontaildb/queryengine/function"
	"github.com/cottontaildb/queryengine/sql"
)

// doubleFn is a minimal function.Function fixture: doubles its single
// integer argument.
type doubleFn struct{}

func (doubleFn) Signature() function.Signature {
	return function.Signature{Name: "double", Args: []sql.Type{sql.Int}, Returns: sql.Long}
}

func (doubleFn) Eval(args []sql.Value) (sql.Value, error) {
	v, err := args[0].AsInt64()
	if err != nil {
		return sql.Value{}, err
	}
	return sql.NewValue(sql.Long, v*2), nil
}

// TestFunctionOperatorMaterialisesColumn checks Function grafts the
// computed value onto every record as an extra column.
func TestFunctionOperatorMaterialisesColumn(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	src := newSliceOperator(schema, intRecords(schema, 1, 2, 3))

	outCol := sql.ColumnDef{Name: mustName("doubled"), Type: sql.Long}
	op := NewFunctionOperator(src, doubleFn{}, []int{0}, outCol)

	require.Len(op.Schema(), 2)

	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, op)
	require.Len(out, 3)
	for i, r := range out {
		require.Len(r.Values, 2)
		v, err := r.Values[1].AsInt64()
		require.NoError(err)
		require.Equal(int64(i+1)*2, v)
	}
}

// TestNestedFunctionOperatorKeepsSchema checks NestedFunction computes
// without widening the stream: the schema is untouched and the result is
// only reachable through Last.
func TestNestedFunctionOperatorKeepsSchema(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	src := newSliceOperator(schema, intRecords(schema, 5))

	op := NewNestedFunctionOperator(src, doubleFn{}, []int{0})
	require.Len(op.Schema(), 1)

	ctx := sql.NewEmptyContext()
	r, err := op.Next(ctx)
	require.NoError(err)
	require.Len(r.Values, 1)

	v, err := op.Last().AsInt64()
	require.NoError(err)
	require.Equal(int64(10), v)
}

// TestDrainObservesCancellation checks §5's cancellation contract:
// operators observe the token between records and surface Cancelled as a
// distinct terminal outcome.
func TestDrainObservesCancellation(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	src := newSliceOperator(schema, intRecords(schema, 1, 2, 3))

	tx := sql.NewTransactionContext(context.Background(), sql.ReadOnly, nil, nil)
	ctx := sql.NewContext(tx, nil, nil)
	tx.Cancel()

	_, err := Drain(ctx, src)
	require.Error(err)
	require.True(qerrors.ErrCancelled.Is(err))
}
