package binding

import (
	"testing"

	"github.com/stretchr/testify/require"

	qerrors "github.com/cottontaildb/queryengine/engine/errors"
	"github.com/cottontaildb/queryengine/sql"
)

func testCol(name string) sql.ColumnDef {
	n, err := sql.NewColumnName("", "t", name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: sql.Int}
}

// TestColumnBindingReadsCurrentRecord checks a Column binding resolves to
// the value at its index in the record flowing through the operator.
func TestColumnBindingReadsCurrentRecord(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewColumnBinding(bc, testCol("a"), 1)

	row := sql.NewRecord(0, sql.NewValue(sql.Int, int64(1)), sql.NewValue(sql.Int, int64(2)))
	v, err := b.Resolve(row)
	require.NoError(err)
	i, err := v.AsInt64()
	require.NoError(err)
	require.Equal(int64(2), i)
}

// TestLiteralBindingIgnoresRecord checks a Literal binding resolves to
// its captured value regardless of the record.
func TestLiteralBindingIgnoresRecord(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewLiteralBinding(bc, sql.NewValue(sql.String, "x"))

	v, err := b.Resolve(sql.Record{})
	require.NoError(err)
	require.Equal("x", v.String())
}

// TestSubqueryBindingUnboundIsFatal checks §7's BindingNotBound kind: a
// subquery binding read before FilterOnSubSelect filled it is a fatal,
// classified error.
func TestSubqueryBindingUnboundIsFatal(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewSubqueryBinding(bc, sql.NewGroupId(), testCol("a"))

	_, err := b.Resolve(sql.Record{})
	require.Error(err)
	require.True(qerrors.ErrBindingNotBound.Is(err))
}

// TestSubqueryBindingSingleValue checks the binary-comparison path:
// FilterOnSubSelect writes exactly one value into the slot, every later
// Resolve reads it.
func TestSubqueryBindingSingleValue(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewSubqueryBinding(bc, sql.NewGroupId(), testCol("a"))

	bc.Bind(BindID(b), sql.NewValue(sql.Int, int64(7)))

	v, err := b.Resolve(sql.Record{})
	require.NoError(err)
	i, err := v.AsInt64()
	require.NoError(err)
	require.Equal(int64(7), i)
}

// TestSubqueryBindingMultiSkipsNulls checks the IN path: AppendMulti
// accumulates operands but drops nulls, per the filter-on-subselect
// contract.
func TestSubqueryBindingMultiSkipsNulls(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewSubqueryBinding(bc, sql.NewGroupId(), testCol("a"))

	bc.AppendMulti(BindID(b), sql.NewValue(sql.Int, int64(1)))
	bc.AppendMulti(BindID(b), sql.Null(sql.Int))
	bc.AppendMulti(BindID(b), sql.NewValue(sql.Int, int64(2)))

	vs, err := b.ResolveMulti()
	require.NoError(err)
	require.Len(vs, 2)
}

// TestResolveMultiOnLiteralWrapsSingle checks ResolveMulti on a
// non-subquery binding degrades to a one-element list, so IN against a
// literal right-hand side still works.
func TestResolveMultiOnLiteralWrapsSingle(t *testing.T) {
	require := require.New(t)

	bc := NewContext()
	b := NewLiteralBinding(bc, sql.NewValue(sql.Int, int64(5)))

	vs, err := b.ResolveMulti()
	require.NoError(err)
	require.Len(vs, 1)
}
