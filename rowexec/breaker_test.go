package rowexec

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// TestSortOperatorAscDesc checks the breaker drains fully, then replays
// in the demanded order.
func TestSortOperatorAscDesc(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	ctx := sql.NewEmptyContext()

	asc := NewSortOperator(newSliceOperator(schema, intRecords(schema, 3, 1, 2)), []trait.OrderTerm{{Column: idCol(), Direction: trait.Asc}})
	out := drainAll(t, ctx, asc)
	vals := make([]int64, len(out))
	for i, r := range out {
		vals[i], _ = r.Values[0].AsInt64()
	}
	require.Equal([]int64{1, 2, 3}, vals)

	desc := NewSortOperator(newSliceOperator(schema, intRecords(schema, 3, 1, 2)), []trait.OrderTerm{{Column: idCol(), Direction: trait.Desc}})
	out = drainAll(t, ctx, desc)
	vals = vals[:0]
	for _, r := range out {
		v, _ := r.Values[0].AsInt64()
		vals = append(vals, v)
	}
	require.Equal([]int64{3, 2, 1}, vals)
}

// TestSortOperatorStable checks records comparing equal on every sort
// term keep their input order.
func TestSortOperatorStable(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}

	records := []sql.Record{
		sql.NewRecord(0, sql.NewValue(sql.Int, int64(1))),
		sql.NewRecord(1, sql.NewValue(sql.Int, int64(1))),
		sql.NewRecord(2, sql.NewValue(sql.Int, int64(1))),
	}
	op := NewSortOperator(newSliceOperator(schema, records), []trait.OrderTerm{{Column: idCol(), Direction: trait.Asc}})

	ctx := sql.NewEmptyContext()
	out := drainAll(t, ctx, op)
	require.Len(out, 3)
	for i, r := range out {
		require.Equal(sql.TupleId(i), r.ID)
	}
}

// TestCountOperatorEmitsSingleRecord checks Count drains its input and
// emits exactly one row-count record, then io.EOF.
func TestCountOperatorEmitsSingleRecord(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	op := NewCountOperator(newSliceOperator(schema, intRecords(schema, 1, 2, 3, 4)))

	ctx := sql.NewEmptyContext()
	r, err := op.Next(ctx)
	require.NoError(err)
	n, err := r.Values[0].AsInt64()
	require.NoError(err)
	require.Equal(int64(4), n)

	_, err = op.Next(ctx)
	require.Equal(io.EOF, err)
}

// TestExistsOperator checks the boolean short-circuit: true on the first
// upstream record, false on an empty input.
func TestExistsOperator(t *testing.T) {
	require := require.New(t)
	schema := []sql.ColumnDef{idCol()}
	ctx := sql.NewEmptyContext()

	op := NewExistsOperator(newSliceOperator(schema, intRecords(schema, 1)))
	r, err := op.Next(ctx)
	require.NoError(err)
	require.True(r.Values[0].Raw().(bool))

	op = NewExistsOperator(newSliceOperator(schema, nil))
	r, err = op.Next(ctx)
	require.NoError(err)
	require.False(r.Values[0].Raw().(bool))
}

// TestAggregateOperator walks Sum/Mean/Min/Max over the same input,
// checking nulls are skipped rather than poisoning the aggregate.
func TestAggregateOperator(t *testing.T) {
	schema := []sql.ColumnDef{idCol()}
	records := func() []sql.Record {
		return []sql.Record{
			sql.NewRecord(0, sql.NewValue(sql.Int, int64(4))),
			sql.NewRecord(1, sql.Null(sql.Int)),
			sql.NewRecord(2, sql.NewValue(sql.Int, int64(1))),
			sql.NewRecord(3, sql.NewValue(sql.Int, int64(7))),
		}
	}

	cases := []struct {
		fn   AggFunc
		want float64
	}{
		{Sum, 12},
		{Mean, 4},
		{Min, 1},
		{Max, 7},
	}
	for _, tc := range cases {
		t.Run(tc.fn.String(), func(t *testing.T) {
			require := require.New(t)
			op := NewAggregateOperator(newSliceOperator(schema, records()), 0, tc.fn, sql.Double)

			ctx := sql.NewEmptyContext()
			r, err := op.Next(ctx)
			require.NoError(err)
			got, err := r.Values[0].AsFloat64()
			require.NoError(err)
			require.Equal(tc.want, got)

			_, err = op.Next(ctx)
			require.Equal(io.EOF, err)
		})
	}
}
