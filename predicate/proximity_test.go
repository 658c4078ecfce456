package predicate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

func vecCol(name string) sql.ColumnDef {
	n, err := sql.NewColumnName("", "t", name)
	if err != nil {
		panic(err)
	}
	return sql.ColumnDef{Name: n, Type: sql.VectorDouble, VectorSize: 2}
}

func vecRecords(vecs ...[]float64) []sql.Record {
	out := make([]sql.Record, len(vecs))
	for i, v := range vecs {
		out[i] = sql.NewRecord(sql.TupleId(i), sql.NewValue(sql.VectorDouble, v))
	}
	return out
}

// TestTopKNearest checks the NNS evaluation kernel on the literal
// scenario (c) fixture: the three closest of four vectors, in ascending
// distance order.
func TestTopKNearest(t *testing.T) {
	require := require.New(t)

	p := predicate.NewNNS(vecCol("v"), 3, predicate.Euclidean, []float64{0, 0})
	records := vecRecords([]float64{3, 3}, []float64{0, 0}, []float64{2, 2}, []float64{1, 1})

	scored, err := p.TopK(records, 0)
	require.NoError(err)
	require.Len(scored, 3)
	require.Equal(sql.TupleId(1), scored[0].Record.ID)
	require.Equal(sql.TupleId(3), scored[1].Record.ID)
	require.Equal(sql.TupleId(2), scored[2].Record.ID)
	require.True(scored[0].Distance <= scored[1].Distance)
	require.True(scored[1].Distance <= scored[2].Distance)
}

// TestTopKFarthest checks the FNS counterpart orders by descending
// distance.
func TestTopKFarthest(t *testing.T) {
	require := require.New(t)

	p := predicate.NewFNS(vecCol("v"), 2, predicate.Euclidean, []float64{0, 0})
	records := vecRecords([]float64{1, 1}, []float64{3, 3}, []float64{2, 2})

	scored, err := p.TopK(records, 0)
	require.NoError(err)
	require.Len(scored, 2)
	require.Equal(sql.TupleId(1), scored[0].Record.ID)
	require.Equal(sql.TupleId(2), scored[1].Record.ID)
}

// TestDistanceKernels checks the three reference kernels on hand-computed
// fixtures.
func TestDistanceKernels(t *testing.T) {
	require := require.New(t)

	d, err := predicate.Euclidean.Compute([]float64{0, 0}, []float64{3, 4})
	require.NoError(err)
	require.InDelta(5.0, d, 1e-9)

	d, err = predicate.Manhattan.Compute([]float64{1, 1}, []float64{4, -1})
	require.NoError(err)
	require.InDelta(5.0, d, 1e-9)

	d, err = predicate.Cosine.Compute([]float64{1, 0}, []float64{1, 0})
	require.NoError(err)
	require.InDelta(0.0, d, 1e-9)

	_, err = predicate.Euclidean.Compute([]float64{1}, []float64{1, 2})
	require.Error(err, "length mismatch must be rejected")
}
