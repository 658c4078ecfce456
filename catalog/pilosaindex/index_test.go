package pilosaindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/catalog/pilosaindex"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

func indexCol() sql.ColumnDef {
	n, _ := sql.NewColumnName("", "t", "flag")
	return sql.ColumnDef{Name: n, Type: sql.String}
}

func buildFixture(t *testing.T) (*pilosaindex.Index, []sql.ColumnDef) {
	t.Helper()
	col := indexCol()
	cols := []sql.ColumnDef{col}
	records := []sql.Record{
		sql.NewRecord(0, sql.NewValue(sql.String, "a")),
		sql.NewRecord(1, sql.NewValue(sql.String, "b")),
		sql.NewRecord(2, sql.NewValue(sql.String, "a")),
		sql.NewRecord(3, sql.NewValue(sql.String, "c")),
	}
	idx, err := pilosaindex.Build("flag_idx", col, cols, records, 0)
	require.NoError(t, err)
	return idx, cols
}

func eqAtomic(col sql.ColumnDef, v string) predicate.Atomic {
	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, col, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.String, v))
	return predicate.NewAtomic(predicate.Eq, false, left, right, &col, nil)
}

func TestIndexCanProcessOnlyItsOwnColumn(t *testing.T) {
	require := require.New(t)
	idx, _ := buildFixture(t)
	col := indexCol()

	require.True(idx.CanProcess(eqAtomic(col, "a")))

	other, _ := sql.NewColumnName("", "t", "other")
	otherCol := sql.ColumnDef{Name: other, Type: sql.Int}
	require.False(idx.CanProcess(eqAtomic(otherCol, "a")))
}

func TestIndexFilterEq(t *testing.T) {
	require := require.New(t)
	idx, _ := buildFixture(t)
	col := indexCol()

	cursor, err := idx.Filter(sql.NewEmptyContext(), eqAtomic(col, "a"), nil)
	require.NoError(err)

	var ids []sql.TupleId
	for {
		r, ok, err := cursor.Next()
		require.NoError(err)
		if !ok {
			break
		}
		ids = append(ids, r.ID)
	}
	require.ElementsMatch([]sql.TupleId{0, 2}, ids)
}

func TestIndexCostInvalidForUnsupportedPredicate(t *testing.T) {
	require := require.New(t)
	idx, _ := buildFixture(t)

	other, _ := sql.NewColumnName("", "t", "other")
	otherCol := sql.ColumnDef{Name: other, Type: sql.Int}
	c := idx.Cost(eqAtomic(otherCol, "a"))
	require.True(c.IsInvalid())
}
