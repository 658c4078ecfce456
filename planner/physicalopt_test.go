package planner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/binding"
	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/catalog/pilosaindex"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/planner"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// TestApplyBooleanIndexScanPrefersCheaperIndex checks §8's
// index-scan-preference property: a Filter directly above an EntityScan,
// matched by an index reporting CanProcess=true, is replaced by an
// IndexScan rather than left as Filter(EntityScan).
func TestApplyBooleanIndexScanPrefersCheaperIndex(t *testing.T) {
	require := require.New(t)

	c := col("flag", sql.String)
	records := []sql.Record{
		sql.NewRecord(0, sql.NewValue(sql.String, "a")),
		sql.NewRecord(1, sql.NewValue(sql.String, "b")),
		sql.NewRecord(2, sql.NewValue(sql.String, "a")),
	}
	idx, err := pilosaindex.Build("flag_idx", c, []sql.ColumnDef{c}, records, 0)
	require.NoError(err)

	entity := recordingEntity{name: "t"}
	scan := physical.NewEntityScan(entity, sql.NewColumnSet(c), 3)

	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.String, "a"))
	pred := predicate.NewAtomic(predicate.Eq, false, left, right, &c, nil)

	filter := physical.NewFilter(scan, pred, nil)

	indexesFor := func(e catalog.Entity) []catalog.Index { return []catalog.Index{idx} }
	result := planner.ApplyBooleanIndexScan(filter, cost.DefaultPolicy(), indexesFor)

	_, isIndexScan := result.(*physical.IndexScan)
	require.True(isIndexScan, "expected Filter(EntityScan) to be replaced by IndexScan, got %T", result)
}

// TestApplyBooleanIndexScanLeavesUnmatchedFilterAlone checks the
// complementary case: when no index reports CanProcess, the Filter/Scan
// pair is left untouched.
func TestApplyBooleanIndexScanLeavesUnmatchedFilterAlone(t *testing.T) {
	require := require.New(t)

	c := col("flag", sql.String)
	entity := recordingEntity{name: "t"}
	scan := physical.NewEntityScan(entity, sql.NewColumnSet(c), 3)

	bc := binding.NewContext()
	left := binding.NewColumnBinding(bc, c, 0)
	right := binding.NewLiteralBinding(bc, sql.NewValue(sql.String, "a"))
	pred := predicate.NewAtomic(predicate.Eq, false, left, right, &c, nil)
	filter := physical.NewFilter(scan, pred, nil)

	indexesFor := func(e catalog.Entity) []catalog.Index { return nil }
	result := planner.ApplyBooleanIndexScan(filter, cost.DefaultPolicy(), indexesFor)

	_, stillFilter := result.(*physical.Filter)
	require.True(stillFilter)
}

// recordingEntity is a minimal catalog.Entity used only to identify which
// entity a Filter's scan reads from; its data methods are never called by
// ApplyBooleanIndexScan itself.
type recordingEntity struct {
	name string
}

func (r recordingEntity) DBOName() sql.Name {
	n, _ := sql.NewName(sql.EntityName, r.name)
	return n
}
func (r recordingEntity) ListColumns() []sql.ColumnDef               { return nil }
func (r recordingEntity) ColumnForName(sql.Name) (sql.ColumnDef, bool) { return sql.ColumnDef{}, false }
func (r recordingEntity) Count(*sql.Context) (int64, error)          { return 0, nil }
func (r recordingEntity) Scan(*sql.Context, []sql.ColumnDef) (sql.RecordCursor, error) {
	return sql.NewSliceCursor(nil), nil
}
func (r recordingEntity) PartitionFor(i, n int) (sql.TupleIdRange, error) {
	return sql.TupleIdRange{}, nil
}

var _ catalog.Entity = recordingEntity{}
