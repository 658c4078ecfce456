// Package pilosaindex is the reference boolean Index implementation the
// planner's BooleanIndexScan rule (and its test suite) exercises: an
// equality/IN/negation index over one column, backed by one
// github.com/pilosa/pilosa roaring bitmap per distinct value. It is a
// narrow, in-memory stand-in for the real on-disk index the core treats
// as an external collaborator (§1 Non-goals) — just enough to let the
// planner's canProcess/cost/filter contract run against a genuine roaring
// bitmap rather than a map[TupleId]bool.
package pilosaindex

import (
	"fmt"
	"sort"

	"github.com/pilosa/pilosa/roaring"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Index is a single-column equality index: CanProcess accepts Atomic
// predicates over Column using Eq, Neq or In; every other predicate
// (including any predicate over a different column) is rejected and
// falls back to a plain scan.
type Index struct {
	name   sql.Name
	Column sql.ColumnDef

	// bitmaps maps a value's canonical string key to the roaring bitmap
	// of TupleIds holding that value. Built once from a full scan at
	// construction time, the way a real index's bulk-load would; this
	// reference implementation never incrementally maintains itself
	// after Insert/Update/Delete.
	bitmaps map[string]*roaring.Bitmap
	byID    map[sql.TupleId]sql.Record
	cols    []sql.ColumnDef
}

// Build constructs a pilosaindex.Index over col from every record a scan
// of entity yields, projected to cols (the schema Filter returns back to
// its caller).
func Build(name string, col sql.ColumnDef, cols []sql.ColumnDef, records []sql.Record, colIndex int) (*Index, error) {
	n, err := sql.NewName(sql.IndexName, name)
	if err != nil {
		return nil, err
	}
	idx := &Index{
		name:    n,
		Column:  col,
		bitmaps: make(map[string]*roaring.Bitmap),
		byID:    make(map[sql.TupleId]sql.Record, len(records)),
		cols:    cols,
	}
	for _, r := range records {
		idx.byID[r.ID] = r
		v := r.Values[colIndex]
		if v.IsNull() {
			continue
		}
		key := v.String()
		bm, ok := idx.bitmaps[key]
		if !ok {
			bm = roaring.NewBitmap()
			idx.bitmaps[key] = bm
		}
		if _, err := bm.Add(uint64(r.ID)); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

func (idx *Index) DBOName() sql.Name { return idx.name }

// CanProcess accepts an Atomic predicate over Index's own column using
// Eq, Neq or In; everything else (Conjunction, Disjunction, Proximity, a
// predicate over another column) is rejected.
func (idx *Index) CanProcess(p predicate.Predicate) bool {
	a, ok := p.(predicate.Atomic)
	if !ok {
		return false
	}
	if !a.Columns().Contains(idx.Column) || a.Columns().Len() != 1 {
		return false
	}
	switch a.Op {
	case predicate.Eq, predicate.Neq, predicate.In:
		return true
	default:
		return false
	}
}

// Cost reports a near-zero I/O, bitmap-lookup cost for any predicate this
// index CanProcess, and the Invalid sentinel otherwise — so a planner
// that calls Cost without first checking CanProcess still gets a correct
// "never pick this" answer.
func (idx *Index) Cost(p predicate.Predicate) cost.Cost {
	if !idx.CanProcess(p) {
		return cost.Invalid
	}
	return cost.Cost{IO: cost.CostMemoryAccess, CPU: cost.CostMemoryAccess}
}

// ColumnsFor reports the columns an IndexScan built from this index
// yields: whatever columns it was Built with.
func (idx *Index) ColumnsFor(p predicate.Predicate) []sql.ColumnDef {
	out := make([]sql.ColumnDef, len(idx.cols))
	copy(out, idx.cols)
	return out
}

// TraitsFor reports no traits: this reference index doesn't maintain its
// bitmaps in any particular TupleId order, so it can promise neither
// OrderTrait nor LimitTrait to a downstream demand.
func (idx *Index) TraitsFor(p predicate.Predicate) trait.Set { return trait.Set{} }

// Filter resolves p against the bitmap index and returns a cursor over
// the matching records, restricted to part's TupleId range when non-nil.
func (idx *Index) Filter(ctx *sql.Context, p predicate.Predicate, part *catalog.Partition) (sql.RecordCursor, error) {
	ids, err := idx.resolveIDs(p)
	if err != nil {
		return nil, err
	}
	var rng sql.TupleIdRange
	hasRange := false
	if part != nil {
		total := sql.TupleId(0)
		for id := range idx.byID {
			if id+1 > total {
				total = id + 1
			}
		}
		size := int64(total) / int64(part.Total)
		start := sql.TupleId(int64(part.Index) * size)
		end := start + sql.TupleId(size)
		if part.Index == part.Total-1 {
			end = total
		}
		rng = sql.TupleIdRange{Start: start, End: end}
		hasRange = true
	}
	out := make([]sql.Record, 0, len(ids))
	for _, id := range ids {
		if hasRange && !rng.Contains(id) {
			continue
		}
		if r, ok := idx.byID[id]; ok {
			out = append(out, r)
		}
	}
	return sql.NewSliceCursor(out), nil
}

func (idx *Index) resolveIDs(p predicate.Predicate) ([]sql.TupleId, error) {
	a, ok := p.(predicate.Atomic)
	if !ok {
		return nil, fmt.Errorf("pilosaindex: cannot filter predicate %s", p)
	}
	switch a.Op {
	case predicate.Eq, predicate.Neq:
		return idx.idsForComparison(a)
	case predicate.In:
		return idx.idsForIn(a)
	default:
		return nil, fmt.Errorf("pilosaindex: unsupported operator %s", a.Op)
	}
}

func (idx *Index) idsForComparison(a predicate.Atomic) ([]sql.TupleId, error) {
	key, err := literalKey(a)
	if err != nil {
		return nil, err
	}
	matching := idx.bitmaps[key]
	if a.Op == predicate.Eq {
		return bitmapIDs(matching), nil
	}
	// Neq: every bitmap except the matching one, unioned.
	union := roaring.NewBitmap()
	for k, bm := range idx.bitmaps {
		if k == key {
			continue
		}
		union = union.Union(bm)
	}
	return bitmapIDs(union), nil
}

func (idx *Index) idsForIn(a predicate.Atomic) ([]sql.TupleId, error) {
	keys, err := literalKeys(a)
	if err != nil {
		return nil, err
	}
	union := roaring.NewBitmap()
	for _, k := range keys {
		if bm, ok := idx.bitmaps[k]; ok {
			union = union.Union(bm)
		}
	}
	return bitmapIDs(union), nil
}

func bitmapIDs(bm *roaring.Bitmap) []sql.TupleId {
	if bm == nil {
		return nil
	}
	raw := bm.Slice()
	ids := make([]sql.TupleId, len(raw))
	for i, v := range raw {
		ids[i] = sql.TupleId(v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// literalKey extracts the right-hand literal's String() key an Eq/Neq
// atomic compares the indexed column against. This reference index only
// ever sees Atomic predicates built with a literal on one side (the
// planner never asks an index to process a column-to-column comparison).
func literalKey(a predicate.Atomic) (string, error) {
	rv, err := a.Right.Resolve(sql.Record{})
	if err != nil {
		return "", err
	}
	return rv.String(), nil
}

func literalKeys(a predicate.Atomic) ([]string, error) {
	rvs, err := a.Right.ResolveMulti()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(rvs))
	for i, v := range rvs {
		keys[i] = v.String()
	}
	return keys, nil
}

var _ catalog.Index = (*Index)(nil)
