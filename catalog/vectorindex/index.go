// Package vectorindex is the reference proximity Index implementation:
// a brute-force k-NN/k-FN index over one vector column, giving the
// planner's IndexScan path (§4.1, §4.4's index-scan-partitioning note)
// something concrete to run the ProximityPredicate.TopK evaluation kernel
// against. It is a narrow, in-memory stand-in for the real on-disk vector
// index the core treats as an external collaborator (§1 Non-goals), the
// proximity-side counterpart to catalog/pilosaindex's boolean index.
package vectorindex

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// Index is a single-column proximity index: CanProcess accepts only
// NNS/FNS predicates over Index's own vector column; every BooleanPredicate
// and any proximity predicate over another column falls back to a scan.
type Index struct {
	name    sql.Name
	Column  sql.ColumnDef
	colIdx  int
	records []sql.Record
	cols    []sql.ColumnDef
}

// Build constructs a vectorindex.Index over col from every record a scan
// of the entity yielded, projected to cols (the schema Filter returns
// back to its caller). Like pilosaindex.Build, this is a one-shot bulk
// load — the reference index never incrementally maintains itself after
// Insert/Update/Delete.
func Build(name string, col sql.ColumnDef, cols []sql.ColumnDef, records []sql.Record, colIndex int) (*Index, error) {
	n, err := sql.NewName(sql.IndexName, name)
	if err != nil {
		return nil, err
	}
	cp := make([]sql.Record, len(records))
	copy(cp, records)
	return &Index{name: n, Column: col, colIdx: colIndex, records: cp, cols: cols}, nil
}

func (idx *Index) DBOName() sql.Name { return idx.name }

// CanProcess accepts a Proximity predicate over this index's own column;
// everything else (BooleanPredicate, a Proximity over another column) is
// rejected and falls back to a plain scan.
func (idx *Index) CanProcess(p predicate.Predicate) bool {
	prox, ok := p.(predicate.Proximity)
	if !ok {
		return false
	}
	return prox.Column.Equal(idx.Column)
}

// Cost reports an I/O cost proportional to a full scan (this reference
// index has no pruning structure, it evaluates every vector) and zero
// Accuracy loss, since TopK is an exact brute-force evaluation; a real
// ANN index would report nonzero Accuracy in exchange for lower IO/CPU.
func (idx *Index) Cost(p predicate.Predicate) cost.Cost {
	if !idx.CanProcess(p) {
		return cost.Invalid
	}
	n := float64(len(idx.records))
	return cost.Cost{IO: n * cost.CostMemoryAccess, CPU: n * cost.CostFlop}
}

// ColumnsFor reports the columns an IndexScan built from this index
// yields: whatever columns it was Built with.
func (idx *Index) ColumnsFor(p predicate.Predicate) []sql.ColumnDef {
	out := make([]sql.ColumnDef, len(idx.cols))
	copy(out, idx.cols)
	return out
}

// TraitsFor reports LimitTrait{K}: a k-NN/k-FN result is at most K
// records by construction. No OrderTrait is promised — the ordering it
// produces is by distance to the query vector, which has no ColumnDef to
// name in an OrderTrait term.
func (idx *Index) TraitsFor(p predicate.Predicate) trait.Set {
	prox, ok := p.(predicate.Proximity)
	if !ok {
		return trait.Set{}
	}
	return trait.NewSet(trait.LimitTrait{Limit: int64(prox.K)})
}

// Filter evaluates p's TopK against every record in part's TupleId range
// (or the whole index when part is nil), returning a cursor over the K
// closest (NNS) or farthest (FNS) records in distance order.
func (idx *Index) Filter(ctx *sql.Context, p predicate.Predicate, part *catalog.Partition) (sql.RecordCursor, error) {
	prox, ok := p.(predicate.Proximity)
	if !ok {
		return nil, fmt.Errorf("vectorindex: cannot filter predicate %s", p)
	}
	candidates := idx.records
	if part != nil {
		total := sql.TupleId(0)
		for _, r := range idx.records {
			if r.ID+1 > total {
				total = r.ID + 1
			}
		}
		size := int64(total) / int64(part.Total)
		start := sql.TupleId(int64(part.Index) * size)
		end := start + sql.TupleId(size)
		if part.Index == part.Total-1 {
			end = total
		}
		rng := sql.TupleIdRange{Start: start, End: end}
		filtered := make([]sql.Record, 0, len(idx.records))
		for _, r := range idx.records {
			if rng.Contains(r.ID) {
				filtered = append(filtered, r)
			}
		}
		candidates = filtered
	}
	scored, err := prox.TopK(candidates, idx.colIdx)
	if err != nil {
		return nil, err
	}
	out := make([]sql.Record, len(scored))
	for i, s := range scored {
		out[i] = s.Record
	}
	return sql.NewSliceCursor(out), nil
}
