package plan

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

func sameColumnSet(a, b sql.ColumnSet) bool {
	return a.SupersetOf(b) && b.SupersetOf(a)
}

// EntityScan is the logical source reading every (or a projected subset
// of) column from an Entity.
type EntityScan struct {
	nullaryBase
	Entity catalog.Entity
	Cols   sql.ColumnSet
	Rows   int64
}

func NewEntityScan(entity catalog.Entity, cols sql.ColumnSet, rows int64) *EntityScan {
	return &EntityScan{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity, Cols: cols, Rows: rows}
}

func (e *EntityScan) Columns() sql.ColumnSet         { return e.Cols }
func (e *EntityScan) PhysicalColumns() sql.ColumnSet { return e.Cols }
func (e *EntityScan) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *EntityScan) SetInputs(inputs []Node) Node   { return e }
func (e *EntityScan) OutputSize() int64              { return e.Rows }

func (e *EntityScan) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}

func (e *EntityScan) Equal(other Node) bool {
	o, ok := other.(*EntityScan)
	return ok && o.Entity == e.Entity && sameColumnSet(e.Cols, o.Cols)
}

func (e *EntityScan) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	return []physical.Node{physical.NewEntityScan(e.Entity, e.Cols, e.Rows)}, nil
}

func (e *EntityScan) String() string { return fmt.Sprintf("EntityScan(%s)", e.Cols.Columns()) }

// EntitySample is the logical source producing each scanned record with
// independent Bernoulli probability P, deterministic under Seed.
type EntitySample struct {
	nullaryBase
	Entity catalog.Entity
	Cols   sql.ColumnSet
	P      float64
	Seed   uint64
	Rows   int64
}

func NewEntitySample(entity catalog.Entity, cols sql.ColumnSet, p float64, seed uint64, rows int64) *EntitySample {
	return &EntitySample{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity, Cols: cols, P: p, Seed: seed, Rows: rows}
}

func (e *EntitySample) Columns() sql.ColumnSet         { return e.Cols }
func (e *EntitySample) PhysicalColumns() sql.ColumnSet { return e.Cols }
func (e *EntitySample) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *EntitySample) SetInputs(inputs []Node) Node   { return e }
func (e *EntitySample) OutputSize() int64              { return int64(float64(e.Rows) * e.P) }

func (e *EntitySample) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}

func (e *EntitySample) Equal(other Node) bool {
	o, ok := other.(*EntitySample)
	return ok && o.Entity == e.Entity && o.P == e.P && o.Seed == e.Seed && sameColumnSet(e.Cols, o.Cols)
}

func (e *EntitySample) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	return []physical.Node{physical.NewEntitySample(e.Entity, e.Cols, e.P, e.Seed, e.Rows)}, nil
}

func (e *EntitySample) String() string { return fmt.Sprintf("EntitySample(p=%v, seed=%d)", e.P, e.Seed) }

// IndexScan is the rare logical source a binder emits directly — almost
// exclusively for a proximity predicate, since approximate or exact
// nearest-neighbour search is only meaningful against a concrete index,
// never a brute-force scan the rewrite phase could discover on its own.
// Equality predicates reach an IndexScan instead through the physical
// BooleanIndexScan rule (§4.3), never through this logical node.
type IndexScan struct {
	nullaryBase
	Index     catalog.Index
	Predicate predicate.Predicate
	Cols      sql.ColumnSet
	Rows      int64
}

func NewIndexScan(index catalog.Index, pred predicate.Predicate, cols sql.ColumnSet, rows int64) *IndexScan {
	traits := index.TraitsFor(pred)
	return &IndexScan{nullaryBase: nullaryBase{newBase(traits)}, Index: index, Predicate: pred, Cols: cols, Rows: rows}
}

func (s *IndexScan) Columns() sql.ColumnSet         { return s.Cols }
func (s *IndexScan) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *IndexScan) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (s *IndexScan) SetInputs(inputs []Node) Node   { return s }
func (s *IndexScan) OutputSize() int64              { return s.Rows }

func (s *IndexScan) Copy() Node {
	cp := *s
	cp.base = newBase(s.traits)
	return &cp
}

func (s *IndexScan) Equal(other Node) bool {
	o, ok := other.(*IndexScan)
	if !ok || o.Index != s.Index {
		return false
	}
	sd, err1 := s.Predicate.Digest()
	od, err2 := o.Predicate.Digest()
	return err1 == nil && err2 == nil && sd == od
}

func (s *IndexScan) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	return []physical.Node{physical.NewIndexScan(s.Index, s.Predicate, s.Cols, s.Rows, s.traits)}, nil
}

func (s *IndexScan) String() string { return fmt.Sprintf("IndexScan(%s)", s.Predicate) }
