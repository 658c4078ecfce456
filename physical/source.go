package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// EntityScan is the physical source reading every (or a projected subset
// of) column from an Entity.
type EntityScan struct {
	nullaryBase
	Entity     catalog.Entity
	Cols       sql.ColumnSet
	rows       int64
	part       *catalog.Partition
}

func NewEntityScan(entity catalog.Entity, cols sql.ColumnSet, rows int64) *EntityScan {
	return &EntityScan{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity, Cols: cols, rows: rows}
}

func (e *EntityScan) Columns() sql.ColumnSet         { return e.Cols }
func (e *EntityScan) PhysicalColumns() sql.ColumnSet { return e.Cols }
func (e *EntityScan) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *EntityScan) SetInputs(inputs []Node) Node    { return e }
func (e *EntityScan) OutputSize() int64              { return e.rows }

func (e *EntityScan) Cost() cost.Cost {
	return cost.Cost{IO: float64(e.rows) * cost.CostDiskAccessRead, CPU: float64(e.rows) * cost.CostFlop}
}

func (e *EntityScan) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}

func (e *EntityScan) Equal(other Node) bool {
	o, ok := other.(*EntityScan)
	return ok && o.Entity == e.Entity && sameColumnSet(e.Cols, o.Cols)
}

func (e *EntityScan) Partition(total, index int) Node {
	cp := e.Copy().(*EntityScan)
	cp.part = &catalog.Partition{Index: index, Total: total}
	cp.rows = e.rows / int64(total)
	return cp
}

func (e *EntityScan) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	var part *catalog.Partition
	if ctx.Partition != nil {
		part = &catalog.Partition{Index: ctx.Partition.Index, Total: ctx.Partition.Total}
	} else if e.part != nil {
		part = e.part
	}
	return rowexec.NewEntityScanOperator(e.Cols.Columns(), e.Entity, part), nil
}

func (e *EntityScan) String() string {
	return fmt.Sprintf("EntityScan(%s)", e.Cols.Columns())
}

// EntitySample is the physical source producing each scanned record with
// independent Bernoulli probability P, deterministic under Seed.
type EntitySample struct {
	nullaryBase
	Entity catalog.Entity
	Cols   sql.ColumnSet
	P      float64
	Seed   uint64
	rows   int64
	part   *catalog.Partition
}

func NewEntitySample(entity catalog.Entity, cols sql.ColumnSet, p float64, seed uint64, rows int64) *EntitySample {
	return &EntitySample{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity, Cols: cols, P: p, Seed: seed, rows: rows}
}

func (e *EntitySample) Columns() sql.ColumnSet         { return e.Cols }
func (e *EntitySample) PhysicalColumns() sql.ColumnSet { return e.Cols }
func (e *EntitySample) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *EntitySample) SetInputs(inputs []Node) Node   { return e }
func (e *EntitySample) OutputSize() int64              { return int64(float64(e.rows) * e.P) }

func (e *EntitySample) Cost() cost.Cost {
	return cost.Cost{IO: float64(e.rows) * cost.CostDiskAccessRead, CPU: float64(e.rows) * cost.CostFlop}
}

func (e *EntitySample) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}

func (e *EntitySample) Equal(other Node) bool {
	o, ok := other.(*EntitySample)
	return ok && o.Entity == e.Entity && o.P == e.P && o.Seed == e.Seed && sameColumnSet(e.Cols, o.Cols)
}

func (e *EntitySample) Partition(total, index int) Node {
	cp := e.Copy().(*EntitySample)
	cp.part = &catalog.Partition{Index: index, Total: total}
	cp.rows = e.rows / int64(total)
	// Each partition derives its seed from the parent so identical
	// (entity, p, seed) EntitySample operators still produce identical
	// *unpartitioned* sequences, per the determinism property (§8e),
	// while distinct partitions of the same sample don't correlate draws.
	cp.Seed = e.Seed ^ (uint64(index) * 0x9E3779B97F4A7C15)
	return cp
}

func (e *EntitySample) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	var part *catalog.Partition
	if ctx.Partition != nil {
		part = &catalog.Partition{Index: ctx.Partition.Index, Total: ctx.Partition.Total}
	} else if e.part != nil {
		part = e.part
	}
	return rowexec.NewEntitySampleOperator(e.Cols.Columns(), e.Entity, part, e.P, e.Seed), nil
}

func (e *EntitySample) String() string {
	return fmt.Sprintf("EntitySample(p=%v, seed=%d)", e.P, e.Seed)
}

// IndexScan is the physical source produced by the BooleanIndexScan rule
// (or chosen directly by a proximity predicate): it delegates row
// retrieval to an Index rather than a raw Entity scan.
type IndexScan struct {
	nullaryBase
	Index     catalog.Index
	Predicate predicate.Predicate
	Cols      sql.ColumnSet
	rows      int64
	part      *catalog.Partition
}

func NewIndexScan(index catalog.Index, pred predicate.Predicate, cols sql.ColumnSet, rows int64, traits trait.Set) *IndexScan {
	return &IndexScan{nullaryBase: nullaryBase{newBase(traits)}, Index: index, Predicate: pred, Cols: cols, rows: rows}
}

func (s *IndexScan) Columns() sql.ColumnSet         { return s.Cols }
func (s *IndexScan) PhysicalColumns() sql.ColumnSet { return s.Cols }
func (s *IndexScan) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (s *IndexScan) SetInputs(inputs []Node) Node    { return s }
func (s *IndexScan) OutputSize() int64               { return s.rows }

func (s *IndexScan) Cost() cost.Cost { return s.Index.Cost(s.Predicate) }

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

func (s *IndexScan) Partition(total, index int) Node {
	cp := s.Copy().(*IndexScan)
	cp.part = &catalog.Partition{Index: index, Total: total}
	cp.rows = s.rows / int64(total)
	return cp
}

func (s *IndexScan) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	var part *catalog.Partition
	if ctx.Partition != nil {
		part = &catalog.Partition{Index: ctx.Partition.Index, Total: ctx.Partition.Total}
	} else if s.part != nil {
		part = s.part
	}
	return rowexec.NewIndexScanOperator(s.Cols.Columns(), s.Index, s.Predicate, part), nil
}

func (s *IndexScan) String() string {
	return fmt.Sprintf("IndexScan(%s)", s.Predicate)
}

func sameColumnSet(a, b sql.ColumnSet) bool {
	return a.SupersetOf(b) && b.SupersetOf(a)
}
