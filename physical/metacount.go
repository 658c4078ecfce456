package physical

import (
	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// EntityCount is the physical shape the CountPushdown rewrite (§4.3)
// produces: it answers a bare Count-over-scan from the entity's own
// bookkeeping instead of materialising and counting every row.
type EntityCount struct {
	nullaryBase
	Entity catalog.Entity
}

func NewEntityCount(entity catalog.Entity) *EntityCount {
	return &EntityCount{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity}
}

func (e *EntityCount) Columns() sql.ColumnSet         { return sql.NewColumnSet(countColumn) }
func (e *EntityCount) PhysicalColumns() sql.ColumnSet { return e.Columns() }
func (e *EntityCount) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (e *EntityCount) SetInputs(inputs []Node) Node   { return e }
func (e *EntityCount) OutputSize() int64              { return 1 }
func (e *EntityCount) Cost() cost.Cost                { return cost.Cost{IO: cost.CostDiskAccessRead} }
func (e *EntityCount) Copy() Node {
	cp := *e
	cp.base = newBase(e.traits)
	return &cp
}
func (e *EntityCount) Equal(other Node) bool {
	o, ok := other.(*EntityCount)
	return ok && o.Entity == e.Entity
}
func (e *EntityCount) Partition(total, index int) Node { return e }
func (e *EntityCount) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	return rowexec.NewMetaCountOperator(e.Entity), nil
}
func (e *EntityCount) String() string { return "EntityCount" }
