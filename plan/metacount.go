package plan

import (
	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/physical"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// MetaCount is the logical shape the CountPushdown rewrite rule (§4.3)
// produces in place of Count(EntityScan): answering row count from the
// entity's own bookkeeping rather than scanning.
type MetaCount struct {
	nullaryBase
	Entity catalog.Entity
}

func NewMetaCount(entity catalog.Entity) *MetaCount {
	return &MetaCount{nullaryBase: nullaryBase{newBase(trait.Set{})}, Entity: entity}
}

func (m *MetaCount) Columns() sql.ColumnSet         { return sql.NewColumnSet(countColumn) }
func (m *MetaCount) PhysicalColumns() sql.ColumnSet { return m.Columns() }
func (m *MetaCount) Requires() sql.ColumnSet        { return sql.ColumnSet{} }
func (m *MetaCount) SetInputs(inputs []Node) Node   { return m }
func (m *MetaCount) OutputSize() int64              { return 1 }
func (m *MetaCount) Copy() Node {
	cp := *m
	cp.base = newBase(m.traits)
	return &cp
}
func (m *MetaCount) Equal(other Node) bool {
	o, ok := other.(*MetaCount)
	return ok && o.Entity == m.Entity
}
func (m *MetaCount) Implement(ctx *ImplementContext) ([]physical.Node, error) {
	return []physical.Node{physical.NewEntityCount(m.Entity)}, nil
}
func (m *MetaCount) String() string { return "MetaCount" }
