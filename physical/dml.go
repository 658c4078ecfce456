package physical

import (
	"fmt"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

var affectedColumn = mustCol("affected", sql.Long)

// Insert writes every input record to Target, emitting the number of rows
// affected.
type Insert struct {
	unaryBase
	Target catalog.Mutator
}

func NewInsert(input Node, target catalog.Mutator) *Insert {
	return &Insert{unaryBase{base: newBase(trait.Set{}), input: input}, target}
}

func (i *Insert) Columns() sql.ColumnSet         { return sql.NewColumnSet(affectedColumn) }
func (i *Insert) PhysicalColumns() sql.ColumnSet { return i.Columns() }
func (i *Insert) Requires() sql.ColumnSet        { return i.input.Columns() }
func (i *Insert) SetInputs(inputs []Node) Node {
	cp := *i
	cp.input = inputs[0]
	return &cp
}
func (i *Insert) OutputSize() int64 { return 1 }
func (i *Insert) Cost() cost.Cost {
	n := float64(i.input.OutputSize())
	return cost.Cost{IO: n * cost.CostDiskAccessWrite, CPU: n * cost.CostFlop}
}
func (i *Insert) Copy() Node {
	cp := *i
	cp.base = newBase(i.traits)
	return &cp
}
func (i *Insert) Equal(other Node) bool {
	o, ok := other.(*Insert)
	return ok && i.input.Equal(o.input)
}
func (i *Insert) Partition(total, index int) Node { return i }
func (i *Insert) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := i.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewInsertOperator(in, i.Target), nil
}
func (i *Insert) String() string { return "Insert" }

// Update reads (old, new) record pairs from its input — a 2*N-column
// stream, old half then new half — and writes each update through Target.
type Update struct {
	unaryBase
	Half   int
	Target catalog.Mutator
}

func NewUpdate(input Node, half int, target catalog.Mutator) *Update {
	return &Update{unaryBase{base: newBase(trait.Set{}), input: input}, half, target}
}

func (u *Update) Columns() sql.ColumnSet         { return sql.NewColumnSet(affectedColumn) }
func (u *Update) PhysicalColumns() sql.ColumnSet { return u.Columns() }
func (u *Update) Requires() sql.ColumnSet        { return u.input.Columns() }
func (u *Update) SetInputs(inputs []Node) Node {
	cp := *u
	cp.input = inputs[0]
	return &cp
}
func (u *Update) OutputSize() int64 { return 1 }
func (u *Update) Cost() cost.Cost {
	n := float64(u.input.OutputSize())
	return cost.Cost{IO: n * cost.CostDiskAccessWrite, CPU: n * cost.CostFlop}
}
func (u *Update) Copy() Node {
	cp := *u
	cp.base = newBase(u.traits)
	return &cp
}
func (u *Update) Equal(other Node) bool {
	o, ok := other.(*Update)
	return ok && u.Half == o.Half && u.input.Equal(o.input)
}
func (u *Update) Partition(total, index int) Node { return u }
func (u *Update) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := u.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewUpdateOperator(in, u.Half, u.Target), nil
}
func (u *Update) String() string { return fmt.Sprintf("Update(half=%d)", u.Half) }

// Delete removes every TupleId produced by its input through Target.
type Delete struct {
	unaryBase
	Target catalog.Mutator
}

func NewDelete(input Node, target catalog.Mutator) *Delete {
	return &Delete{unaryBase{base: newBase(trait.Set{}), input: input}, target}
}

func (d *Delete) Columns() sql.ColumnSet         { return sql.NewColumnSet(affectedColumn) }
func (d *Delete) PhysicalColumns() sql.ColumnSet { return d.Columns() }
func (d *Delete) Requires() sql.ColumnSet        { return d.input.Columns() }
func (d *Delete) SetInputs(inputs []Node) Node {
	cp := *d
	cp.input = inputs[0]
	return &cp
}
func (d *Delete) OutputSize() int64 { return 1 }
func (d *Delete) Cost() cost.Cost {
	n := float64(d.input.OutputSize())
	return cost.Cost{IO: n * cost.CostDiskAccessWrite, CPU: n * cost.CostFlop}
}
func (d *Delete) Copy() Node {
	cp := *d
	cp.base = newBase(d.traits)
	return &cp
}
func (d *Delete) Equal(other Node) bool {
	o, ok := other.(*Delete)
	return ok && d.input.Equal(o.input)
}
func (d *Delete) Partition(total, index int) Node { return d }
func (d *Delete) ToOperator(ctx *ExecContext) (rowexec.Operator, error) {
	in, err := d.input.ToOperator(ctx)
	if err != nil {
		return nil, err
	}
	return rowexec.NewDeleteOperator(in, d.Target), nil
}
func (d *Delete) String() string { return "Delete" }
