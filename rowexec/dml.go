package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/sql"
)

// InsertOperator is a pipeline breaker: it drains a source of records to
// insert, writes each through the Mutator, and emits a single record
// holding the number of rows written.
type InsertOperator struct {
	input  Operator
	target catalog.Mutator
	done   bool
}

func NewInsertOperator(input Operator, target catalog.Mutator) *InsertOperator {
	return &InsertOperator{input: input, target: target}
}

func (i *InsertOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("affected"), Type: sql.Long}}
}

func (i *InsertOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if i.done {
		return sql.Record{}, io.EOF
	}
	i.done = true
	var n int64
	for {
		r, err := i.input.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return sql.Record{}, err
		}
		if err := i.target.Insert(ctx, r); err != nil {
			return sql.Record{}, executionFailure(err)
		}
		n++
	}
	return sql.NewRecord(0, sql.NewValue(sql.Long, n)), nil
}

func (i *InsertOperator) Close(ctx *sql.Context) error { return i.input.Close(ctx) }

// UpdateOperator reads (old, new) record pairs from its input and writes
// each update through the Mutator, emitting the number of rows affected.
type UpdateOperator struct {
	input  Operator // schema is 2*N columns: old half then new half
	half   int
	target catalog.Mutator
	done   bool
}

func NewUpdateOperator(input Operator, half int, target catalog.Mutator) *UpdateOperator {
	return &UpdateOperator{input: input, half: half, target: target}
}

func (u *UpdateOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("affected"), Type: sql.Long}}
}

func (u *UpdateOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if u.done {
		return sql.Record{}, io.EOF
	}
	u.done = true
	var n int64
	for {
		r, err := u.input.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return sql.Record{}, err
		}
		old := sql.NewRecord(r.ID, r.Values[:u.half]...)
		nw := sql.NewRecord(r.ID, r.Values[u.half:]...)
		if err := u.target.Update(ctx, old, nw); err != nil {
			return sql.Record{}, executionFailure(err)
		}
		n++
	}
	return sql.NewRecord(0, sql.NewValue(sql.Long, n)), nil
}

func (u *UpdateOperator) Close(ctx *sql.Context) error { return u.input.Close(ctx) }

// DeleteOperator deletes every TupleId produced by its input through the
// Mutator, emitting the number of rows affected.
type DeleteOperator struct {
	input  Operator
	target catalog.Mutator
	done   bool
}

func NewDeleteOperator(input Operator, target catalog.Mutator) *DeleteOperator {
	return &DeleteOperator{input: input, target: target}
}

func (d *DeleteOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("affected"), Type: sql.Long}}
}

func (d *DeleteOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if d.done {
		return sql.Record{}, io.EOF
	}
	d.done = true
	var n int64
	for {
		r, err := d.input.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return sql.Record{}, err
		}
		if err := d.target.Delete(ctx, r.ID); err != nil {
			return sql.Record{}, executionFailure(err)
		}
		n++
	}
	return sql.NewRecord(0, sql.NewValue(sql.Long, n)), nil
}

func (d *DeleteOperator) Close(ctx *sql.Context) error { return d.input.Close(ctx) }
