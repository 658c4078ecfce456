// Package binding implements the closed Binding variant (Column, Literal,
// Subquery) and the single-writer BindingContext that late-binds their
// values immediately before execution. A BindingContext is passed
// explicitly rather than held as a module-level singleton so a query's
// bindings never leak into another query's execution.
package binding

import (
	"fmt"
	"sync"

	qerrors "github.com/cottontaildb/queryengine/engine/errors"
	"github.com/cottontaildb/queryengine/sql"
)

// Kind is the closed variant tag for a Binding.
type Kind uint8

const (
	ColumnKind Kind = iota
	LiteralKind
	SubqueryKind
)

// Binding is a placeholder that resolves at execution time to a column
// value, a literal, or a subquery result. Every Binding references a
// *Context shared with the rest of the query; Resolve reads the live value
// out of that context.
type Binding struct {
	kind Kind
	ctx  *Context
	id   int // index into the Context's bound-value table

	// ColumnKind
	Column sql.ColumnDef
	Index  int // position of Column within the current Record

	// LiteralKind
	Literal sql.Value

	// SubqueryKind
	DependsOn sql.GroupId
	SubColumn sql.ColumnDef
}

// NewColumnBinding builds a Binding that reads column at index idx of the
// current Record.
func NewColumnBinding(ctx *Context, col sql.ColumnDef, idx int) Binding {
	return Binding{kind: ColumnKind, ctx: ctx, Column: col, Index: idx}
}

// NewLiteralBinding builds a Binding that always resolves to v.
func NewLiteralBinding(ctx *Context, v sql.Value) Binding {
	return Binding{kind: LiteralKind, ctx: ctx, Literal: v}
}

// NewSubqueryBinding builds a Binding filled by FilterOnSubSelect once the
// subquery identified by group finishes (or, for IN, yields one value).
func NewSubqueryBinding(ctx *Context, group sql.GroupId, col sql.ColumnDef) Binding {
	id := ctx.reserve()
	return Binding{kind: SubqueryKind, ctx: ctx, id: id, DependsOn: group, SubColumn: col}
}

func (b Binding) Kind() Kind { return b.kind }

// Resolve returns the binding's value given the current Record flowing
// through the pipeline operator that owns it. Column bindings read from
// row; Literal bindings ignore row; Subquery bindings read the shared
// Context slot, erroring with BindingNotBound if FilterOnSubSelect never
// filled it.
func (b Binding) Resolve(row sql.Record) (sql.Value, error) {
	switch b.kind {
	case ColumnKind:
		if b.Index < 0 || b.Index >= len(row.Values) {
			return sql.Value{}, qerrors.ErrBindingNotBound.New(fmt.Sprintf("column %s out of range", b.Column))
		}
		return row.Values[b.Index], nil
	case LiteralKind:
		return b.Literal, nil
	case SubqueryKind:
		return b.ctx.get(b.id)
	default:
		return sql.Value{}, qerrors.ErrBindingNotBound.New("unknown binding kind")
	}
}

// ResolveMulti returns every value accumulated for an IN-style subquery
// binding (see Context.appendMulti).
func (b Binding) ResolveMulti() ([]sql.Value, error) {
	if b.kind != SubqueryKind {
		v, err := b.Resolve(sql.Record{})
		if err != nil {
			return nil, err
		}
		return []sql.Value{v}, nil
	}
	return b.ctx.getMulti(b.id)
}

// Context is the single-writer structure that late-binds Subquery
// bindings. It lives for exactly one query. Exactly one goroutine (the
// FilterOnSubSelect operator driving its subqueries to completion) writes
// into it; every other Binding.Resolve call only reads.
type Context struct {
	mu     sync.RWMutex
	single map[int]sql.Value
	multi  map[int][]sql.Value
	bound  map[int]bool
	next   int
}

// NewContext creates an empty BindingContext for one query.
func NewContext() *Context {
	return &Context{
		single: make(map[int]sql.Value),
		multi:  make(map[int][]sql.Value),
		bound:  make(map[int]bool),
	}
}

func (c *Context) reserve() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	return id
}

// Bind writes the single resolved value for a binary-comparison subquery
// binding (exactly one record's column-0 value).
func (c *Context) Bind(id int, v sql.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.single[id] = v
	c.bound[id] = true
}

// BindID exposes the reserved slot id for a Binding so FilterOnSubSelect
// can address it without holding the Binding value itself.
func BindID(b Binding) int { return b.id }

// AppendMulti accumulates one more value into an IN-style subquery
// binding's operand list.
func (c *Context) AppendMulti(id int, v sql.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v.IsNull() {
		return
	}
	c.multi[id] = append(c.multi[id], v)
	c.bound[id] = true
}

func (c *Context) get(id int) (sql.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.bound[id] {
		return sql.Value{}, qerrors.ErrBindingNotBound.New(fmt.Sprintf("subquery binding %d never bound", id))
	}
	if v, ok := c.single[id]; ok {
		return v, nil
	}
	if vs, ok := c.multi[id]; ok && len(vs) > 0 {
		return vs[0], nil
	}
	return sql.Value{}, qerrors.ErrBindingNotBound.New(fmt.Sprintf("subquery binding %d has no values", id))
}

func (c *Context) getMulti(id int) ([]sql.Value, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.bound[id] {
		return nil, qerrors.ErrBindingNotBound.New(fmt.Sprintf("subquery binding %d never bound", id))
	}
	return c.multi[id], nil
}
