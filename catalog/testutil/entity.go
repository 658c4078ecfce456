// Package testutil provides a small in-memory stand-in for the catalogue's
// external collaborators (an Entity that is also a Mutator),
// in the manner of the teacher's own `memory` package: enough to drive the
// planner and runtime end to end in tests without a real storage engine.
package testutil

import (
	"sync"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/stats"
)

// Entity is a fully in-memory catalog.Entity + catalog.Mutator: a fixed
// column list and a slice of Records, scanned in insertion order.
type Entity struct {
	name    sql.Name
	cols    []sql.ColumnDef
	mu      sync.Mutex
	records []sql.Record
	nextID  sql.TupleId
}

// NewEntity builds an Entity named name with the given columns, empty.
func NewEntity(name string, cols ...sql.ColumnDef) *Entity {
	n, err := sql.NewName(sql.EntityName, name)
	if err != nil {
		panic(err)
	}
	return &Entity{name: n, cols: cols}
}

func (e *Entity) DBOName() sql.Name { return e.name }

func (e *Entity) ListColumns() []sql.ColumnDef {
	out := make([]sql.ColumnDef, len(e.cols))
	copy(out, e.cols)
	return out
}

func (e *Entity) ColumnForName(n sql.Name) (sql.ColumnDef, bool) {
	for _, c := range e.cols {
		if c.Name.Equal(n) {
			return c, true
		}
	}
	return sql.ColumnDef{}, false
}

func (e *Entity) Count(ctx *sql.Context) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int64(len(e.records)), nil
}

// Seed appends records with freshly minted, monotonically increasing
// TupleIds, the shape every test fixture builds its rows through.
func (e *Entity) Seed(rows ...[]sql.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, vs := range rows {
		e.records = append(e.records, sql.NewRecord(e.nextID, vs...))
		e.nextID++
	}
}

// Scan returns a cursor projecting every seeded record down to columns.
// An empty columns list returns every column this Entity owns.
func (e *Entity) Scan(ctx *sql.Context, columns []sql.ColumnDef) (sql.RecordCursor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(columns) == 0 {
		columns = e.cols
	}
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = e.indexOf(c)
	}
	out := make([]sql.Record, len(e.records))
	for i, r := range e.records {
		out[i] = r.Project(idx...)
	}
	return sql.NewSliceCursor(out), nil
}

func (e *Entity) indexOf(c sql.ColumnDef) int {
	for i, own := range e.cols {
		if own.Name.Equal(c.Name) {
			return i
		}
	}
	return -1
}

// PartitionFor splits the current TupleId space into n contiguous,
// roughly equal ranges and returns the i-th one.
func (e *Entity) PartitionFor(i, n int) (sql.TupleIdRange, error) {
	e.mu.Lock()
	total := e.nextID
	e.mu.Unlock()
	size := int64(total) / int64(n)
	start := sql.TupleId(int64(i) * size)
	end := start + sql.TupleId(size)
	if i == n-1 {
		end = total
	}
	return sql.TupleIdRange{Start: start, End: end}, nil
}

func (e *Entity) Insert(ctx *sql.Context, r sql.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r.ID >= e.nextID {
		e.nextID = r.ID + 1
	}
	e.records = append(e.records, r)
	return nil
}

func (e *Entity) Update(ctx *sql.Context, old, new sql.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.records {
		if r.ID == old.ID {
			e.records[i] = new
			return nil
		}
	}
	return nil
}

func (e *Entity) Delete(ctx *sql.Context, id sql.TupleId) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.records {
		if r.ID == id {
			e.records = append(e.records[:i], e.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// Column is the stats.Provider wrapper an Entity's ColumnForName result
// can be paired with; tests build one directly when a calculator or
// planner test needs a catalog.Column rather than just a ColumnDef.
type Column struct {
	Stats stats.ValueStatistics
}

func (c Column) Statistics() (stats.ValueStatistics, error) { return c.Stats, nil }

var _ catalog.Entity = (*Entity)(nil)
var _ catalog.Mutator = (*Entity)(nil)
