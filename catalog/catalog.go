// Package catalog holds the narrow external-collaborator contracts the
// query engine core consumes: Entity, Column and Index. The core never
// prescribes their internals (storage engine, WAL, B-tree/LSM/vector index
// implementations are all out of scope) — it only calls through these
// interfaces.
package catalog

import (
	"github.com/cottontaildb/queryengine/cost"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/stats"
	"github.com/cottontaildb/queryengine/trait"
)

// Partition names the [i, n) slice of an Entity's tuple space a
// partitioned source or index scan restricts itself to.
type Partition struct {
	Index int
	Total int
}

// Entity is the external collaborator a Scan/Sample source reads from.
type Entity interface {
	sql.DBO
	ListColumns() []sql.ColumnDef
	ColumnForName(n sql.Name) (sql.ColumnDef, bool)
	Count(ctx *sql.Context) (int64, error)
	Scan(ctx *sql.Context, columns []sql.ColumnDef) (sql.RecordCursor, error)
	PartitionFor(i, n int) (sql.TupleIdRange, error)
}

// Column is the external collaborator exposing per-column statistics.
type Column interface {
	stats.Provider
}

// Mutator is the external collaborator the management operators
// (Insert/Update/Delete) write through. Entity itself stays read-only
// (§6 lists only Scan/Count/PartitionFor) — mutation is a distinct,
// narrower capability an Entity may also implement.
type Mutator interface {
	Insert(ctx *sql.Context, r sql.Record) error
	Update(ctx *sql.Context, old, new sql.Record) error
	Delete(ctx *sql.Context, id sql.TupleId) error
}

// Index is the external collaborator an IndexScan delegates to. A Filter
// directly above an EntityScan is rewritten into an IndexScan when some
// Index reports CanProcess(predicate)=true with a finite Cost.
type Index interface {
	sql.DBO
	CanProcess(p predicate.Predicate) bool
	Cost(p predicate.Predicate) cost.Cost
	ColumnsFor(p predicate.Predicate) []sql.ColumnDef
	TraitsFor(p predicate.Predicate) trait.Set
	Filter(ctx *sql.Context, p predicate.Predicate, part *Partition) (sql.RecordCursor, error)
}
