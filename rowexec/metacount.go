package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/sql"
)

// MetaCountOperator answers Count directly from the entity's own
// bookkeeping (catalog.Entity.Count), the physical shape the
// CountPushdown rewrite produces for an unfiltered Count-over-scan: no
// row is actually read off storage.
type MetaCountOperator struct {
	entity catalog.Entity
	done   bool
}

func NewMetaCountOperator(entity catalog.Entity) *MetaCountOperator {
	return &MetaCountOperator{entity: entity}
}

func (m *MetaCountOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("count"), Type: sql.Long}}
}

func (m *MetaCountOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if m.done {
		return sql.Record{}, io.EOF
	}
	m.done = true
	n, err := m.entity.Count(ctx)
	if err != nil {
		return sql.Record{}, executionFailure(err)
	}
	return sql.NewRecord(0, sql.NewValue(sql.Long, n)), nil
}

func (m *MetaCountOperator) Close(ctx *sql.Context) error { return nil }
