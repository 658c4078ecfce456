package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// FilterOperator transforms its input one record at a time, emitting only
// those matching a BooleanPredicate.
type FilterOperator struct {
	schema []sql.ColumnDef
	input  Operator
	pred   predicate.BooleanPredicate
}

func NewFilterOperator(input Operator, pred predicate.BooleanPredicate) *FilterOperator {
	return &FilterOperator{schema: input.Schema(), input: input, pred: pred}
}

func (f *FilterOperator) Schema() []sql.ColumnDef { return f.schema }

func (f *FilterOperator) Next(ctx *sql.Context) (sql.Record, error) {
	for {
		if ctx.Cancelled() {
			return sql.Record{}, errCancelled()
		}
		r, err := f.input.Next(ctx)
		if err != nil {
			return sql.Record{}, err
		}
		ok, err := f.pred.IsMatch(r)
		if err != nil {
			return sql.Record{}, err
		}
		if ok {
			return r, nil
		}
	}
}

func (f *FilterOperator) Close(ctx *sql.Context) error { return f.input.Close(ctx) }

// FetchOperator grafts additional columns fetched back from the entity by
// TupleId onto each record of its input.
type FetchOperator struct {
	schema  []sql.ColumnDef
	input   Operator
	entity  catalog.Entity
	fetch   []sql.ColumnDef
}

func NewFetchOperator(input Operator, entity catalog.Entity, fetch []sql.ColumnDef) *FetchOperator {
	schema := append(append([]sql.ColumnDef{}, input.Schema()...), fetch...)
	return &FetchOperator{schema: schema, input: input, entity: entity, fetch: fetch}
}

func (f *FetchOperator) Schema() []sql.ColumnDef { return f.schema }

func (f *FetchOperator) Next(ctx *sql.Context) (sql.Record, error) {
	r, err := f.input.Next(ctx)
	if err != nil {
		return sql.Record{}, err
	}
	cursor, err := f.entity.Scan(ctx, f.fetch)
	if err != nil {
		return sql.Record{}, executionFailure(err)
	}
	defer cursor.Close()
	for {
		fr, ok, err := cursor.Next()
		if err != nil {
			return sql.Record{}, executionFailure(err)
		}
		if !ok {
			return sql.Record{}, executionFailure(io.ErrUnexpectedEOF)
		}
		if fr.ID == r.ID {
			return r.Append(fr.Values...), nil
		}
	}
}

func (f *FetchOperator) Close(ctx *sql.Context) error { return f.input.Close(ctx) }

// LimitOperator passes through at most Limit records before signalling
// io.EOF.
type LimitOperator struct {
	input   Operator
	limit   int64
	emitted int64
}

func NewLimitOperator(input Operator, limit int64) *LimitOperator {
	return &LimitOperator{input: input, limit: limit}
}

func (l *LimitOperator) Schema() []sql.ColumnDef { return l.input.Schema() }

func (l *LimitOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if l.emitted >= l.limit {
		return sql.Record{}, io.EOF
	}
	r, err := l.input.Next(ctx)
	if err != nil {
		return sql.Record{}, err
	}
	l.emitted++
	return r, nil
}

func (l *LimitOperator) Close(ctx *sql.Context) error { return l.input.Close(ctx) }

// SkipOperator discards the first Skip records of its input, then passes
// the remainder through unchanged.
type SkipOperator struct {
	input   Operator
	skip    int64
	skipped int64
}

func NewSkipOperator(input Operator, skip int64) *SkipOperator {
	return &SkipOperator{input: input, skip: skip}
}

func (s *SkipOperator) Schema() []sql.ColumnDef { return s.input.Schema() }

func (s *SkipOperator) Next(ctx *sql.Context) (sql.Record, error) {
	for s.skipped < s.skip {
		if _, err := s.input.Next(ctx); err != nil {
			return sql.Record{}, err
		}
		s.skipped++
	}
	return s.input.Next(ctx)
}

func (s *SkipOperator) Close(ctx *sql.Context) error { return s.input.Close(ctx) }

// SelectOperator projects its input down to the given field indexes.
type SelectOperator struct {
	schema  []sql.ColumnDef
	input   Operator
	indexes []int
}

func NewSelectOperator(input Operator, schema []sql.ColumnDef, indexes []int) *SelectOperator {
	return &SelectOperator{schema: schema, input: input, indexes: indexes}
}

func (s *SelectOperator) Schema() []sql.ColumnDef { return s.schema }

func (s *SelectOperator) Next(ctx *sql.Context) (sql.Record, error) {
	r, err := s.input.Next(ctx)
	if err != nil {
		return sql.Record{}, err
	}
	return r.Project(s.indexes...), nil
}

func (s *SelectOperator) Close(ctx *sql.Context) error { return s.input.Close(ctx) }
