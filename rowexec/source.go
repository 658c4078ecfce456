package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// EntityScanOperator is the source operator over catalog.Entity.Scan. It
// may suspend while waiting for the storage iterator.
type EntityScanOperator struct {
	schema   []sql.ColumnDef
	entity   catalog.Entity
	part     *catalog.Partition
	cursor   sql.RecordCursor
	opened   bool
}

func NewEntityScanOperator(schema []sql.ColumnDef, entity catalog.Entity, part *catalog.Partition) *EntityScanOperator {
	return &EntityScanOperator{schema: schema, entity: entity, part: part}
}

func (s *EntityScanOperator) Schema() []sql.ColumnDef { return s.schema }

func (s *EntityScanOperator) open(ctx *sql.Context) error {
	if s.opened {
		return nil
	}
	cursor, err := s.entity.Scan(ctx, s.schema)
	if err != nil {
		return executionFailure(err)
	}
	s.cursor = cursor
	s.opened = true
	return nil
}

func (s *EntityScanOperator) Next(ctx *sql.Context) (sql.Record, error) {
	child, finish := ctx.StartSpan("EntityScan.Next")
	defer finish()
	if ctx.Cancelled() {
		return sql.Record{}, errCancelled()
	}
	if err := s.open(child); err != nil {
		return sql.Record{}, err
	}
	r, ok, err := s.cursor.Next()
	if err != nil {
		return sql.Record{}, executionFailure(err)
	}
	if !ok {
		return sql.Record{}, io.EOF
	}
	if s.part != nil {
		rng, err := s.entity.PartitionFor(s.part.Index, s.part.Total)
		if err != nil {
			return sql.Record{}, executionFailure(err)
		}
		for !rng.Contains(r.ID) {
			r, ok, err = s.cursor.Next()
			if err != nil {
				return sql.Record{}, executionFailure(err)
			}
			if !ok {
				return sql.Record{}, io.EOF
			}
		}
	}
	return r, nil
}

func (s *EntityScanOperator) Close(ctx *sql.Context) error {
	if s.cursor == nil {
		return nil
	}
	return s.cursor.Close()
}

// EntitySampleOperator yields each scanned record with independent
// Bernoulli probability p, using a seedable splittable PRNG. The seed is
// part of the operator's identity, so two EntitySampleOperators built with
// equal (entity, p, seed) produce identical emitted sequences.
type EntitySampleOperator struct {
	inner *EntityScanOperator
	p     float64
	rng   *splitMix64
}

func NewEntitySampleOperator(schema []sql.ColumnDef, entity catalog.Entity, part *catalog.Partition, p float64, seed uint64) *EntitySampleOperator {
	return &EntitySampleOperator{
		inner: NewEntityScanOperator(schema, entity, part),
		p:     p,
		rng:   newSplitMix64(seed),
	}
}

func (s *EntitySampleOperator) Schema() []sql.ColumnDef { return s.inner.Schema() }

func (s *EntitySampleOperator) Next(ctx *sql.Context) (sql.Record, error) {
	for {
		if ctx.Cancelled() {
			return sql.Record{}, errCancelled()
		}
		r, err := s.inner.Next(ctx)
		if err != nil {
			return sql.Record{}, err
		}
		if s.rng.nextFloat() < s.p {
			return r, nil
		}
	}
}

func (s *EntitySampleOperator) Close(ctx *sql.Context) error { return s.inner.Close(ctx) }

// IndexScanOperator is the source operator produced by the BooleanIndexScan
// rule, delegating to catalog.Index.Filter. A partitioned IndexScan
// passes its partition to Index.Filter, which restricts the result to
// that partition's TupleId range.
type IndexScanOperator struct {
	schema []sql.ColumnDef
	index  catalog.Index
	pred   predicate.Predicate
	part   *catalog.Partition
	cursor sql.RecordCursor
	opened bool
}

func NewIndexScanOperator(schema []sql.ColumnDef, index catalog.Index, pred predicate.Predicate, part *catalog.Partition) *IndexScanOperator {
	return &IndexScanOperator{schema: schema, index: index, pred: pred, part: part}
}

func (s *IndexScanOperator) Schema() []sql.ColumnDef { return s.schema }

func (s *IndexScanOperator) open(ctx *sql.Context) error {
	if s.opened {
		return nil
	}
	cursor, err := s.index.Filter(ctx, s.pred, s.part)
	if err != nil {
		return executionFailure(err)
	}
	s.cursor = cursor
	s.opened = true
	return nil
}

func (s *IndexScanOperator) Next(ctx *sql.Context) (sql.Record, error) {
	child, finish := ctx.StartSpan("IndexScan.Next")
	defer finish()
	if ctx.Cancelled() {
		return sql.Record{}, errCancelled()
	}
	if err := s.open(child); err != nil {
		return sql.Record{}, err
	}
	r, ok, err := s.cursor.Next()
	if err != nil {
		return sql.Record{}, executionFailure(err)
	}
	if !ok {
		return sql.Record{}, io.EOF
	}
	return r, nil
}

func (s *IndexScanOperator) Close(ctx *sql.Context) error {
	if s.cursor == nil {
		return nil
	}
	return s.cursor.Close()
}
