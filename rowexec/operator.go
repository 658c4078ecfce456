// Package rowexec is the execution runtime: a graph of streaming
// operators that emit Records lazily, pulled one at a time by their
// downstream consumer. Every operator category from §4.4 of the spec
// (source, pipeline, pipeline breaker, merging pipeline) is a concrete
// Operator implementation here. Suspension points are explicit: Next
// blocks until a Record is ready, io.EOF, or an error.
package rowexec

import (
	"io"

	"github.com/cottontaildb/queryengine/sql"
)

// Operator is the streaming executor contract every physical node
// converts itself into. Next returns io.EOF once the stream is exhausted;
// any other error (an ExecutionFailure, a cancellation, ...) propagates
// upward without local recovery.
type Operator interface {
	Schema() []sql.ColumnDef
	Next(ctx *sql.Context) (sql.Record, error)
	Close(ctx *sql.Context) error
}

// Drain pulls every remaining record out of op, used by pipeline breakers
// that must consume their input fully before emitting anything.
func Drain(ctx *sql.Context, op Operator) ([]sql.Record, error) {
	var out []sql.Record
	for {
		if ctx.Cancelled() {
			return nil, errCancelled()
		}
		r, err := op.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}

// sliceOperator replays a pre-drained slice of Records; the common shape
// behind every pipeline breaker's output once it has finished consuming
// its input.
type sliceOperator struct {
	schema  []sql.ColumnDef
	records []sql.Record
	pos     int
}

func newSliceOperator(schema []sql.ColumnDef, records []sql.Record) *sliceOperator {
	return &sliceOperator{schema: schema, records: records}
}

func (s *sliceOperator) Schema() []sql.ColumnDef { return s.schema }

func (s *sliceOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if ctx.Cancelled() {
		return sql.Record{}, errCancelled()
	}
	if s.pos >= len(s.records) {
		return sql.Record{}, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

func (s *sliceOperator) Close(ctx *sql.Context) error { return nil }
