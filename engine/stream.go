package engine

import (
	"io"

	"github.com/cottontaildb/queryengine/rowexec"
	"github.com/cottontaildb/queryengine/sql"
)

// Operator is rowexec's streaming operator contract, re-exported so a
// caller driving an Engine never needs to import rowexec directly.
type Operator = rowexec.Operator

// RecordStream is the §6 "stream<Record>" handle: a pull-based iterator
// over one operator tree's output, yielding one sql.Record per Next call
// and io.EOF once exhausted. It owns no goroutine and buffers nothing —
// Next is exactly op.Next, the same suspension-point contract every
// rowexec.Operator already honours.
type RecordStream struct {
	ctx *sql.Context
	op  Operator
}

// Run wraps op in a RecordStream over ctx. This is the streaming half of
// §6: bind/PlanAndSelect/ToOperatorTree build the tree, Run drains it.
func Run(ctx *sql.Context, op Operator) *RecordStream {
	return &RecordStream{ctx: ctx, op: op}
}

// Next returns the next Record, io.EOF when the stream is exhausted, or
// any other error as an execution failure propagated from the operator
// graph.
func (s *RecordStream) Next() (sql.Record, error) {
	return s.op.Next(s.ctx)
}

// Close releases every resource the underlying operator tree holds.
func (s *RecordStream) Close() error {
	return s.op.Close(s.ctx)
}

// Collect drains the stream fully, for callers (mostly tests) that want
// every record at once rather than one at a time.
func Collect(ctx *sql.Context, op Operator) ([]sql.Record, error) {
	s := Run(ctx, op)
	var out []sql.Record
	for {
		r, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}
