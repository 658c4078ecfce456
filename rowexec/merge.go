package rowexec

import (
	"io"
	"sync"

	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// mergeItem is what a partition task hands to the merge: one record or
// one terminal error.
type mergeItem struct {
	rec sql.Record
	err error
}

// MergeOperator is the merging pipeline that joins several partition
// streams; the order of the merged output is unspecified. Each partition
// subtree runs as its own task (one goroutine pulling the subtree to
// completion), so sibling partitions genuinely execute in parallel;
// within each task the operator pipeline stays single-threaded, per the
// cooperative execution model.
type MergeOperator struct {
	inputs []Operator
	schema []sql.ColumnDef

	start    sync.Once
	quitOnce sync.Once
	items    chan mergeItem
	quit     chan struct{}
}

func NewMergeOperator(inputs []Operator) *MergeOperator {
	var schema []sql.ColumnDef
	if len(inputs) > 0 {
		schema = inputs[0].Schema()
	}
	return &MergeOperator{inputs: inputs, schema: schema, quit: make(chan struct{})}
}

func (m *MergeOperator) Schema() []sql.ColumnDef { return m.schema }

// launch starts one task per partition. Every task pulls its subtree to
// exhaustion; the items channel closes once all of them are done.
func (m *MergeOperator) launch(ctx *sql.Context) {
	m.items = make(chan mergeItem)
	var wg sync.WaitGroup
	for _, in := range m.inputs {
		wg.Add(1)
		go func(in Operator) {
			defer wg.Done()
			for {
				r, err := in.Next(ctx)
				if err == io.EOF {
					return
				}
				select {
				case m.items <- mergeItem{rec: r, err: err}:
					if err != nil {
						return
					}
				case <-m.quit:
					return
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(m.items)
	}()
}

func (m *MergeOperator) Next(ctx *sql.Context) (sql.Record, error) {
	m.start.Do(func() { m.launch(ctx) })
	select {
	case it, ok := <-m.items:
		if !ok {
			return sql.Record{}, io.EOF
		}
		if it.err != nil {
			return sql.Record{}, it.err
		}
		return it.rec, nil
	case <-ctx.Done():
		return sql.Record{}, errCancelled()
	}
}

// Close stops every partition task and closes the underlying cursors.
func (m *MergeOperator) Close(ctx *sql.Context) error {
	m.quitOnce.Do(func() { close(m.quit) })
	var firstErr error
	for _, in := range m.inputs {
		if err := in.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// MergeLimitingSortOperator is a merging pipeline breaker: it drains every
// partition, sorts the union by the given order (a sort-preserving
// heap-merge of already-sorted partitions would be the streaming-friendly
// algorithm; this implementation drains-then-sorts for simplicity, which
// the spec's open question on tryPartition's OrderTrait handling leaves
// unmandated either way) and emits only the first limit records.
type MergeLimitingSortOperator struct {
	inputs []Operator
	order  []trait.OrderTerm
	limit  int64
	schema []sql.ColumnDef
	out    Operator
}

func NewMergeLimitingSortOperator(inputs []Operator, order []trait.OrderTerm, limit int64) *MergeLimitingSortOperator {
	var schema []sql.ColumnDef
	if len(inputs) > 0 {
		schema = inputs[0].Schema()
	}
	return &MergeLimitingSortOperator{inputs: inputs, order: order, limit: limit, schema: schema}
}

func (m *MergeLimitingSortOperator) Schema() []sql.ColumnDef { return m.schema }

func (m *MergeLimitingSortOperator) drain(ctx *sql.Context) error {
	if m.out != nil {
		return nil
	}
	var all []sql.Record
	for _, in := range m.inputs {
		records, err := Drain(ctx, in)
		if err != nil {
			return err
		}
		all = append(all, records...)
	}
	index := make(map[string]int, len(m.schema))
	for i, c := range m.schema {
		index[c.Name.String()] = i
	}
	sorted, err := sortRecords(all, m.order, index)
	if err != nil {
		return err
	}
	if int64(len(sorted)) > m.limit {
		sorted = sorted[:m.limit]
	}
	m.out = newSliceOperator(m.schema, sorted)
	return nil
}

func (m *MergeLimitingSortOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if err := m.drain(ctx); err != nil {
		return sql.Record{}, err
	}
	return m.out.Next(ctx)
}

func (m *MergeLimitingSortOperator) Close(ctx *sql.Context) error {
	var firstErr error
	for _, in := range m.inputs {
		if err := in.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
