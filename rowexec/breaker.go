package rowexec

import (
	"fmt"
	"io"

	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

// SortOperator is a pipeline breaker: it drains its input fully, sorts by
// the given terms, then replays it.
type SortOperator struct {
	input Operator
	order []trait.OrderTerm
	index map[string]int
	out   Operator
}

func NewSortOperator(input Operator, order []trait.OrderTerm) *SortOperator {
	idx := make(map[string]int, len(input.Schema()))
	for i, c := range input.Schema() {
		idx[c.Name.String()] = i
	}
	return &SortOperator{input: input, order: order, index: idx}
}

func (s *SortOperator) Schema() []sql.ColumnDef { return s.input.Schema() }

func (s *SortOperator) drain(ctx *sql.Context) error {
	if s.out != nil {
		return nil
	}
	records, err := Drain(ctx, s.input)
	if err != nil {
		return err
	}
	sorted, err := sortRecords(records, s.order, s.index)
	if err != nil {
		return err
	}
	s.out = newSliceOperator(s.Schema(), sorted)
	return nil
}

func (s *SortOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if err := s.drain(ctx); err != nil {
		return sql.Record{}, err
	}
	return s.out.Next(ctx)
}

func (s *SortOperator) Close(ctx *sql.Context) error { return s.input.Close(ctx) }

func sortRecords(records []sql.Record, order []trait.OrderTerm, index map[string]int) ([]sql.Record, error) {
	out := make([]sql.Record, len(records))
	copy(out, records)
	var sortErr error
	less := func(i, j int) bool {
		for _, term := range order {
			idx, ok := index[term.Column.Name.String()]
			if !ok {
				continue
			}
			c, err := out[i].Values[idx].Compare(out[j].Values[idx])
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if term.Direction == trait.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	}
	stableSort(out, less)
	return out, sortErr
}

// stableSort is a tiny insertion-based stable sort, adequate for the
// modest in-memory batches a pipeline breaker holds; avoids pulling in
// sort.Slice's reflection-based comparator indirection for a hot path.
func stableSort(records []sql.Record, less func(i, j int) bool) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}

// CountOperator is a pipeline breaker that drains its input and emits a
// single record holding the row count.
type CountOperator struct {
	input Operator
	done  bool
	out   sql.Record
}

func NewCountOperator(input Operator) *CountOperator {
	return &CountOperator{input: input}
}

func (c *CountOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("count"), Type: sql.Long}}
}

func (c *CountOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if c.done {
		return sql.Record{}, io.EOF
	}
	records, err := Drain(ctx, c.input)
	if err != nil {
		return sql.Record{}, err
	}
	c.done = true
	c.out = sql.NewRecord(0, sql.NewValue(sql.Long, int64(len(records))))
	return c.out, nil
}

func (c *CountOperator) Close(ctx *sql.Context) error { return c.input.Close(ctx) }

// ExistsOperator is a pipeline breaker emitting a single boolean record:
// whether its input produced at least one record.
type ExistsOperator struct {
	input Operator
	done  bool
}

func NewExistsOperator(input Operator) *ExistsOperator {
	return &ExistsOperator{input: input}
}

func (e *ExistsOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName("exists"), Type: sql.Boolean}}
}

func (e *ExistsOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if e.done {
		return sql.Record{}, io.EOF
	}
	e.done = true
	_, err := e.input.Next(ctx)
	if err == io.EOF {
		return sql.NewRecord(0, sql.NewValue(sql.Boolean, false)), nil
	}
	if err != nil {
		return sql.Record{}, err
	}
	return sql.NewRecord(0, sql.NewValue(sql.Boolean, true)), nil
}

func (e *ExistsOperator) Close(ctx *sql.Context) error { return e.input.Close(ctx) }

// AggFunc names the supported numeric aggregations.
type AggFunc uint8

const (
	Sum AggFunc = iota
	Mean
	Min
	Max
)

func (a AggFunc) String() string {
	switch a {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "agg"
	}
}

// AggregateOperator is a pipeline breaker computing one of
// Sum/Mean/Min/Max over a single numeric column.
type AggregateOperator struct {
	input  Operator
	col    int
	fn     AggFunc
	outTyp sql.Type
	done   bool
}

func NewAggregateOperator(input Operator, col int, fn AggFunc, outTyp sql.Type) *AggregateOperator {
	return &AggregateOperator{input: input, col: col, fn: fn, outTyp: outTyp}
}

func (a *AggregateOperator) Schema() []sql.ColumnDef {
	return []sql.ColumnDef{{Name: mustName(a.fn.String()), Type: a.outTyp}}
}

func (a *AggregateOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if a.done {
		return sql.Record{}, io.EOF
	}
	records, err := Drain(ctx, a.input)
	if err != nil {
		return sql.Record{}, err
	}
	a.done = true

	var sum float64
	var count int64
	var min, max float64
	first := true
	for _, r := range records {
		v := r.Values[a.col]
		if v.IsNull() {
			continue
		}
		f, err := v.AsFloat64()
		if err != nil {
			return sql.Record{}, err
		}
		sum += f
		count++
		if first || f < min {
			min = f
		}
		if first || f > max {
			max = f
		}
		first = false
	}

	var result float64
	switch a.fn {
	case Sum:
		result = sum
	case Mean:
		if count > 0 {
			result = sum / float64(count)
		}
	case Min:
		result = min
	case Max:
		result = max
	}
	return sql.NewRecord(0, sql.NewValue(a.outTyp, result)), nil
}

func (a *AggregateOperator) Close(ctx *sql.Context) error { return a.input.Close(ctx) }

// SelectDistinctOperator is a pipeline breaker: it drains its input and
// emits each distinct projected tuple once.
type SelectDistinctOperator struct {
	input   Operator
	schema  []sql.ColumnDef
	indexes []int
	out     Operator
}

func NewSelectDistinctOperator(input Operator, schema []sql.ColumnDef, indexes []int) *SelectDistinctOperator {
	return &SelectDistinctOperator{input: input, schema: schema, indexes: indexes}
}

func (s *SelectDistinctOperator) Schema() []sql.ColumnDef { return s.schema }

func (s *SelectDistinctOperator) Next(ctx *sql.Context) (sql.Record, error) {
	if s.out == nil {
		records, err := Drain(ctx, s.input)
		if err != nil {
			return sql.Record{}, err
		}
		seen := make(map[string]bool, len(records))
		var distinct []sql.Record
		for _, r := range records {
			proj := r.Project(s.indexes...)
			key := fmt.Sprint(proj.Values)
			if seen[key] {
				continue
			}
			seen[key] = true
			distinct = append(distinct, proj)
		}
		s.out = newSliceOperator(s.schema, distinct)
	}
	return s.out.Next(ctx)
}

func (s *SelectDistinctOperator) Close(ctx *sql.Context) error { return s.input.Close(ctx) }

func mustName(s string) sql.Name {
	n, err := sql.NewName(sql.ColumnName, s)
	if err != nil {
		panic(err)
	}
	return n
}
