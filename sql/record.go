package sql

import "fmt"

// TupleId stably identifies a Record within an Entity. Partition boundaries
// and back-fetches (Fetch) are expressed in terms of TupleId ranges.
type TupleId uint64

// TupleIdRange is a half-open [Start, End) range of TupleIds, the unit a
// partitioned scan or index filter operates over.
type TupleIdRange struct {
	Start, End TupleId
}

func (r TupleIdRange) Contains(id TupleId) bool {
	return id >= r.Start && id < r.End
}

// Record is an ordered, immutable tuple of typed Values with a stable
// TupleId. Operators never mutate a Record received from an upstream
// operator; they assemble new Records when they need to change shape.
type Record struct {
	ID     TupleId
	Values []Value
}

// NewRecord builds a Record. The slice is taken by reference; callers that
// intend to keep mutating the backing array after handing the Record
// downstream must Copy first.
func NewRecord(id TupleId, values ...Value) Record {
	return Record{ID: id, Values: values}
}

// Copy returns a Record with its own backing array, safe to retain past the
// lifetime of the slice that produced it.
func (r Record) Copy() Record {
	cp := make([]Value, len(r.Values))
	copy(cp, r.Values)
	return Record{ID: r.ID, Values: cp}
}

// Project returns a new Record retaining only the values at the given
// column indexes, in order.
func (r Record) Project(indexes ...int) Record {
	out := make([]Value, len(indexes))
	for i, idx := range indexes {
		out[i] = r.Values[idx]
	}
	return Record{ID: r.ID, Values: out}
}

// Append returns a new Record with additional values appended; used by
// Fetch to graft deferred columns onto a scanned Record.
func (r Record) Append(values ...Value) Record {
	out := make([]Value, len(r.Values)+len(values))
	copy(out, r.Values)
	copy(out[len(r.Values):], values)
	return Record{ID: r.ID, Values: out}
}

func (r Record) String() string {
	return fmt.Sprintf("Record{id=%d, values=%v}", r.ID, r.Values)
}

// RecordCursor is a pull-based, closeable iterator over Records, the
// contract storage and indexes hand back to Scan/Filter. Next returns
// (Record{}, false, nil) at end of stream.
type RecordCursor interface {
	Next() (Record, bool, error)
	Close() error
}

// SliceCursor adapts a pre-materialised slice of Records into a
// RecordCursor; used by in-memory test doubles for Entity/Index.
type SliceCursor struct {
	records []Record
	pos     int
}

func NewSliceCursor(records []Record) *SliceCursor {
	return &SliceCursor{records: records}
}

func (c *SliceCursor) Next() (Record, bool, error) {
	if c.pos >= len(c.records) {
		return Record{}, false, nil
	}
	r := c.records[c.pos]
	c.pos++
	return r, true, nil
}

func (c *SliceCursor) Close() error { return nil }
