// Package trait defines the orthogonal properties attached to operator
// nodes: ordering, limits, and partitionability. Traits propagate from
// inputs unless an operator overrides them.
package trait

import "github.com/cottontaildb/queryengine/sql"

// Type keys a Trait within a Set.
type Type uint8

const (
	Order Type = iota
	Limit
	NotPartitionable
)

// Trait is the closed interface implemented by every stock trait.
type Trait interface {
	Type() Type
}

// Direction is the sort direction of one OrderTrait term.
type Direction uint8

const (
	Asc Direction = iota
	Desc
)

// OrderTerm pairs a column with its sort direction.
type OrderTerm struct {
	Column    sql.ColumnDef
	Direction Direction
}

// OrderTrait records that a stream is sorted by the given terms, in order.
type OrderTrait struct {
	Order []OrderTerm
}

func (OrderTrait) Type() Type { return Order }

// Satisfies reports whether this ordering is a prefix-compatible match for
// the demanded ordering (same columns, same directions, same order).
func (o OrderTrait) Satisfies(demand []OrderTerm) bool {
	if len(demand) > len(o.Order) {
		return false
	}
	for i, d := range demand {
		if !o.Order[i].Column.Equal(d.Column) || o.Order[i].Direction != d.Direction {
			return false
		}
	}
	return true
}

// LimitTrait records that a stream emits at most Limit records.
type LimitTrait struct {
	Limit int64
}

func (LimitTrait) Type() Type { return Limit }

// NotPartitionableTrait marks a subtree (and everything downstream of it)
// as ineligible for the planner's partitioning pass.
type NotPartitionableTrait struct{}

func (NotPartitionableTrait) Type() Type { return NotPartitionable }

// Set is the trait map carried by an operator node, keyed by Type.
type Set map[Type]Trait

// NewSet builds a Set from the given traits, keyed by their own Type().
func NewSet(traits ...Trait) Set {
	s := make(Set, len(traits))
	for _, t := range traits {
		s[t.Type()] = t
	}
	return s
}

// Has reports whether the set carries a trait of the given type.
func (s Set) Has(t Type) bool {
	_, ok := s[t]
	return ok
}

// Get returns the trait of the given type, if present.
func (s Set) Get(t Type) (Trait, bool) {
	tr, ok := s[t]
	return tr, ok
}

// With returns a copy of s with t added (overwriting any existing trait of
// the same Type()).
func (s Set) With(t Trait) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[t.Type()] = t
	return out
}

// Without returns a copy of s with the trait of type t removed.
func (s Set) Without(t Type) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if k != t {
			out[k] = v
		}
	}
	return out
}

// PropagateThrough computes the trait set seen downstream of a pipeline
// operator given its input's traits, when that operator neither sorts nor
// bounds its output on its own (Filter, Fetch, Function, Select): Order
// passes through, Limit is dropped unless keepLimit is true (Filter cannot
// generally prove its selectivity preserves a Limit upstream, so a Limit
// trait must be re-derived rather than blindly inherited), and any
// NotPartitionable is inherited unconditionally.
func PropagateThrough(in Set, keepLimit bool) Set {
	out := make(Set, len(in))
	if o, ok := in.Get(Order); ok {
		out[Order] = o
	}
	if keepLimit {
		if l, ok := in.Get(Limit); ok {
			out[Limit] = l
		}
	}
	if in.Has(NotPartitionable) {
		out[NotPartitionable] = NotPartitionableTrait{}
	}
	return out
}

// MergeDownstream combines the trait sets of several sibling partitions as
// seen by a Merge: any partition tagged NotPartitionable makes the merge
// (and everything downstream) NotPartitionable too.
func MergeDownstream(inputs ...Set) Set {
	out := Set{}
	for _, in := range inputs {
		if in.Has(NotPartitionable) {
			out[NotPartitionable] = NotPartitionableTrait{}
		}
	}
	return out
}
