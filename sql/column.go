package sql

import "fmt"

// ColumnDef is a qualified column definition: its name, element type, and
// nullability. ColumnDef values are compared by Name+Type+Nullable and are
// used as the shared currency between operators for "produces"/"requires"
// sets.
type ColumnDef struct {
	Name       Name
	Type       Type
	Nullable   bool
	VectorSize int // element count, meaningful only when Type.IsVector()
}

func (c ColumnDef) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}

func (c ColumnDef) Equal(o ColumnDef) bool {
	return c.Name.Equal(o.Name) && c.Type == o.Type && c.Nullable == o.Nullable
}

// ColumnSet is an order-preserving, de-duplicated set of ColumnDefs used
// throughout the operator tree for produced/required column bookkeeping.
type ColumnSet struct {
	cols []ColumnDef
}

func NewColumnSet(cols ...ColumnDef) ColumnSet {
	s := ColumnSet{}
	for _, c := range cols {
		s = s.Add(c)
	}
	return s
}

func (s ColumnSet) Add(c ColumnDef) ColumnSet {
	for _, e := range s.cols {
		if e.Equal(c) {
			return s
		}
	}
	out := make([]ColumnDef, len(s.cols), len(s.cols)+1)
	copy(out, s.cols)
	out = append(out, c)
	return ColumnSet{cols: out}
}

func (s ColumnSet) Columns() []ColumnDef {
	out := make([]ColumnDef, len(s.cols))
	copy(out, s.cols)
	return out
}

func (s ColumnSet) Contains(c ColumnDef) bool {
	for _, e := range s.cols {
		if e.Equal(c) {
			return true
		}
	}
	return false
}

func (s ColumnSet) Len() int { return len(s.cols) }

// SupersetOf reports whether s contains every column of other.
func (s ColumnSet) SupersetOf(other ColumnSet) bool {
	for _, c := range other.cols {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// Union returns a new ColumnSet containing the columns of both sets.
func (s ColumnSet) Union(other ColumnSet) ColumnSet {
	out := s
	for _, c := range other.cols {
		out = out.Add(c)
	}
	return out
}

// Minus returns the columns of s that are not present in other.
func (s ColumnSet) Minus(other ColumnSet) ColumnSet {
	out := ColumnSet{}
	for _, c := range s.cols {
		if !other.Contains(c) {
			out = out.Add(c)
		}
	}
	return out
}

// Intersect returns the columns present in both sets.
func (s ColumnSet) Intersect(other ColumnSet) ColumnSet {
	out := ColumnSet{}
	for _, c := range s.cols {
		if other.Contains(c) {
			out = out.Add(c)
		}
	}
	return out
}
