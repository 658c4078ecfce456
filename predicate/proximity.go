package predicate

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure"

	"github.com/cottontaildb/queryengine/sql"
)

// ProximityKind distinguishes a nearest-neighbour search from a
// farthest-neighbour search.
type ProximityKind uint8

const (
	NNS ProximityKind = iota
	FNS
)

// Proximity is a k-NN/k-FN predicate over a single vector column.
type Proximity struct {
	Kind     ProximityKind
	Column   sql.ColumnDef
	K        int
	Distance Distance
	Query    []float64
}

func NewNNS(col sql.ColumnDef, k int, dist Distance, query []float64) Proximity {
	return Proximity{Kind: NNS, Column: col, K: k, Distance: dist, Query: query}
}

func NewFNS(col sql.ColumnDef, k int, dist Distance, query []float64) Proximity {
	return Proximity{Kind: FNS, Column: col, K: k, Distance: dist, Query: query}
}

func (p Proximity) Columns() sql.ColumnSet {
	return sql.NewColumnSet(p.Column)
}

func (p Proximity) Digest() (uint64, error) {
	return hashstructure.Hash(p, nil)
}

func (p Proximity) String() string {
	name := "NNS"
	if p.Kind == FNS {
		name = "FNS"
	}
	return fmt.Sprintf("%s(%s, k=%d, %s)", name, p.Column.Name, p.K, p.Distance)
}

// Scored pairs a Record with its computed distance to the query vector.
type Scored struct {
	Record   sql.Record
	Distance float64
}

// TopK consumes candidates and returns the K closest (NNS) or K farthest
// (FNS) records in ascending-distance (NNS) or descending-distance (FNS)
// order. It is the evaluation kernel of the reference vector index
// (catalog/vectorindex).
func (p Proximity) TopK(candidates []sql.Record, colIndex int) ([]Scored, error) {
	scored := make([]Scored, 0, len(candidates))
	for _, r := range candidates {
		vec, err := r.Values[colIndex].AsFloatVector()
		if err != nil {
			return nil, err
		}
		d, err := p.Distance.Compute(p.Query, vec)
		if err != nil {
			return nil, err
		}
		scored = append(scored, Scored{Record: r, Distance: d})
	}
	if p.Kind == NNS {
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Distance < scored[j].Distance })
	} else {
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Distance > scored[j].Distance })
	}
	if p.K < len(scored) {
		scored = scored[:p.K]
	}
	return scored, nil
}
