package plancache

import (
	"fmt"

	"github.com/mitchellh/hashstructure"

	"github.com/cottontaildb/queryengine/catalog"
	"github.com/cottontaildb/queryengine/plan"
	"github.com/cottontaildb/queryengine/sql"
	"github.com/cottontaildb/queryengine/trait"
)

func colNames(cols []sql.ColumnDef) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name.String()
	}
	return names
}

// Digest computes the structural digest of a logical tree that keys the
// plan cache: two queries that bind to equal (by plan.Node.Equal) trees
// must hash identically, and two structurally different trees should
// not collide in practice. Hashing walks the tree itself rather than
// calling hashstructure.Hash on a Node directly, since several node
// kinds (Filter's Selectivity estimator, a Function's implementation)
// carry func fields hashstructure cannot traverse.
func Digest(root plan.Node) (uint64, error) {
	children := root.Inputs()
	childDigests := make([]uint64, len(children))
	for i, c := range children {
		d, err := Digest(c)
		if err != nil {
			return 0, err
		}
		childDigests[i] = d
	}

	fields, err := nodeFields(root)
	if err != nil {
		return 0, err
	}

	return hashstructure.Hash(struct {
		Kind     string
		Fields   interface{}
		Children []uint64
	}{fmt.Sprintf("%T", root), fields, childDigests}, nil)
}

// nodeFields extracts the scalar, hashable identity of one node — its own
// fields, excluding its children and anything unhashable (funcs,
// unexported internals). Every external collaborator (Entity, Index,
// Mutator) contributes its own DBOName or, lacking one, a name derived
// from its dynamic type plus pointer identity, which is enough to
// distinguish collaborators within one running catalogue even though it
// wouldn't survive a process restart.
func nodeFields(n plan.Node) (interface{}, error) {
	switch t := n.(type) {
	case *plan.EntityScan:
		return struct {
			Entity string
			Cols   []string
		}{entityKey(t.Entity), colNames(t.Cols.Columns())}, nil
	case *plan.EntitySample:
		return struct {
			Entity string
			P      float64
			Seed   uint64
			Cols   []string
		}{entityKey(t.Entity), t.P, t.Seed, colNames(t.Cols.Columns())}, nil
	case *plan.IndexScan:
		pd, err := t.Predicate.Digest()
		if err != nil {
			return nil, err
		}
		return struct {
			Index     string
			Predicate uint64
		}{indexKey(t.Index), pd}, nil
	case *plan.Fetch:
		return struct {
			Entity string
			Add    []string
		}{entityKey(t.Entity), colNames(t.Add.Columns())}, nil
	case *plan.Limit:
		return t.N, nil
	case *plan.Skip:
		return t.N, nil
	case *plan.Sort:
		return sortKey(t.SortOn), nil
	case *plan.Filter:
		return t.Predicate.Digest()
	case *plan.FilterOnSubSelect:
		pd, err := t.Predicate.Digest()
		if err != nil {
			return nil, err
		}
		branches := make([]struct {
			BindingID int
			IsIn      bool
		}, len(t.Branches))
		for i, b := range t.Branches {
			branches[i] = struct {
				BindingID int
				IsIn      bool
			}{b.BindingID, b.IsIn}
		}
		return struct {
			Predicate uint64
			Branches  interface{}
		}{pd, branches}, nil
	case *plan.Select:
		return colNames(t.Cols.Columns()), nil
	case *plan.SelectDistinct:
		return colNames(t.Cols.Columns()), nil
	case *plan.Count:
		return "count", nil
	case *plan.Exists:
		return "exists", nil
	case *plan.Aggregate:
		return struct {
			Fn  string
			Col string
		}{t.Fn.String(), t.Column.Name.String()}, nil
	case *plan.Function:
		return struct {
			Sig string
			Out string
		}{t.Fn.Signature().String(), t.Out.Name.String()}, nil
	case *plan.NestedFunction:
		return t.Fn.Signature().String(), nil
	case *plan.Insert:
		return mutatorKey(t.Target), nil
	case *plan.Update:
		return struct {
			Half    int
			Mutator string
		}{t.Half, mutatorKey(t.Target)}, nil
	case *plan.Delete:
		return mutatorKey(t.Target), nil
	case *plan.Merge:
		return "merge", nil
	case *plan.MergeLimitingSort:
		return struct {
			Order interface{}
			Limit int64
		}{sortKey(t.Order), t.Limit}, nil
	case *plan.MetaCount:
		return entityKey(t.Entity), nil
	default:
		return nil, fmt.Errorf("plancache: digest: unhandled node kind %T", n)
	}
}

func entityKey(e catalog.Entity) string { return e.DBOName().String() }
func indexKey(i catalog.Index) string   { return i.DBOName().String() }

// mutatorKey falls back to pointer identity: catalog.Mutator carries no
// DBOName, and within one running catalogue a Mutator's identity is
// exactly which concrete collaborator a caller handed to New{Insert,
// Update,Delete} — stable for as long as the in-memory plan cache lives,
// even though it wouldn't survive a process restart (the durable
// BoltDB-backed cache never persists DML plans for this reason).
func mutatorKey(m catalog.Mutator) string {
	return fmt.Sprintf("%p", m)
}

func sortKey(terms []trait.OrderTerm) interface{} {
	keys := make([]struct {
		Col string
		Dir trait.Direction
	}, len(terms))
	for i, t := range terms {
		keys[i] = struct {
			Col string
			Dir trait.Direction
		}{t.Column.Name.String(), t.Direction}
	}
	return keys
}
