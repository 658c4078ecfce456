package function

import (
	"fmt"

	"github.com/cottontaildb/queryengine/predicate"
	"github.com/cottontaildb/queryengine/sql"
)

// distanceFunction wraps a predicate.Distance kernel as a closed Function
// of two vector arguments, letting a Function operator materialise a
// distance column the way any other scalar function would.
type distanceFunction struct {
	kernel  predicate.Distance
	argType sql.Type
}

func (d distanceFunction) Signature() Signature {
	return Signature{Name: string(d.kernel), Args: []sql.Type{d.argType, d.argType}, Returns: sql.Double}
}

func (d distanceFunction) Eval(args []sql.Value) (sql.Value, error) {
	if len(args) != 2 {
		return sql.Value{}, fmt.Errorf("%s: expected 2 arguments, got %d", d.kernel, len(args))
	}
	a, err := args[0].AsFloatVector()
	if err != nil {
		return sql.Value{}, err
	}
	b, err := args[1].AsFloatVector()
	if err != nil {
		return sql.Value{}, err
	}
	dist, err := d.kernel.Compute(a, b)
	if err != nil {
		return sql.Value{}, err
	}
	return sql.NewValue(sql.Double, dist), nil
}

// DistanceGenerator resolves an open "<kernel>(vector, vector)" call site
// into a closed distanceFunction for whichever vector element type the
// call site asks for, without the registry needing one Function instance
// per concrete vector type.
type DistanceGenerator struct{}

var vectorTypes = []sql.Type{
	sql.VectorFloat, sql.VectorDouble, sql.VectorInt, sql.VectorLong,
}

func (DistanceGenerator) Resolve(open OpenSignature) ([]Signature, bool) {
	switch predicate.Distance(open.Name) {
	case predicate.Euclidean, predicate.Manhattan, predicate.Cosine:
	default:
		return nil, false
	}
	if len(open.Args) != 2 {
		return nil, false
	}
	var out []Signature
	for _, t := range vectorTypes {
		if open.Args[0].matches(t) && open.Args[1].matches(t) {
			out = append(out, distanceFunction{kernel: predicate.Distance(open.Name), argType: t}.Signature())
		}
	}
	return out, len(out) > 0
}

// RegisterDistanceFunctions installs one distanceFunction per
// (kernel, vector type) pair directly, for registries that skip the
// open-signature resolution path and want Obtain to work immediately.
func RegisterDistanceFunctions(r *Registry) error {
	for _, kernel := range []predicate.Distance{predicate.Euclidean, predicate.Manhattan, predicate.Cosine} {
		for _, t := range vectorTypes {
			if err := r.Register(distanceFunction{kernel: kernel, argType: t}); err != nil {
				return err
			}
		}
	}
	r.RegisterGenerator(DistanceGenerator{})
	return nil
}
