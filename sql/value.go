package sql

import (
	"bytes"
	"fmt"
	"math/cmplx"

	"github.com/spf13/cast"
)

// Value is a typed scalar or vector value carried by a Record column or a
// literal Binding. The zero Value is a null of Invalid type; Null() builds
// a well-typed null.
type Value struct {
	typ  Type
	data interface{}
	null bool
}

// NewValue wraps data as a Value of the given type.
func NewValue(t Type, data interface{}) Value {
	return Value{typ: t, data: data}
}

// Null returns a null Value of the given type.
func Null(t Type) Value {
	return Value{typ: t, null: true}
}

func (v Value) Type() Type        { return v.typ }
func (v Value) IsNull() bool      { return v.null }
func (v Value) Raw() interface{}  { return v.data }
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.data)
}

// AsInt64 coerces a numeric Value to int64, used by functions and
// aggregations that need a common integral representation.
func (v Value) AsInt64() (int64, error) {
	if v.null {
		return 0, fmt.Errorf("cannot convert null to int64")
	}
	return cast.ToInt64E(v.data)
}

// AsFloat64 coerces a numeric Value to float64.
func (v Value) AsFloat64() (float64, error) {
	if v.null {
		return 0, fmt.Errorf("cannot convert null to float64")
	}
	return cast.ToFloat64E(v.data)
}

// AsFloatVector returns the value's payload as a []float64, converting
// element-wise from any numeric vector representation. Used by proximity
// predicates and distance kernels' callers.
func (v Value) AsFloatVector() ([]float64, error) {
	if v.null {
		return nil, fmt.Errorf("cannot convert null to vector")
	}
	switch d := v.data.(type) {
	case []float64:
		return d, nil
	case []float32:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	case []int:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	case []int64:
		out := make([]float64, len(d))
		for i, x := range d {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value of type %s is not a vector", v.typ)
	}
}

// Equal reports whether two values are structurally equal: same type, same
// nullness, and (if non-null) the same payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.null != o.null {
		return false
	}
	if v.null {
		return true
	}
	switch a := v.data.(type) {
	case []byte:
		b, ok := o.data.([]byte)
		return ok && bytes.Equal(a, b)
	case complex128:
		b, ok := o.data.(complex128)
		return ok && a == b
	default:
		return v.data == o.data
	}
}

// Compare orders two non-null, same-type values; used by Sort and by
// selectivity/range reasoning. Returns -1, 0, 1. Complex numbers compare
// by magnitude, which is useful for stable ordering rather than a
// meaningful total order; vector values are not comparable and yield an
// error.
func (v Value) Compare(o Value) (int, error) {
	if v.null && o.null {
		return 0, nil
	}
	if v.null {
		return -1, nil
	}
	if o.null {
		return 1, nil
	}
	if v.typ != o.typ {
		return 0, fmt.Errorf("cannot compare %s with %s", v.typ, o.typ)
	}
	switch v.typ {
	case String, ByteString:
		a, _ := cast.ToStringE(v.data)
		b, _ := cast.ToStringE(o.data)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		default:
			return 0, nil
		}
	case Boolean:
		a := v.data.(bool)
		b := o.data.(bool)
		if a == b {
			return 0, nil
		}
		if !a {
			return -1, nil
		}
		return 1, nil
	case Complex32, Complex64:
		a := cmplx.Abs(v.data.(complex128))
		b := cmplx.Abs(o.data.(complex128))
		return compareFloat(a, b), nil
	default:
		a, err := v.AsFloat64()
		if err != nil {
			return 0, err
		}
		b, err := o.AsFloat64()
		if err != nil {
			return 0, err
		}
		return compareFloat(a, b), nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
