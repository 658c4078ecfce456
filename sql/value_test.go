package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValueEqualSameTypeAndPayload checks structural equality: same type
// tag, same nullness, same payload.
func TestValueEqualSameTypeAndPayload(t *testing.T) {
	require := require.New(t)

	require.True(NewValue(Int, int64(1)).Equal(NewValue(Int, int64(1))))
	require.False(NewValue(Int, int64(1)).Equal(NewValue(Int, int64(2))))
	require.False(NewValue(Int, int64(1)).Equal(NewValue(Long, int64(1))), "types differ")
	require.True(Null(Int).Equal(Null(Int)))
	require.False(Null(Int).Equal(NewValue(Int, int64(0))))
}

// TestValueCompareNumericAndString checks Compare's total order for the
// kinds Sort relies on: nulls first, then the natural per-type order.
func TestValueCompareNumericAndString(t *testing.T) {
	require := require.New(t)

	c, err := NewValue(Int, int64(1)).Compare(NewValue(Int, int64(2)))
	require.NoError(err)
	require.Equal(-1, c)

	c, err = NewValue(String, "b").Compare(NewValue(String, "a"))
	require.NoError(err)
	require.Equal(1, c)

	c, err = Null(Int).Compare(NewValue(Int, int64(0)))
	require.NoError(err)
	require.Equal(-1, c, "null sorts before any non-null")

	_, err = NewValue(Int, int64(1)).Compare(NewValue(String, "1"))
	require.Error(err, "cross-type comparison is a type mismatch")
}

// TestValueAsFloatVector checks the element-wise conversions proximity
// predicates depend on.
func TestValueAsFloatVector(t *testing.T) {
	require := require.New(t)

	v, err := NewValue(VectorFloat, []float32{1, 2}).AsFloatVector()
	require.NoError(err)
	require.Equal([]float64{1, 2}, v)

	v, err = NewValue(VectorDouble, []float64{3, 4}).AsFloatVector()
	require.NoError(err)
	require.Equal([]float64{3, 4}, v)

	_, err = NewValue(Int, int64(1)).AsFloatVector()
	require.Error(err)
}

// TestTypeSizes checks LogicalSize/PhysicalSize agree with the element
// sizes of the closed type set.
func TestTypeSizes(t *testing.T) {
	require := require.New(t)

	require.Equal(1, Int.LogicalSize(0))
	require.Equal(4, Int.PhysicalSize(1))
	require.Equal(128, VectorDouble.LogicalSize(128))
	require.Equal(128*8, VectorDouble.PhysicalSize(128))
	require.Equal(5, String.PhysicalSize(5))
}

// TestTypeNumeric checks the aggregation eligibility predicate.
func TestTypeNumeric(t *testing.T) {
	require := require.New(t)

	require.True(Int.Numeric())
	require.True(Double.Numeric())
	require.False(String.Numeric())
	require.False(VectorFloat.Numeric())
}
