package sql

import "fmt"

// Type is the closed set of scalar and vector value kinds a Record column
// may carry. Vector types are fixed-length arrays of the matching scalar
// element type.
type Type uint8

const (
	Invalid Type = iota
	Boolean
	Byte
	Short
	Int
	Long
	Float
	Double
	Complex32
	Complex64
	String
	ByteString
	VectorBool
	VectorByte
	VectorShort
	VectorInt
	VectorLong
	VectorFloat
	VectorDouble
	VectorComplex32
	VectorComplex64
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Byte:
		return "BYTE"
	case Short:
		return "SHORT"
	case Int:
		return "INT"
	case Long:
		return "LONG"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Complex32:
		return "COMPLEX32"
	case Complex64:
		return "COMPLEX64"
	case String:
		return "STRING"
	case ByteString:
		return "BYTESTRING"
	case VectorBool:
		return "BOOL_VECTOR"
	case VectorByte:
		return "BYTE_VECTOR"
	case VectorShort:
		return "SHORT_VECTOR"
	case VectorInt:
		return "INT_VECTOR"
	case VectorLong:
		return "LONG_VECTOR"
	case VectorFloat:
		return "FLOAT_VECTOR"
	case VectorDouble:
		return "DOUBLE_VECTOR"
	case VectorComplex32:
		return "COMPLEX32_VECTOR"
	case VectorComplex64:
		return "COMPLEX64_VECTOR"
	default:
		return "INVALID"
	}
}

// IsVector reports whether t is one of the fixed-length vector kinds.
func (t Type) IsVector() bool {
	return t >= VectorBool && t <= VectorComplex64
}

// elementSize is the physical size in bytes of a single scalar element of
// the type (or of a vector's element type).
func (t Type) elementSize() int {
	switch t {
	case Boolean, Byte:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Long, Double, Complex32:
		return 8
	case Complex64:
		return 16
	case String, ByteString:
		return 0 // variable
	case VectorBool, VectorByte:
		return 1
	case VectorShort:
		return 2
	case VectorInt, VectorFloat:
		return 4
	case VectorLong, VectorDouble, VectorComplex32:
		return 8
	case VectorComplex64:
		return 16
	default:
		return 0
	}
}

// PhysicalSize returns the on-disk footprint in bytes for a value of this
// type with the given logical size (element count for vectors; ignored for
// scalars; taken as the byte length for String and ByteString).
func (t Type) PhysicalSize(logicalSize int) int {
	if t == String || t == ByteString {
		return logicalSize // caller passes byte length directly
	}
	if t.IsVector() {
		return t.elementSize() * logicalSize
	}
	return t.elementSize()
}

// LogicalSize returns the element count of a type: 1 for scalars, n for an
// n-element vector.
func (t Type) LogicalSize(vectorLen int) int {
	if t.IsVector() {
		return vectorLen
	}
	return 1
}

// Numeric reports whether the type supports arithmetic aggregation
// (Sum/Mean/Min/Max).
func (t Type) Numeric() bool {
	switch t {
	case Byte, Short, Int, Long, Float, Double:
		return true
	default:
		return false
	}
}

// TypeMismatchError formats a TypeMismatch error payload; kept here so
// callers across packages render consistently.
func TypeMismatchError(expected, got Type) error {
	return fmt.Errorf("expected %s, got %s", expected, got)
}
