// Package tensor provides the tensor types that tensorize serializes.
package tensor

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// The quantized types (QInt8 through QUInt2x4) carry out-of-band
// scale/zero-point parameters and cannot be serialized losslessly by
// this library; they exist so callers get a precise rejection instead
// of a silent mis-encode.
const (
	Float16 DataType = iota
	Float32
	Float64
	BFloat16
	Complex32
	Complex64
	Complex128
	Int8
	Int16
	Int32
	Int64
	Uint8
	Bool
	QInt8
	QUInt8
	QInt32
	QUInt4x2
	QUInt2x4
)

// Size returns the byte size of one element of the data type.
//
// QUInt4x2 and QUInt2x4 pack multiple sub-byte values per element;
// their storage element is one byte.
func (dt DataType) Size() int {
	switch dt {
	case Float16, BFloat16, Int16:
		return 2
	case Float32, Complex32, Int32, QInt32:
		return 4
	case Float64, Complex64, Int64:
		return 8
	case Complex128:
		return 16
	case Int8, Uint8, Bool, QInt8, QUInt8, QUInt4x2, QUInt2x4:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case BFloat16:
		return "bfloat16"
	case Complex32:
		return "complex32"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	case QInt8:
		return "qint8"
	case QUInt8:
		return "quint8"
	case QInt32:
		return "qint32"
	case QUInt4x2:
		return "quint4x2"
	case QUInt2x4:
		return "quint2x4"
	default:
		return "unknown"
	}
}

// CanonicalName returns the namespaced dtype name used in serialized
// headers, e.g. "born.bfloat16". The format is a stable wire contract:
// changing it breaks every file already written.
func (dt DataType) CanonicalName() string {
	return Namespace + "." + dt.String()
}
