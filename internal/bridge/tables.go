package bridge

import (
	"fmt"

	"github.com/born-ml/tensorize/internal/tensor"
)

// The tables below are static by design: they encode which tensor
// dtypes the array representation can express, pinned to the dtype set
// of internal/tensor v0.1. Adding a DataType requires revisiting every
// table in this file.

// nativeDescrs maps symmetric tensor dtypes to their array descr.
// Multi-byte descrs are pinned little-endian; that is the serialized
// byte order regardless of host.
var nativeDescrs = map[tensor.DataType]string{
	tensor.Float16:    "<f2",
	tensor.Float32:    "<f4",
	tensor.Float64:    "<f8",
	tensor.Complex64:  "<c8",
	tensor.Complex128: "<c16",
	tensor.Int8:       "|i1",
	tensor.Int16:      "<i2",
	tensor.Int32:      "<i4",
	tensor.Int64:      "<i8",
	tensor.Uint8:      "|u1",
	tensor.Bool:       "|b1",
}

// descrDTypes is the reverse of nativeDescrs, keyed by normalized
// descr string.
var descrDTypes = make(map[string]tensor.DataType, len(nativeDescrs))

// asymmetricDTypes holds tensor dtypes with no array equivalent, i.e.
// the only ones that need opaque encoding.
var asymmetricDTypes = map[tensor.DataType]bool{
	tensor.BFloat16:  true,
	tensor.Complex32: true,
	tensor.QInt8:     true,
	tensor.QUInt8:    true,
	tensor.QInt32:    true,
	tensor.QUInt4x2:  true,
	tensor.QUInt2x4:  true,
}

// unsupportedDTypes is the subset of asymmetricDTypes that cannot be
// serialized at all: decoding them correctly needs scale/zero-point
// parameters this library does not carry.
var unsupportedDTypes = map[tensor.DataType]bool{
	tensor.QInt8:    true,
	tensor.QUInt8:   true,
	tensor.QInt32:   true,
	tensor.QUInt4x2: true,
	tensor.QUInt2x4: true,
}

// intermediateDTypes maps an element width to the integer dtype that
// masquerades for it during opaque encoding.
var intermediateDTypes = map[int]tensor.DataType{
	1: tensor.Int8,
	2: tensor.Int16,
	4: tensor.Int32,
	8: tensor.Int64,
}

// IsUnsupported reports whether a tensor dtype needs out-of-band
// quantization parameters and is therefore refused by the encoder.
func IsUnsupported(dt tensor.DataType) bool {
	return unsupportedDTypes[dt]
}

// intermediateDType finds the integer dtype that masquerades for an
// opaque element of the given width.
func intermediateDType(size int) (tensor.DataType, error) {
	inter, ok := intermediateDTypes[size]
	if !ok {
		return 0, fmt.Errorf("%w: %d bytes", ErrUnrepresentableWidth, size)
	}
	return inter, nil
}

// decodeDTypes is the resolution fast path: canonical name to dtype
// for every asymmetric type, so the common decode cases skip name
// parsing entirely.
var decodeDTypes = make(map[string]tensor.DataType, len(asymmetricDTypes))

func init() {
	for dt, descr := range nativeDescrs {
		d, err := npyNormalize(descr)
		if err != nil {
			panic(err)
		}
		descrDTypes[d] = dt
	}
	for dt := range asymmetricDTypes {
		decodeDTypes[dt.CanonicalName()] = dt
	}
}
