// Package npy provides numpy-compatible typed views over raw byte buffers.
//
// Dtypes are identified by numpy array-interface descr strings, e.g.
// "<f4" (little-endian float32), "|u1" (byte-order-free uint8) or
// "<V2" (2-byte void block). These strings are a wire contract shared
// with the numpy ecosystem; their grammar must not change.
package npy

import (
	"fmt"
	"strconv"
)

// Element kinds, matching numpy's array-interface kind characters.
const (
	KindBool    = 'b'
	KindInt     = 'i'
	KindUint    = 'u'
	KindFloat   = 'f'
	KindComplex = 'c'
	KindVoid    = 'V' // raw byte block, no interpretation
)

// Byte-order markers.
const (
	OrderLittle = '<'
	OrderBig    = '>'
	OrderNative = '='
	OrderNone   = '|' // single-byte types have no byte order
)

// Descr is a parsed dtype descr string.
type Descr struct {
	ByteOrder byte
	Kind      byte
	ItemSize  int
}

// ParseDescr parses a descr string of the form "[<>|=]<kind><itemsize>".
// The byte-order marker may be omitted, defaulting to native order.
func ParseDescr(s string) (Descr, error) {
	rest := s
	order := byte(OrderNative)
	if len(rest) > 0 {
		switch rest[0] {
		case OrderLittle, OrderBig, OrderNative, OrderNone:
			order = rest[0]
			rest = rest[1:]
		}
	}
	if len(rest) < 2 {
		return Descr{}, fmt.Errorf("invalid dtype descr %q", s)
	}
	kind := rest[0]
	switch kind {
	case KindBool, KindInt, KindUint, KindFloat, KindComplex, KindVoid:
	default:
		return Descr{}, fmt.Errorf("invalid dtype descr %q: unknown kind %q", s, kind)
	}
	size, err := strconv.Atoi(rest[1:])
	if err != nil || size <= 0 {
		return Descr{}, fmt.Errorf("invalid dtype descr %q: bad item size", s)
	}
	return Descr{ByteOrder: order, Kind: kind, ItemSize: size}, nil
}

// String returns the descr in canonical string form.
func (d Descr) String() string {
	return string(d.ByteOrder) + string(d.Kind) + strconv.Itoa(d.ItemSize)
}

// Normalize returns the descr with byte order in canonical form:
// single-byte types carry OrderNone, multi-byte native order becomes
// little-endian. The serialized format is pinned little-endian.
func (d Descr) Normalize() Descr {
	n := d
	if n.ItemSize == 1 {
		n.ByteOrder = OrderNone
	} else if n.ByteOrder == OrderNative {
		n.ByteOrder = OrderLittle
	}
	return n
}
