package npy

import (
	"errors"
	"fmt"
	"math"
)

// ErrVoidConstruction is returned when constructing an array view with
// a void-kind descr. Void elements do not honor the byte-order marker
// during buffer interpretation, so a view built from one could read
// multi-byte data with the wrong endianness on some platforms. Callers
// must substitute a same-width integer descr first.
var ErrVoidConstruction = errors.New("cannot construct array view with void dtype")

// Array is a typed view over a byte buffer.
//
// An Array built with New borrows the caller's buffer and never copies
// it; an Array built with Empty owns its (zero-length) storage.
type Array struct {
	descr Descr
	str   string
	shape []int
	data  []byte
}

// New constructs an Array viewing buf at offset with the given descr
// and shape. The only validation performed is size consistency between
// shape, item size, and the remaining buffer length.
func New(descr string, shape []int, buf []byte, offset int) (*Array, error) {
	d, err := ParseDescr(descr)
	if err != nil {
		return nil, err
	}
	if d.Kind == KindVoid {
		return nil, fmt.Errorf("%w: %s", ErrVoidConstruction, descr)
	}
	if offset < 0 || offset > len(buf) {
		return nil, fmt.Errorf("offset %d out of range for %d-byte buffer", offset, len(buf))
	}
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt/d.ItemSize {
		return nil, fmt.Errorf("shape %v dtype %s: byte size overflows", shape, descr)
	}
	need := n * d.ItemSize
	if len(buf)-offset < need {
		return nil, fmt.Errorf("buffer too small: need %d bytes for shape %v dtype %s, have %d",
			need, shape, descr, len(buf)-offset)
	}
	return &Array{
		descr: d,
		str:   descr,
		shape: append([]int(nil), shape...),
		data:  buf[offset : offset+need],
	}, nil
}

// Empty constructs a zero-element Array of the given descr. It is used
// as an O(1) probe to check that a descr is constructible at all,
// independent of any real data.
func Empty(descr string) (*Array, error) {
	d, err := ParseDescr(descr)
	if err != nil {
		return nil, err
	}
	return &Array{descr: d, str: descr, shape: []int{0}}, nil
}

// DescrString returns the descr string the array was constructed with.
func (a *Array) DescrString() string {
	return a.str
}

// Descr returns the parsed descr.
func (a *Array) Descr() Descr {
	return a.descr
}

// Shape returns the array's dimensions.
func (a *Array) Shape() []int {
	return a.shape
}

// ItemSize returns the byte size of one element.
func (a *Array) ItemSize() int {
	return a.descr.ItemSize
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	n, _ := numElements(a.shape)
	return n
}

// ByteSize returns the total size of the viewed region in bytes.
func (a *Array) ByteSize() int {
	return len(a.data)
}

// Data returns the viewed bytes. The slice aliases the buffer the
// array was constructed over.
func (a *Array) Data() []byte {
	return a.data
}

// numElements computes the element count with overflow checking: a
// crafted shape whose product wraps around must be rejected, not
// allowed to defeat the buffer size check above.
func numElements(shape []int) (int, error) {
	n := 1
	for i, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("invalid dimension at index %d: %d", i, dim)
		}
		if dim != 0 && n > math.MaxInt/dim {
			return 0, fmt.Errorf("shape %v: element count overflows", shape)
		}
		n *= dim
	}
	return n, nil
}
