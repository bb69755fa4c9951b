// Package bridge translates between tensor dtypes and numpy-style
// array descrs so tensor data can be serialized as flat byte buffers
// without losing dtype fidelity.
//
// Symmetric dtypes (those with a native array equivalent) pass through
// untouched for zero-copy access. Asymmetric dtypes such as bfloat16
// are stored as opaque byte blocks: the bytes are viewed through a
// same-width integer dtype, the recorded descr has its integer kind
// replaced with the void kind, and the original tensor dtype name is
// kept alongside so decoding can reverse the substitution exactly.
package bridge

import (
	"fmt"
	"strings"

	"github.com/born-ml/tensorize/internal/npy"
	"github.com/born-ml/tensorize/internal/tensor"
)

// TaggedArray pairs a byte-backed array view with the two dtype tags
// that travel with it through serialization.
//
// ArrayDType and TensorDType are the exact strings persisted in
// container headers; their format is a wire contract. TensorDType is
// empty when the value has no tensor origin. When ArrayDType is an
// opaque (void-kind) descr, TensorDType is always set and names a
// dtype of the same element width.
//
// The Data field borrows whatever buffer it was constructed over; the
// caller keeps the buffer alive and unmutated for as long as the
// TaggedArray or any tensor decoded from it is in use.
type TaggedArray struct {
	Data        *npy.Array
	ArrayDType  string
	TensorDType string
}

// FromTensor converts a tensor into a TaggedArray, using an opaque
// descr for ArrayDType if the tensor's dtype has no array equivalent.
// The result shares the tensor's host storage in all cases.
func FromTensor(t *tensor.RawTensor) (*TaggedArray, error) {
	dt := t.DType()
	if IsUnsupported(dt) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDType, dt)
	}
	name := dt.CanonicalName()

	host, err := t.CPU()
	if err != nil {
		return nil, err
	}
	host = host.Detach()

	if !asymmetricDTypes[dt] {
		if descr, ok := nativeDescrs[dt]; ok {
			arr, err := npy.New(descr, host.Shape(), host.Data(), 0)
			if err != nil {
				return nil, err
			}
			return &TaggedArray{Data: arr, ArrayDType: descr, TensorDType: name}, nil
		}
		// Not a known asymmetric dtype, but no native descr is
		// registered for it either. Fall through and store the bytes
		// opaquely so the value still round-trips.
	}

	inter, err := intermediateDType(dt.Size())
	if err != nil {
		return nil, err
	}
	view, err := host.View(inter)
	if err != nil {
		return nil, err
	}
	descr := nativeDescrs[inter]
	arr, err := npy.New(descr, view.Shape(), view.Data(), 0)
	if err != nil {
		return nil, err
	}
	opaque := strings.Replace(descr, string(npy.KindInt), string(npy.KindVoid), 1)
	return &TaggedArray{Data: arr, ArrayDType: opaque, TensorDType: name}, nil
}

// FromArray converts a plain array with no tensor origin into a
// TaggedArray, resolving the tensor dtype its descr corresponds to.
// Arrays whose descr has no tensor equivalent are rejected here:
// writing them out would produce files nothing can decode.
func FromArray(a *npy.Array) (*TaggedArray, error) {
	descr := a.DescrString()
	if _, err := npy.Empty(descr); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnrepresentableDType, descr)
	}
	norm, err := npyNormalize(descr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnrepresentableDType, descr)
	}
	dt, ok := descrDTypes[norm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrepresentableDType, descr)
	}
	return &TaggedArray{Data: a, ArrayDType: descr, TensorDType: dt.CanonicalName()}, nil
}

// FromBuffer decodes a raw byte buffer into a TaggedArray given the
// two dtype tags and shape recorded at write time. No validation is
// performed beyond the size consistency the array view itself
// enforces.
func FromBuffer(arrayDType, tensorDType string, shape []int, buf []byte, offset int) (*TaggedArray, error) {
	arr, err := npy.New(DecoderDType(arrayDType), shape, buf, offset)
	if err != nil {
		return nil, err
	}
	return &TaggedArray{Data: arr, ArrayDType: arrayDType, TensorDType: tensorDType}, nil
}

// ToTensor converts the TaggedArray to a tensor sharing its storage,
// reversing any opaque encoding back to the recorded tensor dtype.
func (ta *TaggedArray) ToTensor() (*tensor.RawTensor, error) {
	if !ta.IsOpaque() {
		norm, err := npyNormalize(ta.Data.DescrString())
		if err != nil {
			return nil, err
		}
		dt, ok := descrDTypes[norm]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnrepresentableDType, ta.Data.DescrString())
		}
		return tensor.FromBytes(tensor.Shape(ta.Data.Shape()), dt, ta.Data.Data())
	}

	if ta.TensorDType == "" {
		return nil, fmt.Errorf("%w: data is opaque", ErrMissingDTypeName)
	}
	dt, err := ResolveDType(ta.TensorDType)
	if err != nil {
		return nil, err
	}
	inter, err := intermediateDType(ta.Data.ItemSize())
	if err != nil {
		return nil, err
	}
	staging, err := tensor.FromBytes(tensor.Shape(ta.Data.Shape()), inter, ta.Data.Data())
	if err != nil {
		return nil, err
	}
	// Relabels the same storage; View rejects any width mismatch
	// between the recorded dtype and the stored elements.
	return staging.View(dt)
}

// IsOpaque reports whether the TaggedArray's recorded array dtype is
// the opaque byte-block encoding.
func (ta *TaggedArray) IsOpaque() bool {
	return IsOpaque(ta.ArrayDType)
}

// IsOpaque reports whether an array descr string denotes opaque
// (void-kind) elements rather than any numeric kind.
func IsOpaque(arrayDType string) bool {
	d, err := npy.ParseDescr(arrayDType)
	return err == nil && d.Kind == npy.KindVoid
}

// DecoderDType maps a persisted array descr to the descr used for
// buffer construction: opaque descrs get their void kind substituted
// with the integer kind of the same width, others pass through. The
// byte-order marker is preserved. Void descrs are never used for
// construction directly because the array layer does not honor byte
// order for them (see npy.ErrVoidConstruction).
func DecoderDType(arrayDType string) string {
	if !IsOpaque(arrayDType) {
		return arrayDType
	}
	return strings.Replace(arrayDType, string(npy.KindVoid), string(npy.KindInt), 1)
}

// ResolveDType resolves a canonical dtype name ("born.<identifier>")
// to a tensor dtype.
func ResolveDType(name string) (tensor.DataType, error) {
	// Quick route, table lookup for the asymmetric types.
	if dt, ok := decodeDTypes[name]; ok {
		return dt, nil
	}
	if name == "" {
		return 0, fmt.Errorf("%w: cannot resolve an empty name", ErrMissingDTypeName)
	}
	ns, ident, found := strings.Cut(name, ".")
	if !found || ns != tensor.Namespace || ident == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDTypeName, name)
	}
	entity, ok := tensor.Lookup(ident)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDTypeName, name)
	}
	dt, ok := entity.(tensor.DataType)
	if !ok {
		return 0, fmt.Errorf("%w: %q does not name a dtype", ErrInvalidDTypeName, name)
	}
	return dt, nil
}

// npyNormalize returns the canonical form of a descr string for
// reverse-table lookups.
func npyNormalize(descr string) (string, error) {
	d, err := npy.ParseDescr(descr)
	if err != nil {
		return "", err
	}
	return d.Normalize().String(), nil
}
