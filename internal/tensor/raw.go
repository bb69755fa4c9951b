package tensor

import (
	"fmt"
	"math"
	"unsafe"
)

// Device represents the compute device holding tensor storage.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation.
//
// A RawTensor constructed with NewRaw owns its storage. A RawTensor
// constructed with FromBytes borrows the caller's buffer: the buffer
// must outlive the tensor and every view derived from it.
type RawTensor struct {
	data         []byte
	shape        Shape
	dtype        DataType
	device       Device
	requiresGrad bool
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated on the host and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	size, err := byteSize(shape, dtype)
	if err != nil {
		return nil, err
	}
	return &RawTensor{
		data:   make([]byte, size),
		shape:  shape.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromBytes creates a RawTensor as a zero-copy view over buf.
// The tensor borrows buf; it neither copies nor frees it.
func FromBytes(shape Shape, dtype DataType, buf []byte) (*RawTensor, error) {
	need, err := byteSize(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(buf) < need {
		return nil, fmt.Errorf("buffer too small: need %d bytes for %v %s, have %d",
			need, shape, dtype, len(buf))
	}
	return &RawTensor{
		data:   buf[:need],
		shape:  shape.Clone(),
		dtype:  dtype,
		device: CPU,
	}, nil
}

// byteSize validates the shape and computes the total storage size,
// rejecting any product that overflows an int.
func byteSize(shape Shape, dtype DataType) (int, error) {
	if err := shape.Validate(); err != nil {
		return 0, fmt.Errorf("invalid shape: %w", err)
	}
	n := shape.NumElements()
	if n > math.MaxInt/dtype.Size() {
		return 0, fmt.Errorf("shape %v dtype %s: byte size overflows", shape, dtype)
	}
	return n * dtype.Size(), nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice backing the tensor.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// RequiresGrad reports whether the tensor is attached to a
// computation graph.
func (r *RawTensor) RequiresGrad() bool {
	return r.requiresGrad
}

// SetRequiresGrad marks the tensor as attached to a computation graph.
func (r *RawTensor) SetRequiresGrad(v bool) {
	r.requiresGrad = v
}

// Detach returns a tensor sharing the same storage with no computation
// graph attachment. The receiver is unchanged.
func (r *RawTensor) Detach() *RawTensor {
	if !r.requiresGrad {
		return r
	}
	detached := *r
	detached.requiresGrad = false
	return &detached
}

// CPU returns a tensor whose storage is host-addressable.
// Tensors in this library always live on the host; a tensor tagged
// with a non-CPU device has no host buffer to hand out.
func (r *RawTensor) CPU() (*RawTensor, error) {
	if r.device == CPU {
		return r, nil
	}
	return nil, fmt.Errorf("tensor on %s has no host storage", r.device)
}

// View reinterprets the tensor's bytes as dtype without copying.
// Only same-element-width reinterpretation is supported: the shape is
// unchanged and every byte keeps its position.
func (r *RawTensor) View(dtype DataType) (*RawTensor, error) {
	if dtype.Size() != r.dtype.Size() {
		return nil, fmt.Errorf("cannot view %s (%d bytes/elem) as %s (%d bytes/elem)",
			r.dtype, r.dtype.Size(), dtype, dtype.Size())
	}
	view := *r
	view.dtype = dtype
	return &view, nil
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	if r.NumElements() == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	if r.NumElements() == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.data
}
