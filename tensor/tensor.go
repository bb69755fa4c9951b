// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the tensor types tensorize serializes.
package tensor

import (
	"github.com/born-ml/tensorize/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Zero-copy construction over caller buffers via FromBytes
//   - Zero-copy same-width reinterpretation via View()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32() // Type-safe access
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Device represents the compute device holding tensor storage.
type Device = tensor.Device

// Supported data types.
const (
	Float16    = tensor.Float16
	Float32    = tensor.Float32
	Float64    = tensor.Float64
	BFloat16   = tensor.BFloat16
	Complex32  = tensor.Complex32
	Complex64  = tensor.Complex64
	Complex128 = tensor.Complex128
	Int8       = tensor.Int8
	Int16      = tensor.Int16
	Int32      = tensor.Int32
	Int64      = tensor.Int64
	Uint8      = tensor.Uint8
	Bool       = tensor.Bool
	QInt8      = tensor.QInt8
	QUInt8     = tensor.QUInt8
	QInt32     = tensor.QInt32
	QUInt4x2   = tensor.QUInt4x2
	QUInt2x4   = tensor.QUInt2x4
)

// Supported compute devices.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	Vulkan = tensor.Vulkan
	Metal  = tensor.Metal
	WebGPU = tensor.WebGPU
)

// NewRaw creates a new RawTensor with the given shape and type.
var NewRaw = tensor.NewRaw

// FromBytes creates a RawTensor as a zero-copy view over a buffer.
var FromBytes = tensor.FromBytes
