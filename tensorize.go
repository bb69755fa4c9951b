// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensorize serializes tensors to and from flat byte buffers
// without losing dtype fidelity.
//
// Tensors whose dtype has a flat-array equivalent are stored and
// loaded zero-copy. Dtypes the array representation cannot express
// (bfloat16, complex32) are stored as opaque byte blocks tagged with
// the original dtype name and reconstructed exactly on read.
//
// Example:
//
//	w, _ := tensorize.NewWriter("model.tnzr")
//	defer w.Close()
//	err := w.WriteStateDict(stateDict, tensorize.WriteOptions{Checksum: true})
//
//	r, _ := tensorize.NewMmapReader("model.tnzr")
//	defer r.Close()
//	weight, err := r.ReadTensor("layer.0.weight")
package tensorize

import (
	"github.com/born-ml/tensorize/internal/bridge"
	"github.com/born-ml/tensorize/internal/serialization"
)

// TaggedArray pairs a byte-backed array view with its array-dtype and
// optional tensor-dtype tags. See the bridge package for the encoding
// rules.
type TaggedArray = bridge.TaggedArray

// FromTensor encodes a tensor into a TaggedArray, opaquely if needed.
var FromTensor = bridge.FromTensor

// FromArray encodes a plain array into a TaggedArray.
var FromArray = bridge.FromArray

// FromBuffer decodes persisted bytes into a TaggedArray.
var FromBuffer = bridge.FromBuffer

// Writer writes .tnzr files.
type Writer = serialization.Writer

// WriteOptions controls per-file write behavior.
type WriteOptions = serialization.WriteOptions

// MmapReader provides memory-mapped access to .tnzr files.
type MmapReader = serialization.MmapReader

// TensorMeta describes one tensor in a .tnzr header.
type TensorMeta = serialization.TensorMeta

// NewWriter creates a new .tnzr file writer.
var NewWriter = serialization.NewWriter

// NewMmapReader creates a memory-mapped reader for a .tnzr file.
var NewMmapReader = serialization.NewMmapReader
