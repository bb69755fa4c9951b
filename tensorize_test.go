// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorize_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/born-ml/tensorize"
	"github.com/born-ml/tensorize/tensor"
)

// TestPublicRoundTrip exercises the exported API end to end: encode a
// bfloat16 tensor, persist it, read it back through the mmap reader.
func TestPublicRoundTrip(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.BFloat16, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.Data(), []byte{1, 2, 3, 4, 5, 6, 7, 8})

	ta, err := tensorize.FromTensor(raw)
	if err != nil {
		t.Fatalf("FromTensor failed: %v", err)
	}
	if !ta.IsOpaque() {
		t.Fatal("bfloat16 should be opaque-encoded")
	}

	path := filepath.Join(t.TempDir(), "weights.tnzr")
	w, err := tensorize.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := w.WriteTagged(map[string]*tensorize.TaggedArray{"w": ta}, tensorize.WriteOptions{}); err != nil {
		t.Fatalf("WriteTagged failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := tensorize.NewMmapReader(path)
	if err != nil {
		t.Fatalf("NewMmapReader failed: %v", err)
	}
	defer r.Close()

	got, err := r.ReadTensor("w")
	if err != nil {
		t.Fatalf("ReadTensor failed: %v", err)
	}
	if got.DType() != tensor.BFloat16 {
		t.Errorf("dtype %s, want bfloat16", got.DType())
	}
	if !bytes.Equal(got.Data(), raw.Data()) {
		t.Error("data mismatch after round trip")
	}
}

// TestPublicFloat32Values checks element values, not just raw bytes,
// survive a write/read cycle for a natively representable dtype.
func TestPublicFloat32Values(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	want := []float32{0.5, -1.25, 3e7, -4.5}
	copy(raw.AsFloat32(), want)

	path := filepath.Join(t.TempDir(), "weights.tnzr")
	w, err := tensorize.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	err = w.WriteStateDict(map[string]*tensor.RawTensor{"w": raw}, tensorize.WriteOptions{})
	if err != nil {
		t.Fatalf("WriteStateDict failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := tensorize.NewMmapReader(path)
	if err != nil {
		t.Fatalf("NewMmapReader failed: %v", err)
	}
	defer r.Close()

	got, err := r.ReadTensor("w")
	if err != nil {
		t.Fatalf("ReadTensor failed: %v", err)
	}
	for i, v := range got.AsFloat32() {
		if v != want[i] {
			t.Errorf("element %d: got %v, want %v", i, v, want[i])
		}
	}
}
