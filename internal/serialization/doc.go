// Package serialization provides the .tnzr container for saving and
// loading tagged tensor data.
//
// The .tnzr format is a simple binary container built around the dtype
// bridge: every tensor is written and read as a bridge.TaggedArray, so
// dtypes with no flat-array equivalent (bfloat16, complex32) survive
// the round trip as opaque byte blocks.
//
//	Format Structure:
//	  [4 bytes: Magic "TNZR"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [32 bytes: SHA-256 of data section (only if FlagChecksum)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [Padding to 64-byte alignment]
//	  [Data section: raw tensor bytes, gzip if FlagCompressed]
//
// Each tensor's header entry records two dtype strings: the array
// descr ("<f4", "<V2", ...) and, when present, the canonical tensor
// dtype name ("born.bfloat16"). These strings are the on-disk dtype
// contract; see the bridge package.
//
// Example usage:
//
//	writer, _ := serialization.NewWriter("model.tnzr")
//	defer writer.Close()
//	err := writer.WriteStateDict(stateDict, serialization.WriteOptions{Checksum: true})
//
//	reader, _ := serialization.NewMmapReader("model.tnzr")
//	defer reader.Close()
//	weight, err := reader.ReadTensor("layer.0.weight")
package serialization
