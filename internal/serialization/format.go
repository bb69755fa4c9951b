package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "TNZR"
	FormatVersion   = 1
	HeaderAlignment = 64 // Align tensor data to 64 bytes
	ChecksumSize    = 32 // SHA-256
)

// Flags for the .tnzr format.
const (
	FlagCompressed uint32 = 1 << 0 // bit 0: gzip-compressed data section
	FlagChecksum   uint32 = 1 << 1 // bit 1: SHA-256 checksum of data section
)

// Header is the JSON header in a .tnzr file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"tensorize_version"` // Version of tensorize that wrote the file
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// TensorMeta describes one tensor in the .tnzr file.
//
// DType and TensorDType are the bridge's two dtype tags, persisted
// verbatim. Offset is relative to the start of the (uncompressed) data
// section.
type TensorMeta struct {
	Name        string `json:"name"`
	DType       string `json:"dtype"`                  // Array descr, e.g. "<f4" or "<V2"
	TensorDType string `json:"tensor_dtype,omitempty"` // Canonical name, e.g. "born.bfloat16"
	Shape       []int  `json:"shape"`
	Offset      int64  `json:"offset"`
	Size        int64  `json:"size"`
}
