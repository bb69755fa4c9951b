package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/born-ml/tensorize/internal/bridge"
	"github.com/born-ml/tensorize/internal/tensor"
)

const tensorizeVersion = "0.1.0" // Current tensorize version

// WriteOptions controls per-file write behavior.
type WriteOptions struct {
	Compress bool              // gzip the data section
	Checksum bool              // record a SHA-256 checksum of the stored data section
	Metadata map[string]string // custom key/value metadata for the header
}

// Writer writes .tnzr files.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .tnzr file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict encodes every tensor through the dtype bridge and
// writes the result as one .tnzr container. Tensors with dtypes the
// bridge rejects (quantized types) fail the whole write; nothing is
// silently skipped.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.RawTensor, opts WriteOptions) error {
	tagged := make(map[string]*bridge.TaggedArray, len(stateDict))
	for name, t := range stateDict {
		ta, err := bridge.FromTensor(t)
		if err != nil {
			return fmt.Errorf("tensor %q: %w", name, err)
		}
		tagged[name] = ta
	}
	return w.WriteTagged(tagged, opts)
}

// WriteTagged writes already-encoded TaggedArrays as one .tnzr
// container. Tensors are laid out back to back in name order.
func (w *Writer) WriteTagged(arrays map[string]*bridge.TaggedArray, opts WriteOptions) error {
	if w.closed {
		return ErrWriterClosed
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	header := Header{
		FormatVersion:  FormatVersion,
		LibraryVersion: tensorizeVersion,
		CreatedAt:      time.Now().UTC(),
		Tensors:        make([]TensorMeta, 0, len(arrays)),
		Metadata:       opts.Metadata,
	}

	// Assemble the data section and per-tensor metadata.
	var data bytes.Buffer
	for _, name := range names {
		ta := arrays[name]
		raw := ta.Data.Data()
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:        name,
			DType:       ta.ArrayDType,
			TensorDType: ta.TensorDType,
			Shape:       ta.Data.Shape(),
			Offset:      int64(data.Len()),
			Size:        int64(len(raw)),
		})
		data.Write(raw)
	}

	stored := data.Bytes()
	flags := uint32(0)
	if opts.Compress {
		flags |= FlagCompressed
		var compressed bytes.Buffer
		gz := gzip.NewWriter(&compressed)
		if _, err := gz.Write(stored); err != nil {
			return fmt.Errorf("failed to compress data section: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to compress data section: %w", err)
		}
		stored = compressed.Bytes()
	}
	if opts.Checksum {
		flags |= FlagChecksum
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if _, err := w.file.WriteString(MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(w.file, binary.LittleEndian, flags); err != nil {
		return fmt.Errorf("failed to write flags: %w", err)
	}
	if opts.Checksum {
		sum := ComputeChecksum(stored)
		if _, err := w.file.Write(sum[:]); err != nil {
			return fmt.Errorf("failed to write checksum: %w", err)
		}
	}
	headerSize := uint64(len(headerJSON))
	if err := binary.Write(w.file, binary.LittleEndian, headerSize); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Pad so the data section starts on a 64-byte boundary.
	currentPos := int64(prefixSize(flags)) + int64(headerSize) //nolint:gosec // G115: header size bounded by MaxHeaderSize
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		if _, err := w.file.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(stored); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// prefixSize returns the byte length of the fixed fields before the
// JSON header: magic + version + flags + optional checksum + header size.
func prefixSize(flags uint32) int {
	n := 4 + 4 + 4 + 8
	if flags&FlagChecksum != 0 {
		n += ChecksumSize
	}
	return n
}
