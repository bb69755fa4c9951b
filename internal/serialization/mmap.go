package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/born-ml/tensorize/internal/bridge"
	"github.com/born-ml/tensorize/internal/tensor"
)

// MmapReader provides memory-mapped access to .tnzr files.
// Only the header is parsed up front; tensor bytes are materialized
// on demand via the OS page cache, and decoded tensors alias the
// mapped region directly (zero copy) unless the file is compressed.
//
// The mapped region must outlive every tensor read from it: callers
// keep the reader open for as long as any returned tensor is in use.
type MmapReader struct {
	file     *os.File
	mapped   []byte // mmap'd region (read-only)
	data     []byte // data section (aliases mapped, or decompressed copy)
	size     int64
	header   Header
	flags    uint32
	checksum [32]byte
	byName   map[string]int
	closed   bool
}

// NewMmapReader creates a memory-mapped reader for a .tnzr file.
//
// Important: Always call Close() when done to unmap the file (use defer).
func NewMmapReader(path string) (*MmapReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	mapped, err := mmapFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	r := &MmapReader{
		file:   file,
		mapped: mapped,
		size:   stat.Size(),
	}

	if err := r.parse(); err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

// parse reads and validates the file structure from the mapped region.
func (r *MmapReader) parse() error {
	if r.size < int64(prefixSize(0)) {
		return fmt.Errorf("file too small: %d bytes", r.size)
	}
	if string(r.mapped[0:4]) != MagicBytes {
		return fmt.Errorf("%w: got %q", ErrInvalidMagic, r.mapped[0:4])
	}
	version := binary.LittleEndian.Uint32(r.mapped[4:8])
	if version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	r.flags = binary.LittleEndian.Uint32(r.mapped[8:12])

	pos := int64(12)
	if r.flags&FlagChecksum != 0 {
		if r.size < pos+ChecksumSize+8 {
			return fmt.Errorf("file too small for checksum header: %d bytes", r.size)
		}
		copy(r.checksum[:], r.mapped[pos:pos+ChecksumSize])
		pos += ChecksumSize
	}

	headerSize := binary.LittleEndian.Uint64(r.mapped[pos : pos+8])
	if headerSize > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	pos += 8
	if r.size < pos+int64(headerSize) { //nolint:gosec // G115: bounded by MaxHeaderSize
		return fmt.Errorf("file too small for %d-byte header", headerSize)
	}
	if err := json.Unmarshal(r.mapped[pos:pos+int64(headerSize)], &r.header); err != nil { //nolint:gosec // G115: bounded by MaxHeaderSize
		return fmt.Errorf("failed to parse header: %w", err)
	}
	pos += int64(headerSize) //nolint:gosec // G115: bounded by MaxHeaderSize

	dataOffset := pos + (HeaderAlignment-(pos%HeaderAlignment))%HeaderAlignment
	if dataOffset > r.size {
		return fmt.Errorf("file truncated before data section")
	}
	stored := r.mapped[dataOffset:r.size]

	if r.flags&FlagChecksum != 0 {
		if err := ValidateChecksum(ComputeChecksum(stored), r.checksum); err != nil {
			return err
		}
	}

	if r.flags&FlagCompressed != 0 {
		gz, err := gzip.NewReader(bytes.NewReader(stored))
		if err != nil {
			return fmt.Errorf("failed to open compressed data section: %w", err)
		}
		defer func() { _ = gz.Close() }()
		decompressed, err := io.ReadAll(gz)
		if err != nil {
			return fmt.Errorf("failed to decompress data section: %w", err)
		}
		r.data = decompressed
	} else {
		r.data = stored
	}

	if err := ValidateTensorOffsets(r.header.Tensors, int64(len(r.data))); err != nil {
		return err
	}

	r.byName = make(map[string]int, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		r.byName[meta.Name] = i
	}
	return nil
}

// Header returns the parsed file header.
func (r *MmapReader) Header() Header {
	return r.header
}

// Metadata returns the custom metadata map from the header.
func (r *MmapReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in the file, in header
// order.
func (r *MmapReader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// Meta returns the header entry for a tensor.
func (r *MmapReader) Meta(name string) (*TensorMeta, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return &r.header.Tensors[i], nil
}

// TaggedArray reconstructs the TaggedArray for a tensor, viewing the
// mapped data section without copying.
func (r *MmapReader) TaggedArray(name string) (*bridge.TaggedArray, error) {
	if r.closed {
		return nil, ErrReaderClosed
	}
	meta, err := r.Meta(name)
	if err != nil {
		return nil, err
	}
	ta, err := bridge.FromBuffer(meta.DType, meta.TensorDType, meta.Shape, r.data, int(meta.Offset))
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	return ta, nil
}

// ReadTensor reads one tensor, decoding any opaque dtype encoding back
// to the original tensor dtype.
func (r *MmapReader) ReadTensor(name string) (*tensor.RawTensor, error) {
	ta, err := r.TaggedArray(name)
	if err != nil {
		return nil, err
	}
	t, err := ta.ToTensor()
	if err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	return t, nil
}

// ReadStateDict reads every tensor in the file.
func (r *MmapReader) ReadStateDict() (map[string]*tensor.RawTensor, error) {
	stateDict := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		t, err := r.ReadTensor(meta.Name)
		if err != nil {
			return nil, err
		}
		stateDict[meta.Name] = t
	}
	return stateDict, nil
}

// Close unmaps the file and closes it. Tensors read from an
// uncompressed file alias the mapping and must not be used afterwards.
func (r *MmapReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	if len(r.mapped) > 0 {
		if err := munmapFile(r.mapped); err != nil {
			firstErr = err
		}
		r.mapped = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
