package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/born-ml/minigrad/internal/tensor"
)

// Reader reads state dictionaries from .mgrd files.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64    // Offset where tensor data starts
	dataSize   int64    // Size of the data section
	checksum   [32]byte // SHA-256 checksum of the data section
	opts       ReaderOptions
	closed     bool
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// fixedHeader holds the decoded 64-byte prefix of a .mgrd file.
type fixedHeader struct {
	flags      uint32
	headerSize uint64
	dataSize   uint64
	checksum   [32]byte
}

// NewReader creates a new .mgrd file reader with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions creates a new .mgrd file reader with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := &Reader{
		file:   file,
		opts:   opts,
		closed: false,
	}

	if err := reader.parseHeader(); err != nil {
		_ = file.Close() // Best effort close on error
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	if err := ValidateHeader(&reader.header, reader.dataSize, opts.ValidationLevel); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return reader, nil
}

// parseFixedHeader decodes and checks the fixed 64-byte header.
func parseFixedHeader(b []byte) (fixedHeader, error) {
	var fh fixedHeader
	if string(b[0:4]) != MagicBytes {
		return fh, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(b[4:8]); version != FormatVersion {
		return fh, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	fh.flags = binary.LittleEndian.Uint32(b[8:12])
	fh.headerSize = binary.LittleEndian.Uint64(b[16:24])
	fh.dataSize = binary.LittleEndian.Uint64(b[24:32])
	copy(fh.checksum[:], b[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if fh.headerSize > MaxHeaderSize {
		return fh, ErrHeaderTooLarge
	}
	if fh.dataSize > math.MaxInt64 {
		return fh, fmt.Errorf("%w: data size %d", ErrOutOfBounds, fh.dataSize)
	}
	return fh, nil
}

// parseHeader reads the fixed header and JSON header, and checks the
// data section against the stored checksum.
func (r *Reader) parseHeader() error {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}

	fh, err := parseFixedHeader(fixed)
	if err != nil {
		return err
	}
	r.flags = fh.flags
	r.checksum = fh.checksum

	// Header JSON starts at 0x40
	headerBytes := make([]byte, fh.headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("failed to read header JSON: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	r.dataOffset = dataOffset(int64(fh.headerSize))
	//nolint:gosec // G115: checked against math.MaxInt64 above
	r.dataSize = int64(fh.dataSize)

	fileInfo, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if fileInfo.Size() < r.dataOffset+r.dataSize {
		return fmt.Errorf("%w: file is %d bytes, data section ends at %d",
			ErrOutOfBounds, fileInfo.Size(), r.dataOffset+r.dataSize)
	}

	if !r.opts.SkipChecksumValidation {
		data := make([]byte, r.dataSize)
		if _, err := r.file.ReadAt(data, r.dataOffset); err != nil {
			return fmt.Errorf("failed to read tensor data for checksum: %w", err)
		}
		if err := ValidateChecksum(ComputeChecksum(data), r.checksum); err != nil {
			return err
		}
	}

	return nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the flags stored in the fixed header.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all stored Arrays in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range r.header.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
}

// ReadTensorData reads raw tensor bytes for a given tensor name.
func (r *Reader) ReadTensorData(name string) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader: %w", ErrClosed)
	}

	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	if meta.Offset < 0 || meta.Size < 0 || meta.Size > r.dataSize-meta.Offset {
		return nil, fmt.Errorf("tensor %s: offset %d size %d outside %d-byte data section: %w",
			name, meta.Offset, meta.Size, r.dataSize, ErrOutOfBounds)
	}

	data := make([]byte, meta.Size)
	if _, err := r.file.ReadAt(data, r.dataOffset+meta.Offset); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	return data, nil
}

// LoadArray loads a single stored Array. Its elements are fresh leaf Nodes.
func (r *Reader) LoadArray(name string) (*tensor.Array, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}

	return decodeArray(meta, data)
}

// ReadStateDict reads all stored Arrays into a state dictionary.
func (r *Reader) ReadStateDict() (map[string]*tensor.Array, error) {
	if r.closed {
		return nil, fmt.Errorf("reader: %w", ErrClosed)
	}

	stateDict := make(map[string]*tensor.Array, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		a, err := r.LoadArray(meta.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = a
	}

	return stateDict, nil
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Load reads a whole .mgrd file with strict validation.
func Load(path string) (stateDict map[string]*tensor.Array, header Header, err error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, Header{}, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	stateDict, err = reader.ReadStateDict()
	if err != nil {
		return nil, Header{}, err
	}
	return stateDict, reader.Header(), nil
}

// ReadFrom reads a state dictionary from an io.Reader.
// This is useful for reading from buffers or network connections.
func ReadFrom(src io.Reader, opts ReaderOptions) (map[string]*tensor.Array, Header, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(src, fixed); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}

	fh, err := parseFixedHeader(fixed)
	if err != nil {
		return nil, Header{}, err
	}

	headerBytes := make([]byte, fh.headerSize)
	if _, err := io.ReadFull(src, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header JSON: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	headerSize := int64(fh.headerSize)
	padding := dataOffset(headerSize) - int64(FixedHeaderSize) - headerSize
	if _, err := io.CopyN(io.Discard, src, padding); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
	}

	// The declared size is untrusted; read at most that much and let a short
	// stream fail instead of allocating the whole section up front.
	//nolint:gosec // G115: checked against math.MaxInt64 in parseFixedHeader
	dataSize := int64(fh.dataSize)
	data, err := io.ReadAll(io.LimitReader(src, dataSize))
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if int64(len(data)) < dataSize {
		return nil, Header{}, fmt.Errorf("%w: stream has %d data bytes, header declares %d",
			ErrOutOfBounds, len(data), dataSize)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), fh.checksum); err != nil {
			return nil, Header{}, err
		}
	}

	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	stateDict := make(map[string]*tensor.Array, len(header.Tensors))
	for i := range header.Tensors {
		meta := &header.Tensors[i]
		if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > int64(len(data)) {
			return nil, Header{}, fmt.Errorf("tensor %s: %w", meta.Name, ErrOutOfBounds)
		}
		a, err := decodeArray(meta, data[meta.Offset:meta.Offset+meta.Size])
		if err != nil {
			return nil, Header{}, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = a
	}

	return stateDict, header, nil
}

// decodeArray turns little-endian float64 bytes into an Array of fresh leaves.
func decodeArray(meta *TensorMeta, data []byte) (*tensor.Array, error) {
	if err := validateTensorLayout(meta); err != nil {
		return nil, err
	}
	if int64(len(data)) != meta.Size {
		return nil, fmt.Errorf("%w: tensor %s has %d bytes, expected %d",
			ErrSizeMismatch, meta.Name, len(data), meta.Size)
	}

	values := make([]float64, len(data)/ElementSize)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*ElementSize:]))
	}

	return tensor.FromSlice(values, tensor.Shape(meta.Shape))
}
