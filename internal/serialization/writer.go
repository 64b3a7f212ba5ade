package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"github.com/born-ml/minigrad/internal/tensor"
)

const libraryVersion = "0.1.0" // Current minigrad version

// Writer writes state dictionaries in .mgrd format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .mgrd file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{
		file:   file,
		closed: false,
	}, nil
}

// WriteStateDict writes a state dictionary to the .mgrd file.
//
// The state dictionary is a map from parameter names to Arrays.
func (w *Writer) WriteStateDict(stateDict map[string]*tensor.Array, modelType string, metadata map[string]string) error {
	return w.WriteStateDictWithHeader(stateDict, Header{
		ModelType: modelType,
		Metadata:  metadata,
	})
}

// WriteStateDictWithHeader writes a state dictionary with custom header to the .mgrd file.
//
// This allows setting CheckpointMeta and other custom header fields.
func (w *Writer) WriteStateDictWithHeader(stateDict map[string]*tensor.Array, header Header) error {
	if w.closed {
		return fmt.Errorf("writer: %w", ErrClosed)
	}
	return WriteTo(w.file, stateDict, header)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// Save writes stateDict to path in .mgrd format.
func Save(path string, stateDict map[string]*tensor.Array, modelType string, metadata map[string]string) (err error) {
	writer, err := NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return writer.WriteStateDict(stateDict, modelType, metadata)
}

// WriteTo writes the state dictionary to an io.Writer.
// This is useful for writing to buffers or network connections.
//
// Arrays are stored in ascending name order so equal state dictionaries
// produce byte-identical data sections.
func WriteTo(dst io.Writer, stateDict map[string]*tensor.Array, header Header) error {
	header.FormatVersion = FormatVersion
	header.Version = libraryVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	slices.Sort(names)

	// Calculate tensor offsets and collect tensor data
	var data []byte
	header.Tensors = make([]TensorMeta, 0, len(names))
	for _, name := range names {
		a := stateDict[name]
		offset := int64(len(data))
		for _, v := range a.Values() {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  []int(a.Shape()),
			Offset: offset,
			Size:   int64(len(data)) - offset,
		})
	}

	checksum := ComputeChecksum(data)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	// Fixed header (64 bytes)
	fixedHeader := make([]byte, FixedHeaderSize)
	copy(fixedHeader[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil && header.CheckpointMeta.IsCheckpoint {
		flags |= FlagHasOptimizer
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)
	binary.LittleEndian.PutUint64(fixedHeader[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixedHeader[24:32], uint64(len(data)))
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := dst.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := dst.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	padding := dataOffset(int64(len(headerJSON))) - int64(FixedHeaderSize) - int64(len(headerJSON))
	if padding > 0 {
		if _, err := dst.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}
