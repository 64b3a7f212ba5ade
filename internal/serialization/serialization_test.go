package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minigrad/internal/tensor"
)

func testStateDict(t *testing.T) map[string]*tensor.Array {
	t.Helper()
	w, err := tensor.FromSlice([]float64{0.5, -1.25, 3, math.Pi}, tensor.Shape{2, 2})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{1e-300, -7}, tensor.Shape{2})
	require.NoError(t, err)
	return map[string]*tensor.Array{"0.weight": w, "0.bias": b}
}

// TestSaveLoadRoundTrip verifies values, shapes and metadata survive a file round trip.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.mgrd")
	stateDict := testStateDict(t)

	require.NoError(t, Save(path, stateDict, "Sequential", map[string]string{"task": "xor"}))

	loaded, header, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, header.FormatVersion)
	assert.Equal(t, "Sequential", header.ModelType)
	assert.Equal(t, "xor", header.Metadata["task"])
	require.Len(t, loaded, 2)

	for name, want := range stateDict {
		got, ok := loaded[name]
		require.True(t, ok, name)
		assert.Equal(t, want.Shape(), got.Shape(), name)
		assert.Equal(t, want.Values(), got.Values(), name)
	}
}

// TestLoadedArraysAreFreshLeaves verifies loaded elements are new leaves with zero grad.
func TestLoadedArraysAreFreshLeaves(t *testing.T) {
	stateDict := testStateDict(t)
	stateDict["0.bias"].Nodes()[0].Backward()

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, stateDict, Header{}))

	loaded, _, err := ReadFrom(&buf, ReaderOptions{})
	require.NoError(t, err)

	for _, n := range loaded["0.bias"].Nodes() {
		assert.True(t, n.IsLeaf())
		assert.Equal(t, 0.0, n.Grad())
	}
	assert.NotSame(t, stateDict["0.bias"].Nodes()[0], loaded["0.bias"].Nodes()[0])
}

// TestTensorsSortedByName verifies the header lists Arrays in name order with packed offsets.
func TestTensorsSortedByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorted.mgrd")
	require.NoError(t, Save(path, testStateDict(t), "Linear", nil))

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, []string{"0.bias", "0.weight"}, reader.TensorNames())

	bias, err := reader.TensorInfo("0.bias")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bias.Offset)
	assert.Equal(t, int64(16), bias.Size)

	weight, err := reader.TensorInfo("0.weight")
	require.NoError(t, err)
	assert.Equal(t, int64(16), weight.Offset)
	assert.Equal(t, int64(32), weight.Size)

	_, err = reader.TensorInfo("missing")
	assert.ErrorIs(t, err, ErrTensorNotFound)
}

// TestDeterministicData verifies two writes of the same state dict share a checksum.
func TestDeterministicData(t *testing.T) {
	stateDict := testStateDict(t)

	var a, b bytes.Buffer
	require.NoError(t, WriteTo(&a, stateDict, Header{}))
	require.NoError(t, WriteTo(&b, stateDict, Header{}))

	sumA := a.Bytes()[ChecksumOffset : ChecksumOffset+ChecksumSize]
	sumB := b.Bytes()[ChecksumOffset : ChecksumOffset+ChecksumSize]
	assert.Equal(t, sumA, sumB)
}

// TestDataAligned verifies the data section starts on a 64-byte boundary.
func TestDataAligned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testStateDict(t), Header{}))

	raw := buf.Bytes()
	headerSize := int64(binary.LittleEndian.Uint64(raw[16:24]))
	dataSize := int64(binary.LittleEndian.Uint64(raw[24:32]))

	offset := dataOffset(headerSize)
	assert.Zero(t, offset%HeaderAlignment)
	assert.Equal(t, offset+dataSize, int64(len(raw)))
	assert.Equal(t, int64(48), dataSize)
}

// TestChecksumMismatch verifies corrupted data is rejected.
func TestChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.mgrd")
	require.NoError(t, Save(path, testStateDict(t), "Linear", nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, _, err = Load(path)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	reader, err := NewReaderWithOptions(path, ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.NoError(t, reader.Close())

	_, _, err = ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

// TestInvalidMagic verifies foreign files are rejected.
func TestInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testStateDict(t), Header{}))
	raw := buf.Bytes()
	copy(raw[0:4], "BORN")

	_, _, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

// TestUnsupportedVersion verifies unknown versions are rejected.
func TestUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, testStateDict(t), Header{}))
	raw := buf.Bytes()
	binary.LittleEndian.PutUint32(raw[4:8], 99)

	_, _, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

// TestTruncatedFile verifies a file shorter than its declared data section is rejected.
func TestTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.mgrd")
	require.NoError(t, Save(path, testStateDict(t), "Linear", nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-8], 0o600))

	_, err = NewReader(path)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

// TestInvalidNameRejectedOnWrite verifies path-like names never reach disk.
func TestInvalidNameRejectedOnWrite(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1}, tensor.Shape{1})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = WriteTo(&buf, map[string]*tensor.Array{"../etc": a}, Header{})
	assert.ErrorIs(t, err, ErrInvalidTensorName)
	assert.Zero(t, buf.Len())
}

// TestCheckpointMetaFlag verifies checkpoint headers set the optimizer flag.
func TestCheckpointMetaFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckpt.mgrd")

	writer, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.WriteStateDictWithHeader(testStateDict(t), Header{
		ModelType: "Checkpoint",
		CheckpointMeta: &CheckpointMeta{
			IsCheckpoint:    true,
			Epoch:           3,
			Step:            12,
			Loss:            0.25,
			OptimizerType:   "SGD",
			OptimizerConfig: map[string]float64{"lr": 0.1},
		},
	}))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close(), "second close is a no-op")

	err = writer.WriteStateDict(testStateDict(t), "Linear", nil)
	assert.ErrorIs(t, err, ErrClosed)

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	assert.NotZero(t, reader.Flags()&FlagHasOptimizer)
	meta := reader.Header().CheckpointMeta
	require.NotNil(t, meta)
	assert.Equal(t, 3, meta.Epoch)
	assert.Equal(t, int64(12), meta.Step)
	assert.InDelta(t, 0.1, meta.OptimizerConfig["lr"], 1e-12)
}

// TestReaderClosed verifies reads after Close fail.
func TestReaderClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.mgrd")
	require.NoError(t, Save(path, testStateDict(t), "Linear", nil))

	reader, err := NewReader(path)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	_, err = reader.ReadStateDict()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = reader.LoadArray("0.bias")
	assert.ErrorIs(t, err, ErrClosed)
}

// TestWriteSafeTensors verifies the SafeTensors layout.
func TestWriteSafeTensors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSafeTensors(&buf, testStateDict(t), map[string]string{"format": "pt"}))

	raw := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(raw[:8])
	var header map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw[8:8+headerSize], &header))
	require.Contains(t, header, "__metadata__")

	var weight SafeTensorHeader
	require.NoError(t, json.Unmarshal(header["0.weight"], &weight))
	assert.Equal(t, "F64", weight.DType)
	assert.Equal(t, []int64{2, 2}, weight.Shape)
	assert.Equal(t, [2]int64{16, 48}, weight.DataOffsets)

	data := raw[8+headerSize:]
	require.Len(t, data, 48)
	first := math.Float64frombits(binary.LittleEndian.Uint64(data[16:24]))
	assert.Equal(t, 0.5, first)
}

// TestExportSafeTensors verifies the file variant writes the same bytes.
func TestExportSafeTensors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	stateDict := testStateDict(t)
	require.NoError(t, ExportSafeTensors(path, stateDict, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteSafeTensors(&buf, stateDict, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), raw)
}

// TestValidationErrorUnwrap verifies typed validation errors match their sentinels.
func TestValidationErrorUnwrap(t *testing.T) {
	err := error(&ValidationError{Type: "offset_overlap", Tensor: "a", Tensor2: "b", Details: "x"})
	assert.True(t, errors.Is(err, ErrOffsetOverlap))
	assert.Equal(t, `offset_overlap: tensors "a" and "b": x`, err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Nil(t, (&ValidationError{Type: "other"}).Unwrap())
}

// rawStream assembles an .mgrd byte stream by hand so tests can declare
// sizes and offsets the writer would never produce.
func rawStream(t *testing.T, header Header, data []byte, declaredDataSize uint64) []byte {
	t.Helper()
	headerJSON, err := json.Marshal(header)
	require.NoError(t, err)

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], declaredDataSize)
	checksum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:], checksum[:])

	var buf bytes.Buffer
	buf.Write(fixed)
	buf.Write(headerJSON)
	padding := dataOffset(int64(len(headerJSON))) - int64(FixedHeaderSize) - int64(len(headerJSON))
	buf.Write(make([]byte, padding))
	buf.Write(data)
	return buf.Bytes()
}

// TestReadFromOversizedDataSection verifies a stream declaring more data than
// it carries fails with an error instead of allocating the declared size.
func TestReadFromOversizedDataSection(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared uint64
	}{
		{"empty stream, huge size", nil, 1 << 60},
		{"max int64", nil, math.MaxInt64},
		{"one byte short", make([]byte, 15), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawStream(t, Header{}, tt.data, tt.declared)
			require.NotPanics(t, func() {
				_, _, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
				assert.ErrorIs(t, err, ErrOutOfBounds)
			})
		})
	}

	raw := rawStream(t, Header{}, nil, math.MaxInt64+1)
	_, _, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

// TestReadTensorDataRejectsBadLayout verifies unvalidated readers still refuse
// tensors lying outside the data section.
func TestReadTensorDataRejectsBadLayout(t *testing.T) {
	data := make([]byte, 16)
	header := Header{Tensors: []TensorMeta{
		{Name: "negative_offset", DType: DTypeFloat64, Shape: []int{1}, Offset: -8, Size: 8},
		{Name: "negative_size", DType: DTypeFloat64, Shape: []int{1}, Offset: 0, Size: -1 << 40},
		{Name: "past_end", DType: DTypeFloat64, Shape: []int{1}, Offset: 16, Size: 8},
		{Name: "huge", DType: DTypeFloat64, Shape: []int{1}, Offset: 8, Size: math.MaxInt64},
		{Name: "ok", DType: DTypeFloat64, Shape: []int{2}, Offset: 0, Size: 16},
	}}

	path := filepath.Join(t.TempDir(), "layout.mgrd")
	require.NoError(t, os.WriteFile(path, rawStream(t, header, data, uint64(len(data))), 0o600))

	reader, err := NewReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationNone})
	require.NoError(t, err)
	defer func() { assert.NoError(t, reader.Close()) }()

	for _, name := range []string{"negative_offset", "negative_size", "past_end", "huge"} {
		require.NotPanics(t, func() {
			_, err := reader.ReadTensorData(name)
			assert.ErrorIs(t, err, ErrOutOfBounds, name)
		})
	}

	got, err := reader.ReadTensorData("ok")
	require.NoError(t, err)
	assert.Len(t, got, 16)
}
