package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes      = "MGRD"
	FormatVersion   = 1    // Fixed 64-byte header with SHA-256 checksum
	HeaderAlignment = 64   // Align tensor data to 64 bytes
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	ElementSize     = 8    // Bytes per stored element (float64)
)

// DTypeFloat64 is the only element type stored in .mgrd files.
const DTypeFloat64 = "float64"

// Flags for the .mgrd format.
const (
	FlagHasOptimizer uint32 = 1 << 1 // bit 1: optimizer state included
	FlagHasMetadata  uint32 = 1 << 2 // bit 2: custom metadata included
)

// Header represents the JSON header in a .mgrd file.
type Header struct {
	FormatVersion  int               `json:"format_version"`       // Version of the .mgrd format
	Version        string            `json:"minigrad_version"`     // Version of minigrad that created this file
	ModelType      string            `json:"model_type"`           // Type of model (e.g., "Sequential", "Linear")
	CreatedAt      time.Time         `json:"created_at"`           // When the file was created
	Tensors        []TensorMeta      `json:"tensors"`              // Tensor metadata
	Metadata       map[string]string `json:"metadata"`             // Custom metadata
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"` // Checkpoint metadata (optional)
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	IsCheckpoint    bool               `json:"is_checkpoint"`    // Whether this is a checkpoint file
	Epoch           int                `json:"epoch"`            // Training epoch number
	Step            int64              `json:"step"`             // Training step number
	Loss            float64            `json:"loss"`             // Loss value at checkpoint
	OptimizerType   string             `json:"optimizer_type"`   // Optimizer type ("SGD", "Adam")
	OptimizerConfig map[string]float64 `json:"optimizer_config"` // Optimizer hyperparameters
	TrainingMeta    map[string]any     `json:"training_meta"`    // Additional training metadata
}

// TensorMeta describes a stored Array.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "0.weight")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // Array shape
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of tensor data)
	Size   int64  `json:"size"`   // Size in bytes
}

// dataOffset returns where the data section starts for a JSON header of the given size.
func dataOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	return pos + (HeaderAlignment-(pos%HeaderAlignment))%HeaderAlignment
}
