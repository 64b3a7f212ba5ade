package nn

import (
	"fmt"
	"strings"
	"time"

	"github.com/born-ml/minigrad/internal/serialization"
	"github.com/born-ml/minigrad/internal/tensor"
)

// optimizerPrefix marks optimizer entries in a checkpoint state dict.
const optimizerPrefix = "optimizer."

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is used by checkpoints to serialize optimizer state
// without creating import cycles. Optimizers from the optim package
// implement this interface.
type OptimizerState interface {
	// StateDict returns the optimizer state for serialization.
	StateDict() map[string]*tensor.Array

	// LoadStateDict loads optimizer state from serialization.
	LoadStateDict(stateDict map[string]*tensor.Array) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Checkpoint represents a complete training state snapshot.
//
// A checkpoint includes:
//   - Model parameters (weights and biases)
//   - Optimizer state (momentum buffers, Adam moments)
//   - Training metadata (epoch, step, loss)
//
// Example:
//
//	checkpoint := &nn.Checkpoint{
//	    Model:     model,
//	    Optimizer: optimizer,
//	    Epoch:     10,
//	    Loss:      0.123,
//	}
//	err := checkpoint.Save("xor.mgrd")
//
// To resume training:
//
//	checkpoint, err := nn.LoadCheckpoint("xor.mgrd", model, optimizer)
//	startEpoch := checkpoint.Epoch + 1
type Checkpoint struct {
	Model     Module         // The neural network model
	Optimizer OptimizerState // The optimizer with its state (may be nil)
	Epoch     int            // Training epoch number
	Step      int64          // Training step number
	Loss      float64        // Loss value at this checkpoint
	Metadata  map[string]any // Additional training metadata
	CreatedAt time.Time      // When the checkpoint was created
}

// Save writes the checkpoint to a .mgrd file.
//
// Model entries keep their state-dict names; optimizer entries are
// prefixed with "optimizer.".
func (c *Checkpoint) Save(path string) (err error) {
	combined := make(map[string]*tensor.Array)
	for name, a := range c.Model.StateDict() {
		combined[name] = a
	}

	meta := &serialization.CheckpointMeta{
		IsCheckpoint: true,
		Epoch:        c.Epoch,
		Step:         c.Step,
		Loss:         c.Loss,
		TrainingMeta: c.Metadata,
	}
	if c.Optimizer != nil {
		for name, a := range c.Optimizer.StateDict() {
			combined[optimizerPrefix+name] = a
		}
		meta.OptimizerType = optimizerType(c.Optimizer)
		meta.OptimizerConfig = optimizerConfig(c.Optimizer)
	}

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	header := serialization.Header{
		ModelType:      "Checkpoint",
		CreatedAt:      c.CreatedAt,
		CheckpointMeta: meta,
	}
	if err := writer.WriteStateDictWithHeader(combined, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	return nil
}

// LoadCheckpoint loads a checkpoint from a .mgrd file.
//
// The model and optimizer must be pre-constructed with the same
// architecture. optimizer may be nil to restore only the model.
func LoadCheckpoint(path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	stateDict, header, err := serialization.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if header.CheckpointMeta == nil || !header.CheckpointMeta.IsCheckpoint {
		return nil, fmt.Errorf("file is not a checkpoint")
	}

	modelStateDict := make(map[string]*tensor.Array)
	optimizerStateDict := make(map[string]*tensor.Array)
	for name, a := range stateDict {
		if rest, ok := strings.CutPrefix(name, optimizerPrefix); ok {
			optimizerStateDict[rest] = a
		} else {
			modelStateDict[name] = a
		}
	}

	if err := model.LoadStateDict(modelStateDict); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}

	if optimizer != nil {
		if err := optimizer.LoadStateDict(optimizerStateDict); err != nil {
			return nil, fmt.Errorf("failed to load optimizer state: %w", err)
		}
	}

	return &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     header.CheckpointMeta.Epoch,
		Step:      header.CheckpointMeta.Step,
		Loss:      header.CheckpointMeta.Loss,
		Metadata:  header.CheckpointMeta.TrainingMeta,
		CreatedAt: header.CreatedAt,
	}, nil
}

// optimizerType returns the optimizer's Name when it has one.
func optimizerType(opt OptimizerState) string {
	if named, ok := opt.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "Optimizer"
}

// optimizerConfig returns the optimizer's hyperparameters.
func optimizerConfig(opt OptimizerState) map[string]float64 {
	if configured, ok := opt.(interface{ Config() map[string]float64 }); ok {
		return configured.Config()
	}
	return map[string]float64{"lr": opt.GetLR()}
}
