package tensor

import (
	"errors"

	"github.com/born-ml/minigrad/internal/autodiff"
)

// Errors returned by Array construction and operations.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidRank     = errors.New("invalid rank")
	ErrUnsupportedRank = errors.New("unsupported rank")
	ErrEmptyInput      = errors.New("empty input")
	ErrNotScalar       = errors.New("not a single-element vector")
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeMismatch is returned when an element or operand is not a number or *Node.
	ErrTypeMismatch = autodiff.ErrTypeMismatch
)
