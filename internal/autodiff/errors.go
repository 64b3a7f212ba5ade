package autodiff

import "errors"

// Errors returned by node construction and elementwise operations.
var (
	ErrTypeMismatch = errors.New("type mismatch: operand must be a number or *Node")
	ErrDomain       = errors.New("domain error")
)
