package autodiff

import (
	"fmt"
	"math"
)

// Op identifies the operation that produced a Node and selects its local
// derivative rule during the backward pass.
type Op uint8

// Supported operations.
const (
	OpNone    Op = iota // leaf
	OpAdd               // a + b
	OpMul               // a * b
	OpPow               // a ** b
	OpSigmoid           // 1 / (1 + e^-a)
	OpReLU              // max(a, 0)
	OpLog               // ln(a)

	numOps
)

var opSymbols = [numOps]string{
	OpNone:    "",
	OpAdd:     "+",
	OpMul:     "*",
	OpPow:     "^",
	OpSigmoid: "sig",
	OpReLU:    "ReLU",
	OpLog:     "log",
}

// String returns the operation symbol ("" for leaves).
func (o Op) String() string {
	if o >= numOps {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opSymbols[o]
}

func newResult(value float64, op Op, label string, operands ...*Node) *Node {
	return &Node{
		value:    value,
		operands: operands,
		op:       op,
		label:    label,
	}
}

// Add returns n + other.
func (n *Node) Add(other *Node) *Node {
	return newResult(n.value+other.value, OpAdd, n.label+"+"+other.label, n, other)
}

// Mul returns n * other.
func (n *Node) Mul(other *Node) *Node {
	return newResult(n.value*other.value, OpMul, n.label+"*"+other.label, n, other)
}

// Pow returns n ** exponent.
//
// Only the base receives gradient. The exponent's gradient would need
// ln(base), which is undefined for non-positive bases, so it is never
// propagated.
func (n *Node) Pow(exponent *Node) *Node {
	return newResult(math.Pow(n.value, exponent.value), OpPow, n.label+"^"+exponent.label, n, exponent)
}

// Sigmoid returns 1 / (1 + e^-n).
func (n *Node) Sigmoid() *Node {
	s := 1 / (1 + math.Exp(-n.value))
	return newResult(s, OpSigmoid, "sig("+n.label+")", n)
}

// ReLU returns n if n > 0, otherwise 0.
func (n *Node) ReLU() *Node {
	r := 0.0
	if n.value > 0 {
		r = n.value
	}
	return newResult(r, OpReLU, "ReLU("+n.label+")", n)
}

// Log returns the natural logarithm of n.
// Fails with ErrDomain when n <= 0.
func (n *Node) Log() (*Node, error) {
	if n.value <= 0 {
		return nil, fmt.Errorf("%w: log of non-positive value %g", ErrDomain, n.value)
	}
	return newResult(math.Log(n.value), OpLog, "log("+n.label+")", n), nil
}

// Neg returns -n, built as n * -1.
func (n *Node) Neg() *Node {
	return n.Mul(constant(-1))
}

// Sub returns n - other, built as n + (-other).
func (n *Node) Sub(other *Node) *Node {
	return n.Add(other.Neg())
}

// Div returns n / other, built as n * other**-1.
func (n *Node) Div(other *Node) *Node {
	return n.Mul(other.Pow(constant(-1)))
}

// AddScalar returns n + c.
func (n *Node) AddScalar(c float64) *Node {
	return n.Add(constant(c))
}

// SubScalar returns n - c.
func (n *Node) SubScalar(c float64) *Node {
	return n.Sub(constant(c))
}

// MulScalar returns n * c.
func (n *Node) MulScalar(c float64) *Node {
	return n.Mul(constant(c))
}

// DivScalar returns n / c.
func (n *Node) DivScalar(c float64) *Node {
	return n.Div(constant(c))
}

// PowScalar returns n ** c.
func (n *Node) PowScalar(c float64) *Node {
	return n.Pow(constant(c))
}

// RSub returns c - n, built as c + (-n).
func RSub(c float64, n *Node) *Node {
	return constant(c).Add(n.Neg())
}

// RDiv returns c / n, built as n**-1 * c.
func RDiv(c float64, n *Node) *Node {
	return n.Pow(constant(-1)).Mul(constant(c))
}

// RPow returns c ** n. The gradient does not reach n (see Pow).
func RPow(c float64, n *Node) *Node {
	return constant(c).Pow(n)
}
