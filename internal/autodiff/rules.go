package autodiff

import "math"

// rule computes the contribution of n.grad to each of n's operands,
// in operand order. Rules read operand values only; the backward pass
// does the accumulation.
type rule func(n *Node) []float64

var rules = [numOps]rule{
	OpNone:    nil,
	OpAdd:     addRule,
	OpMul:     mulRule,
	OpPow:     powRule,
	OpSigmoid: sigmoidRule,
	OpReLU:    reluRule,
	OpLog:     logRule,
}

// d(a+b)/da = 1, d(a+b)/db = 1.
func addRule(n *Node) []float64 {
	return []float64{n.grad, n.grad}
}

// d(a*b)/da = b, d(a*b)/db = a.
func mulRule(n *Node) []float64 {
	a, b := n.operands[0], n.operands[1]
	return []float64{b.value * n.grad, a.value * n.grad}
}

// d(a^b)/da = b * a^(b-1). The exponent gets nothing.
func powRule(n *Node) []float64 {
	a, b := n.operands[0], n.operands[1]
	return []float64{b.value * math.Pow(a.value, b.value-1) * n.grad, 0}
}

// dσ(a)/da = σ(a)(1-σ(a)), using the stored output.
func sigmoidRule(n *Node) []float64 {
	s := n.value
	return []float64{s * (1 - s) * n.grad}
}

// dReLU(a)/da = 1 if a > 0 else 0. The boundary a == 0 gets 0.
func reluRule(n *Node) []float64 {
	if n.operands[0].value > 0 {
		return []float64{n.grad}
	}
	return []float64{0}
}

// d ln(a)/da = 1/a.
func logRule(n *Node) []float64 {
	return []float64{n.grad / n.operands[0].value}
}

// propagate pushes n.grad onto n's operands.
func (n *Node) propagate() {
	if n.op >= numOps {
		return
	}
	r := rules[n.op]
	if r == nil {
		return
	}
	for i, g := range r(n) {
		n.operands[i].grad += g
	}
}
