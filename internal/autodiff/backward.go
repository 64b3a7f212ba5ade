package autodiff

// TopoSort returns every Node reachable from root through operand edges,
// each exactly once, in dependency-first order: a Node appears only after
// all of its operands. root is always last.
func TopoSort(root *Node) []*Node {
	var (
		order   []*Node
		visited = make(map[*Node]struct{})
	)

	var visit func(v *Node)
	visit = func(v *Node) {
		if _, ok := visited[v]; ok {
			return
		}
		visited[v] = struct{}{}
		for _, operand := range v.operands {
			visit(operand)
		}
		order = append(order, v)
	}
	visit(root)

	return order
}

// Backward computes ∂root/∂node for every Node reachable from root and adds
// it into that Node's gradient.
//
// root's gradient is seeded with 1. Gradients are never overwritten: calling
// Backward twice without ZeroGrad in between doubles them.
func Backward(root *Node) {
	order := TopoSort(root)

	root.grad = 1

	// order[0] is always a leaf (the first node finished by a post-order
	// walk of an acyclic graph has no operands), so it has nothing to push.
	for i := len(order) - 1; i > 0; i-- {
		order[i].propagate()
	}
}

// Backward is shorthand for Backward(n).
func (n *Node) Backward() {
	Backward(n)
}

// ZeroGrads resets the gradient of every Node reachable from root.
func ZeroGrads(root *Node) {
	for _, v := range TopoSort(root) {
		v.grad = 0
	}
}
