package autodiff

// Edge connects an operand to the Node computed from it.
type Edge struct {
	From *Node // operand
	To   *Node // result
}

// Trace collects every Node reachable from root together with the
// operand→result edges between them. Nodes are returned in dependency-first
// order (see TopoSort). An operand used twice by the same Node (x*x) yields
// one edge per use.
//
// Trace is read-only and intended for inspection and visualization.
func Trace(root *Node) ([]*Node, []Edge) {
	nodes := TopoSort(root)

	var edges []Edge
	for _, n := range nodes {
		for _, operand := range n.operands {
			edges = append(edges, Edge{From: operand, To: n})
		}
	}

	return nodes, edges
}
