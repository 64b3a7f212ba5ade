// Package graphviz renders a traced computation graph in Graphviz DOT format.
//
// Every Node becomes a record showing its label, value and gradient. Every
// non-leaf Node gets an extra operation node, so edges run
// operand → operation → result, left to right.
package graphviz

import (
	"fmt"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/born-ml/minigrad/internal/autodiff"
)

// valueNode is the DOT vertex of one autodiff Node.
type valueNode struct {
	id   int64
	node *autodiff.Node
}

func (v valueNode) ID() int64 { return v.id }
func (v valueNode) DOTID() string { return fmt.Sprintf("n%d", v.id) }
func (v valueNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "shape", Value: "record"},
		{Key: "label", Value: fmt.Sprintf("{ %s | data %.4f | grad %.4f }",
			v.node.Label(), v.node.Value(), v.node.Grad())},
	}
}

// opNode is the DOT vertex of the operation that produced a Node.
type opNode struct {
	id int64
	op autodiff.Op
}

func (o opNode) ID() int64 { return o.id }
func (o opNode) DOTID() string { return fmt.Sprintf("op%d", o.id) }
func (o opNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: o.op.String()}}
}

// attributes is a fixed attribute list.
type attributes []encoding.Attribute

func (a attributes) Attributes() []encoding.Attribute { return a }

// Graph is a computation graph laid out for DOT output.
type Graph struct {
	*simple.DirectedGraph
}

// DOTAttributers sets left-to-right layout.
func (Graph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return attributes{{Key: "rankdir", Value: "LR"}}, attributes{}, attributes{}
}

// Build traces root and returns its DOT graph. Node IDs follow the trace
// order, so output is stable for a given graph.
//
// A Node used twice by the same operation (x*x) yields a single edge.
func Build(root *autodiff.Node) Graph {
	nodes, edges := autodiff.Trace(root)
	g := Graph{simple.NewDirectedGraph()}

	values := make(map[*autodiff.Node]valueNode, len(nodes))
	ops := make(map[*autodiff.Node]opNode)
	var next int64
	for _, n := range nodes {
		v := valueNode{id: next, node: n}
		next++
		values[n] = v
		g.AddNode(v)

		if n.IsLeaf() {
			continue
		}
		o := opNode{id: next, op: n.Op()}
		next++
		ops[n] = o
		g.AddNode(o)
		g.SetEdge(g.NewEdge(o, v))
	}

	for _, e := range edges {
		g.SetEdge(g.NewEdge(values[e.From], ops[e.To]))
	}

	return g
}

// Render returns the DOT source for the graph that produced root.
func Render(root *autodiff.Node) ([]byte, error) {
	out, err := dot.Marshal(Build(root), "", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	return out, nil
}
