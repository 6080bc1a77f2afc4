package circuit

import "slices"

// DAGNode is an op placed in the dependency graph.
// Dependencies are the ops that must execute before this one because they
// touch one of the same wires earlier in the program.
type DAGNode struct {
	Op           int   // index into Circuit.Ops
	Step         int   // earliest layer the op can occupy
	Wires        []int // spanned wires; classical wires are offset by NumQubits
	Dependencies []int // node indices
}

// CircuitDAG is the layered view of a circuit used for drawing.
type CircuitDAG struct {
	Nodes     []*DAGNode
	NumQubits int
	NumCbits  int
	Steps     int
}

// DAG schedules every op into the earliest step after the last op on any of
// its wires. Ops on disjoint wires share a step.
func (c *Circuit) DAG() *CircuitDAG {
	dag := &CircuitDAG{
		Nodes:     make([]*DAGNode, 0, len(c.Ops)),
		NumQubits: c.NumQubits(),
		NumCbits:  c.NumCbits(),
	}

	// Track the last node on each wire to establish dependencies
	lastOnWire := make(map[int]int)

	for i, op := range c.Ops {
		node := &DAGNode{Op: i}
		for _, q := range op.Qubits {
			node.Wires = append(node.Wires, c.Wire(q))
		}
		for _, b := range op.Bits {
			node.Wires = append(node.Wires, dag.NumQubits+c.Wire(b))
		}

		// A multi-wire op fences every wire between its lowest and highest
		// one, so its connector never crosses another op in the same step.
		if len(node.Wires) > 1 {
			lo, hi := slices.Min(node.Wires), slices.Max(node.Wires)
			node.Wires = node.Wires[:0]
			for w := lo; w <= hi; w++ {
				node.Wires = append(node.Wires, w)
			}
		}

		for _, w := range node.Wires {
			if dep, ok := lastOnWire[w]; ok && !slices.Contains(node.Dependencies, dep) {
				node.Dependencies = append(node.Dependencies, dep)
				node.Step = max(node.Step, dag.Nodes[dep].Step+1)
			}
		}

		for _, w := range node.Wires {
			lastOnWire[w] = len(dag.Nodes)
		}
		dag.Nodes = append(dag.Nodes, node)
		dag.Steps = max(dag.Steps, node.Step+1)
	}

	return dag
}

// NodesAtStep returns the nodes scheduled at step, in program order.
func (dag *CircuitDAG) NodesAtStep(step int) []*DAGNode {
	var result []*DAGNode
	for _, node := range dag.Nodes {
		if node.Step == step {
			result = append(result, node)
		}
	}
	return result
}

// NodeAt returns the node occupying wire at step, or nil.
func (dag *CircuitDAG) NodeAt(step, wire int) *DAGNode {
	for _, node := range dag.Nodes {
		if node.Step == step && slices.Contains(node.Wires, wire) {
			return node
		}
	}
	return nil
}

// TopologicalSort returns the nodes ordered by step, program order within a step.
func (dag *CircuitDAG) TopologicalSort() []*DAGNode {
	sorted := slices.Clone(dag.Nodes)
	slices.SortStableFunc(sorted, func(a, b *DAGNode) int {
		return a.Step - b.Step
	})
	return sorted
}
