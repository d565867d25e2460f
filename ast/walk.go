package ast

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Container:
		return n.Children
	case *Operation:
		return []Node{n.Left, n.Op, n.Right}
	case *UnaryOperation:
		return []Node{n.Op, n.Operand}
	case *IfStatement:
		return []Node{n.If, n.Condition, n.Then, n.Else}
	case *FunctionCall:
		return []Node{n.Callee, n.Args}
	case *VariableDefinition:
		if n.Type != nil {
			return []Node{n.Define, n.Name, n.Type}
		}
		return []Node{n.Define, n.Name}
	case *Atomic, *Invalid:
		return nil
	}
	panic("ast: unexpected node type")
}

// Inspect traverses the tree in depth-first order. If f returns false,
// the children of the node are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Containers returns every container in the tree rooted at n, outermost
// first.
func Containers(n Node) []*Container {
	var out []*Container
	Inspect(n, func(n Node) bool {
		if c, ok := n.(*Container); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}
