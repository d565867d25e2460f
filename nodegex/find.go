package nodegex

import "github.com/gnolang/ntt/ast"

// Find returns the leftmost non-empty match of p in nodes starting at or
// after from.
func Find(nodes []ast.Node, from int, p Pattern) (start, end int, ok bool) {
	for i := max(from, 0); i < len(nodes); i++ {
		if end, ok := p.Match(nodes, i); ok && end > i {
			return i, end, true
		}
	}
	return 0, 0, false
}

// Result is one match found by FindAll.
type Result struct {
	Container  *ast.Container
	Start, End int // child indices, End exclusive
}

// Nodes returns the matched children.
func (r Result) Nodes() []ast.Node {
	return r.Container.Children[r.Start:r.End]
}

// Span returns the source range covered by the match.
func (r Result) Span() (from, to int) {
	nodes := r.Nodes()
	return nodes[0].Pos(), nodes[len(nodes)-1].End()
}

// FindAll reports every non-overlapping match of p among the children
// of each container in the tree, outer containers first.
func FindAll(root ast.Node, p Pattern) []Result {
	var out []Result
	for _, c := range ast.Containers(root) {
		for i := 0; i < len(c.Children); {
			start, end, ok := Find(c.Children, i, p)
			if !ok {
				break
			}
			out = append(out, Result{Container: c, Start: start, End: end})
			i = end
		}
	}
	return out
}
