package parser

import "github.com/gnolang/ntt/ast"

// family is one kind of bracket pair and the container it produces.
type family struct {
	open, close string
	kind        ast.Kind
}

// families are grouped in this order. Each pass also descends into the
// containers produced by the passes before it.
var families = []family{
	{"{", "}", ast.NodeBlock},
	{"(", ")", ast.NodeExpression},
	{"[", "]", ast.NodeIndex},
}

// group folds all bracket families, then tags the outermost unclosed
// container on every path from the root. Unclosed containers of any
// family nested inside it stay untagged.
func group(nodes []ast.Node) []ast.Node {
	unclosed := make(map[*ast.Container]bool)
	for _, f := range families {
		nodes = f.group(nodes, unclosed)
	}
	if len(unclosed) > 0 {
		for _, n := range nodes {
			tagOutermost(n, unclosed)
		}
	}
	return nodes
}

func tagOutermost(n ast.Node, unclosed map[*ast.Container]bool) {
	c, ok := n.(*ast.Container)
	if !ok {
		return
	}
	if unclosed[c] {
		c.AddDiagnostic(ast.MissingEndBracket)
		return
	}
	for _, child := range c.Children {
		tagOutermost(child, unclosed)
	}
}

// group folds every bracket pair of the family into a container. An
// opener left unclosed at the end of input still produces a container,
// recorded in unclosed. A close bracket with no opener is kept as is.
func (f family) group(nodes []ast.Node, unclosed map[*ast.Container]bool) []ast.Node {
	var (
		out    []ast.Node
		buf    []ast.Node
		opener *ast.Atomic
		depth  int
	)

	for _, n := range nodes {
		if a, ok := ast.IsBracket(n, f.open); ok {
			depth++
			if depth == 1 {
				opener, buf = a, nil
				continue
			}
			buf = append(buf, n)
			continue
		}

		if a, ok := ast.IsBracket(n, f.close); ok && depth > 0 {
			depth--
			if depth == 0 {
				out = append(out, f.wrap(opener, buf, a.End(), unclosed))
				continue
			}
			buf = append(buf, n)
			continue
		}

		if depth > 0 {
			buf = append(buf, n)
			continue
		}

		if c, ok := n.(*ast.Container); ok {
			c.Children = f.group(c.Children, unclosed)
		}
		out = append(out, n)
	}

	if depth > 0 {
		end := opener.End()
		if len(buf) > 0 {
			end = buf[len(buf)-1].End()
		}
		c := f.wrap(opener, buf, end, unclosed)
		unclosed[c] = true
		out = append(out, c)
	}
	return out
}

func (f family) wrap(opener *ast.Atomic, children []ast.Node, end int, unclosed map[*ast.Container]bool) *ast.Container {
	return ast.NewContainer(f.kind, opener.Pos(), end, f.group(children, unclosed))
}
