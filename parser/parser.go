// Package parser builds diagnostic-annotated trees from source text.
//
// Building happens in two steps. Grouping folds bracket pairs into
// Block, Expression and Index containers. Structuring then rewrites the
// children of every container through ordered passes: call and variable
// definition extraction, prefix operators, one pass per binary
// precedence level, and finally if statements and statement splitting
// (for programs and blocks) or comma separation (for expressions).
//
// Building never fails. Malformed input yields Invalid placeholders and
// diagnostics attached to the affected nodes.
package parser

import (
	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/token"
	"github.com/gnolang/ntt/tokenizer"
)

// BuildTree tokenizes, groups and structures text under a root container
// of the given kind. It panics if root is not a container kind.
func BuildTree(text string, root ast.Kind) *ast.Container {
	c := Group(text, root)
	structure(c)
	return c
}

// Group tokenizes text and folds its bracket pairs, without structuring.
func Group(text string, root ast.Kind) *ast.Container {
	c := ast.NewContainer(root, 0, len(text), Leaves(tokenizer.Tokenize(text)))
	c.Children = group(c.Children)
	return c
}

// Leaves wraps every token in an atomic node.
func Leaves(toks []token.Token) []ast.Node {
	nodes := make([]ast.Node, len(toks))
	for i, t := range toks {
		nodes[i] = &ast.Atomic{Token: t}
	}
	return nodes
}

// Diagnostic is a diagnostic attached to a node of a built tree.
type Diagnostic struct {
	Kind ast.ErrorKind
	Node ast.Node
}

// Diagnostics collects every diagnostic in the tree rooted at n, in
// depth-first order.
func Diagnostics(n ast.Node) []Diagnostic {
	var out []Diagnostic
	ast.Inspect(n, func(n ast.Node) bool {
		for _, e := range n.Diagnostics() {
			out = append(out, Diagnostic{Kind: e, Node: n})
		}
		return true
	})
	return out
}
