package parser

import (
	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/token"
)

// pass rewrites a run of sibling nodes and reports whether it changed
// anything.
type pass func(nodes []ast.Node) ([]ast.Node, bool)

// fixpoint applies p until it stops making changes.
func fixpoint(nodes []ast.Node, p pass) []ast.Node {
	for {
		var changed bool
		nodes, changed = p(nodes)
		if !changed {
			return nodes
		}
	}
}

var unaryOperators = []string{"!"}

// binaryLevels are folded in this order, each to a fixed point.
// Relational operators are folded first, so they bind tighter than the
// arithmetic levels.
var binaryLevels = [][]string{
	{"==", "!=", "<", "<=", ">", ">="},
	{"^"},
	{"*", "/", "%"},
	{"+", "-"},
	{"&&", "||"},
	{"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@="},
}

var binaryPasses = func() []pass {
	passes := make([]pass, len(binaryLevels))
	for i, ops := range binaryLevels {
		passes[i] = foldBinary(ops)
	}
	return passes
}()

// structure rewrites the children of c into operations, statements and
// control flow. Nested containers are structured first.
func structure(c *ast.Container) {
	for _, child := range c.Children {
		if sub, ok := child.(*ast.Container); ok {
			structure(sub)
		}
	}

	nodes, _ := extractCalls(c.Children)
	if holdsStatements(c.Kind()) {
		nodes, _ = extractDefinitions(nodes)
	}

	nodes = fixpoint(nodes, foldUnary)
	for _, p := range binaryPasses {
		nodes = fixpoint(nodes, p)
	}

	switch c.Kind() {
	case ast.NodeProgram, ast.NodeBlock:
		nodes = fixpoint(nodes, extractIfs)
		nodes = splitStatements(nodes)
	case ast.NodeExpression, ast.NodeCallArguments:
		nodes = separateArguments(markStrayDelimiters(nodes))
	default:
		nodes = markStrayDelimiters(nodes)
	}
	c.Children = nodes
}

func holdsStatements(k ast.Kind) bool {
	return k == ast.NodeProgram || k == ast.NodeBlock
}

func isContainer(n ast.Node, kind ast.Kind) (*ast.Container, bool) {
	c, ok := n.(*ast.Container)
	if !ok || c.Kind() != kind {
		return nil, false
	}
	return c, true
}

func isIdentifier(n ast.Node) (*ast.Atomic, bool) {
	a, ok := n.(*ast.Atomic)
	if !ok || a.Token.Kind != token.Identifier {
		return nil, false
	}
	return a, true
}

// isValue reports whether n is an atomic that can stand as an operand.
func isValue(n ast.Node) bool {
	a, ok := n.(*ast.Atomic)
	if !ok {
		return false
	}
	switch a.Token.Kind {
	case token.Integer, token.Float, token.Boolean, token.String, token.Identifier:
		return true
	case token.Keyword:
		return a.Token.Is(token.Keyword, "null")
	}
	return false
}

func isUnaryOperand(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Atomic:
		return isValue(n)
	case *ast.Container:
		return n.Kind() == ast.NodeExpression || n.Kind() == ast.NodeIndex
	case *ast.UnaryOperation, *ast.FunctionCall:
		return true
	}
	return false
}

func isRightOperand(n ast.Node) bool {
	if _, ok := n.(*ast.Operation); ok {
		return true
	}
	return isUnaryOperand(n)
}

func isLeftOperand(n ast.Node) bool {
	if _, ok := n.(*ast.VariableDefinition); ok {
		return true
	}
	return isRightOperand(n)
}

// extractCalls folds an identifier followed by an expression into a
// call. The expression has already been structured, so its children are
// the separated arguments.
func extractCalls(nodes []ast.Node) ([]ast.Node, bool) {
	out := make([]ast.Node, 0, len(nodes))
	changed := false
	for i := 0; i < len(nodes); i++ {
		callee, ok := isIdentifier(nodes[i])
		if ok && i+1 < len(nodes) {
			if expr, ok := isContainer(nodes[i+1], ast.NodeExpression); ok {
				args := ast.NewContainer(ast.NodeCallArguments, expr.From, expr.To, expr.Children)
				for _, e := range expr.Diagnostics() {
					args.AddDiagnostic(e)
				}
				out = append(out, &ast.FunctionCall{Callee: callee, Args: args})
				i++
				changed = true
				continue
			}
		}
		out = append(out, nodes[i])
	}
	return out, changed
}

// extractDefinitions folds `let name` and `const name: type`.
func extractDefinitions(nodes []ast.Node) ([]ast.Node, bool) {
	out := make([]ast.Node, 0, len(nodes))
	changed := false
	for i := 0; i < len(nodes); i++ {
		define, ok := ast.IsKeyword(nodes[i], "let")
		if !ok {
			define, ok = ast.IsKeyword(nodes[i], "const")
		}
		if !ok {
			out = append(out, nodes[i])
			continue
		}

		def := &ast.VariableDefinition{Define: define}
		j := i + 1
		if j < len(nodes) {
			if name, ok := isIdentifier(nodes[j]); ok {
				def.Name = name
				j++
			}
		}
		if def.Name == nil {
			def.Name = &ast.Invalid{Offset: define.End()}
			def.AddDiagnostic(ast.MissingVariableName)
		}

		if j < len(nodes) && ast.IsDelimiter(nodes[j], ":") {
			colon := nodes[j]
			j++
			if j < len(nodes) && isTypeName(nodes[j]) {
				def.Type = nodes[j]
				j++
			} else {
				def.Type = &ast.Invalid{Offset: colon.End()}
			}
		}

		out = append(out, def)
		i = j - 1
		changed = true
	}
	return out, changed
}

func isTypeName(n ast.Node) bool {
	a, ok := n.(*ast.Atomic)
	return ok && (a.Token.Kind == token.Identifier || a.Token.Kind == token.Keyword)
}

// foldUnary folds prefix operators. An operator directly followed by
// another one is left for a later iteration, which makes `!!x` nest from
// the inside out.
func foldUnary(nodes []ast.Node) ([]ast.Node, bool) {
	out := make([]ast.Node, 0, len(nodes))
	changed := false
	for i := 0; i < len(nodes); i++ {
		op, ok := ast.IsOperator(nodes[i], unaryOperators...)
		if !ok {
			out = append(out, nodes[i])
			continue
		}

		if i+1 < len(nodes) {
			next := nodes[i+1]
			if _, ok := ast.IsOperator(next, unaryOperators...); ok {
				out = append(out, op)
				continue
			}
			if isUnaryOperand(next) {
				out = append(out, &ast.UnaryOperation{Op: op, Operand: next})
				i++
				changed = true
				continue
			}
		}

		u := &ast.UnaryOperation{Op: op, Operand: &ast.Invalid{Offset: op.End()}}
		u.AddDiagnostic(ast.MissingRightOperand)
		out = append(out, u)
		changed = true
	}
	return out, changed
}

// foldBinary returns a left-associative pass over one precedence level.
func foldBinary(ops []string) pass {
	return func(nodes []ast.Node) ([]ast.Node, bool) {
		out := make([]ast.Node, 0, len(nodes))
		changed := false
		for i := 0; i < len(nodes); i++ {
			op, ok := ast.IsOperator(nodes[i], ops...)
			if !ok {
				out = append(out, nodes[i])
				continue
			}

			o := &ast.Operation{Op: op}
			if n := len(out); n > 0 && isLeftOperand(out[n-1]) {
				o.Left = out[n-1]
				out = out[:n-1]
			} else {
				o.Left = &ast.Invalid{Offset: op.Pos()}
				o.AddDiagnostic(ast.MissingLeftOperand)
			}

			if i+1 < len(nodes) && isRightOperand(nodes[i+1]) {
				o.Right = nodes[i+1]
				i++
			} else {
				o.Right = &ast.Invalid{Offset: op.End()}
				o.AddDiagnostic(ast.MissingRightOperand)
			}

			out = append(out, o)
			changed = true
		}
		return out, changed
	}
}

// extractIfs folds `if (cond) {..} else ..` chains.
func extractIfs(nodes []ast.Node) ([]ast.Node, bool) {
	out := make([]ast.Node, 0, len(nodes))
	changed := false
	for i := 0; i < len(nodes); {
		if _, ok := ast.IsKeyword(nodes[i], "if"); !ok {
			out = append(out, nodes[i])
			i++
			continue
		}
		stmt, next := parseIf(nodes, i)
		out = append(out, stmt)
		i = next
		changed = true
	}
	return out, changed
}

// parseIf builds the if statement starting at nodes[i] and returns the
// index of the first node after it.
func parseIf(nodes []ast.Node, i int) (*ast.IfStatement, int) {
	kw := nodes[i].(*ast.Atomic)
	s := &ast.IfStatement{If: kw}
	j := i + 1

	if j < len(nodes) {
		if cond, ok := isContainer(nodes[j], ast.NodeExpression); ok {
			s.Condition = cond
			j++
		}
	}
	if s.Condition == nil {
		s.Condition = &ast.Invalid{Offset: kw.End()}
		s.AddDiagnostic(ast.MissingCondition)
	}

	if j < len(nodes) {
		if block, ok := isContainer(nodes[j], ast.NodeBlock); ok {
			s.Then = block
			j++
		}
	}
	if s.Then == nil {
		at := s.Condition.End()
		s.Then = ast.NewContainer(ast.NodeBlock, at, at, nil)
		s.AddDiagnostic(ast.MissingBlock)
	}

	var elseKw *ast.Atomic
	if j < len(nodes) {
		elseKw, _ = ast.IsKeyword(nodes[j], "else")
	}
	if elseKw == nil {
		s.Else = ast.NewContainer(ast.NodeBlock, s.Then.End(), s.Then.End(), nil)
		return s, j
	}
	j++

	if j < len(nodes) {
		if block, ok := isContainer(nodes[j], ast.NodeBlock); ok {
			s.Else = block
			return s, j + 1
		}
		if _, ok := ast.IsKeyword(nodes[j], "if"); ok {
			nested, next := parseIf(nodes, j)
			s.Else = nested
			return s, next
		}
	}
	s.Else = ast.NewContainer(ast.NodeBlock, elseKw.End(), elseKw.End(), nil)
	s.AddDiagnostic(ast.MissingBlock)
	return s, j
}

// splitStatements wraps runs terminated by `;` into statements. Blocks
// and if statements stay direct children and end any open run.
func splitStatements(nodes []ast.Node) []ast.Node {
	var out, run []ast.Node

	flush := func() {
		if len(run) == 0 {
			return
		}
		st := ast.NewContainer(ast.NodeStatement, run[0].Pos(), run[len(run)-1].End(), run)
		st.AddDiagnostic(ast.MissingSemicolon)
		out = append(out, st)
		run = nil
	}

	for _, n := range nodes {
		switch {
		case ast.IsDelimiter(n, ";"):
			from := n.Pos()
			if len(run) > 0 {
				from = run[0].Pos()
			}
			st := ast.NewContainer(ast.NodeStatement, from, n.End(), run)
			if len(run) == 0 {
				st.AddDiagnostic(ast.RedundantDelimiter)
			}
			out = append(out, st)
			run = nil
		case isControlFlow(n):
			flush()
			out = append(out, n)
		default:
			run = append(run, n)
		}
	}
	flush()
	return out
}

// markStrayDelimiters replaces `;` outside programs and blocks with an
// invalid placeholder tagged RedundantDelimiter.
func markStrayDelimiters(nodes []ast.Node) []ast.Node {
	for i, n := range nodes {
		if ast.IsDelimiter(n, ";") {
			inv := &ast.Invalid{Offset: n.Pos()}
			inv.AddDiagnostic(ast.RedundantDelimiter)
			nodes[i] = inv
		}
	}
	return nodes
}

func isControlFlow(n ast.Node) bool {
	if _, ok := n.(*ast.IfStatement); ok {
		return true
	}
	_, ok := isContainer(n, ast.NodeBlock)
	return ok
}

// separateArguments splits an argument list on commas. A segment of
// several nodes is wrapped in an expression; an empty one becomes an
// invalid placeholder.
func separateArguments(nodes []ast.Node) []ast.Node {
	hasComma := false
	for _, n := range nodes {
		if ast.IsDelimiter(n, ",") {
			hasComma = true
			break
		}
	}
	if !hasComma {
		return nodes
	}

	var (
		out, seg []ast.Node
		at       int
	)
	for _, n := range nodes {
		if ast.IsDelimiter(n, ",") {
			out = append(out, segment(seg, n.Pos()))
			seg = nil
			at = n.End()
			continue
		}
		seg = append(seg, n)
	}
	return append(out, segment(seg, at))
}

func segment(seg []ast.Node, at int) ast.Node {
	switch len(seg) {
	case 0:
		inv := &ast.Invalid{Offset: at}
		inv.AddDiagnostic(ast.RedundantDelimiter)
		return inv
	case 1:
		return seg[0]
	}
	return ast.NewContainer(ast.NodeExpression, seg[0].Pos(), seg[len(seg)-1].End(), seg)
}
