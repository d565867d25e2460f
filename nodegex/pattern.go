// Package nodegex matches regular-expression-like patterns against
// sequences of tree nodes.
//
// A pattern is applied at a cursor into a node slice. On success it
// returns the cursor just past the consumed nodes; on failure it returns
// the cursor it was given. Patterns never modify the nodes.
package nodegex

import (
	"strings"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/token"
)

// Pattern is implemented by Single, Sequence and Branch.
type Pattern interface {
	Match(nodes []ast.Node, cursor int) (int, bool)
	String() string
}

var (
	_ Pattern = (*Single)(nil)
	_ Pattern = (*Sequence)(nil)
	_ Pattern = (*Branch)(nil)
)

// Match applies p to nodes at cursor.
func Match(nodes []ast.Node, cursor int, p Pattern) (int, bool) {
	return p.Match(nodes, cursor)
}

// Single matches one node of the given kind. For atomic nodes the token
// kind must be one of TokenKinds and the token must equal one of Values;
// an empty list accepts anything.
type Single struct {
	Kind       ast.Kind
	TokenKinds []token.Kind
	Values     []token.Token
	Quantifier Quantifier
}

func (p *Single) Match(nodes []ast.Node, cursor int) (int, bool) {
	return quantify(p.Quantifier, nodes, cursor, p.step)
}

func (p *Single) step(nodes []ast.Node, cursor int) (int, bool) {
	if cursor < 0 || cursor >= len(nodes) {
		return cursor, false
	}
	n := nodes[cursor]
	if n.Kind() != p.Kind {
		return cursor, false
	}
	if a, ok := n.(*ast.Atomic); ok && !p.accepts(a.Token) {
		return cursor, false
	}
	return cursor + 1, true
}

func (p *Single) accepts(t token.Token) bool {
	if len(p.TokenKinds) > 0 {
		found := false
		for _, k := range p.TokenKinds {
			if t.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(p.Values) == 0 {
		return true
	}
	for _, v := range p.Values {
		if v.SameValue(t) {
			return true
		}
	}
	return false
}

func (p *Single) String() string {
	var b strings.Builder
	b.WriteString(p.Kind.String())
	if len(p.TokenKinds) > 0 || len(p.Values) > 0 {
		b.WriteByte('(')
		kinds := make([]string, len(p.TokenKinds))
		for i, k := range p.TokenKinds {
			kinds[i] = k.String()
		}
		b.WriteString(strings.Join(kinds, "|"))
		if len(p.Values) > 0 {
			if len(kinds) > 0 {
				b.WriteByte(' ')
			}
			values := make([]string, len(p.Values))
			for i, v := range p.Values {
				values[i] = v.Value()
			}
			b.WriteString(strings.Join(values, "|"))
		}
		b.WriteByte(')')
	}
	b.WriteString(p.Quantifier.String())
	return b.String()
}

// Sequence matches every sub-pattern in order. If any of them fails,
// nothing is consumed.
type Sequence struct {
	Patterns   []Pattern
	Quantifier Quantifier
}

func (p *Sequence) Match(nodes []ast.Node, cursor int) (int, bool) {
	return quantify(p.Quantifier, nodes, cursor, p.step)
}

func (p *Sequence) step(nodes []ast.Node, cursor int) (int, bool) {
	cur := cursor
	for _, sub := range p.Patterns {
		next, ok := sub.Match(nodes, cur)
		if !ok {
			return cursor, false
		}
		cur = next
	}
	return cur, true
}

func (p *Sequence) String() string {
	return "(" + join(p.Patterns, " ") + ")" + p.Quantifier.String()
}

// Branch tries each alternative in order and takes the first that
// matches.
type Branch struct {
	Patterns   []Pattern
	Quantifier Quantifier
}

func (p *Branch) Match(nodes []ast.Node, cursor int) (int, bool) {
	return quantify(p.Quantifier, nodes, cursor, p.step)
}

func (p *Branch) step(nodes []ast.Node, cursor int) (int, bool) {
	for _, alt := range p.Patterns {
		if next, ok := alt.Match(nodes, cursor); ok {
			return next, true
		}
	}
	return cursor, false
}

func (p *Branch) String() string {
	return "(" + join(p.Patterns, " | ") + ")" + p.Quantifier.String()
}

func join(ps []Pattern, sep string) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}

// Node returns a pattern matching one node of kind k.
func Node(k ast.Kind) *Single {
	return &Single{Kind: k}
}

// Atom returns a pattern matching one atomic node whose token has the
// given kind and, when texts are given, one of the given spellings.
// Numeric and boolean kinds take no texts; use Literal for those.
func Atom(kind token.Kind, texts ...string) *Single {
	p := &Single{Kind: ast.NodeAtomic, TokenKinds: []token.Kind{kind}}
	for _, s := range texts {
		p.Values = append(p.Values, token.NewText(kind, 0, s))
	}
	return p
}

// Literal returns a pattern matching one atomic node equal to any of the
// given tokens.
func Literal(values ...token.Token) *Single {
	return &Single{Kind: ast.NodeAtomic, Values: values}
}

// Seq returns a sequence of ps.
func Seq(ps ...Pattern) *Sequence {
	return &Sequence{Patterns: ps}
}

// Alt returns a branch over ps.
func Alt(ps ...Pattern) *Branch {
	return &Branch{Patterns: ps}
}

// Repeat returns a copy of p with quantifier q.
func Repeat(p Pattern, q Quantifier) Pattern {
	switch p := p.(type) {
	case *Single:
		c := *p
		c.Quantifier = q
		return &c
	case *Sequence:
		c := *p
		c.Quantifier = q
		return &c
	case *Branch:
		c := *p
		c.Quantifier = q
		return &c
	}
	// Foreign implementations are wrapped in a one-element sequence.
	return &Sequence{Patterns: []Pattern{p}, Quantifier: q}
}
