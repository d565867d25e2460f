package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented, human readable dump of the tree to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) labelled(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}
	diags := diagSuffix(node)

	switch n := node.(type) {
	case *Atomic:
		p.printf("Atomic %s %s%s\n", n.Token.Kind, n.Token.Value(), diags)

	case *Container:
		p.printf("%s%s\n", n.Kind(), diags)
		p.indent++
		for _, c := range n.Children {
			p.print(c)
		}
		p.indent--

	case *Operation:
		p.printf("Operation %s%s\n", n.Op.Token.Value(), diags)
		p.indent++
		p.print(n.Left)
		p.print(n.Right)
		p.indent--

	case *UnaryOperation:
		p.printf("UnaryOperation %s%s\n", n.Op.Token.Value(), diags)
		p.indent++
		p.print(n.Operand)
		p.indent--

	case *IfStatement:
		p.printf("IfStatement%s\n", diags)
		p.indent++
		p.labelled("Condition", n.Condition)
		p.labelled("Then", n.Then)
		p.labelled("Else", n.Else)
		p.indent--

	case *FunctionCall:
		p.printf("FunctionCall %s%s\n", n.Callee.Token.Value(), diags)
		p.indent++
		p.print(n.Args)
		p.indent--

	case *VariableDefinition:
		p.printf("VariableDefinition %s%s\n", n.Define.Token.Value(), diags)
		p.indent++
		p.labelled("Name", n.Name)
		if n.Type != nil {
			p.labelled("Type", n.Type)
		}
		p.indent--

	case *Invalid:
		p.printf("Invalid%s\n", diags)
	}
}

func diagSuffix(n Node) string {
	errs := n.Diagnostics()
	if len(errs) == 0 {
		return ""
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return " [" + strings.Join(msgs, ", ") + "]"
}

// Sprint renders n on a single line. Containers print as Kind[...],
// operators as op(left, right), and diagnostics follow the node in braces:
//
//	Program[Statement[=(a, 5)]{missing-semicolon}]
func Sprint(n Node) string {
	var b strings.Builder
	sprint(&b, n)
	return b.String()
}

func sprint(b *strings.Builder, node Node) {
	list := func(nodes ...Node) {
		for i, c := range nodes {
			if i > 0 {
				b.WriteString(", ")
			}
			sprint(b, c)
		}
	}

	switch n := node.(type) {
	case *Atomic:
		b.WriteString(n.Token.Value())
	case *Container:
		b.WriteString(n.Kind().String())
		b.WriteByte('[')
		list(n.Children...)
		b.WriteByte(']')
	case *Operation:
		b.WriteString(n.Op.Token.Value())
		b.WriteByte('(')
		list(n.Left, n.Right)
		b.WriteByte(')')
	case *UnaryOperation:
		b.WriteString(n.Op.Token.Value())
		b.WriteByte('(')
		list(n.Operand)
		b.WriteByte(')')
	case *IfStatement:
		b.WriteString("If(")
		list(n.Condition, n.Then, n.Else)
		b.WriteByte(')')
	case *FunctionCall:
		b.WriteString("Call(")
		b.WriteString(n.Callee.Token.Value())
		b.WriteString(", ")
		sprint(b, n.Args)
		b.WriteByte(')')
	case *VariableDefinition:
		b.WriteString("Def(")
		list(n.Define, n.Name)
		if n.Type != nil {
			b.WriteString(": ")
			sprint(b, n.Type)
		}
		b.WriteByte(')')
	case *Invalid:
		b.WriteString("Invalid")
	}

	if errs := node.Diagnostics(); len(errs) > 0 {
		names := make([]string, len(errs))
		for i, e := range errs {
			names[i] = e.Name()
		}
		b.WriteString("{" + strings.Join(names, ",") + "}")
	}
}
