// Package ast declares the node types of a parsed source tree.
package ast

import (
	"strconv"
	"strings"

	"github.com/gnolang/ntt/token"
)

// Kind identifies a node variant. Containers report the kind of
// sequence they hold.
type Kind int

const (
	NodeAtomic Kind = iota
	NodeProgram
	NodeBlock
	NodeExpression
	NodeIndex
	NodeStatement
	NodeCallArguments
	NodeOperation
	NodeUnaryOperation
	NodeIfStatement
	NodeFunctionCall
	NodeVariableDefinition
	NodeInvalid
)

var kindNames = [...]string{
	NodeAtomic:             "Atomic",
	NodeProgram:            "Program",
	NodeBlock:              "Block",
	NodeExpression:         "Expression",
	NodeIndex:              "Index",
	NodeStatement:          "Statement",
	NodeCallArguments:      "CallArguments",
	NodeOperation:          "Operation",
	NodeUnaryOperation:     "UnaryOperation",
	NodeIfStatement:        "IfStatement",
	NodeFunctionCall:       "FunctionCall",
	NodeVariableDefinition: "VariableDefinition",
	NodeInvalid:            "Invalid",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsContainer reports whether k names a container kind.
func (k Kind) IsContainer() bool {
	return k >= NodeProgram && k <= NodeCallArguments
}

// ParseKind returns the kind named s, ignoring case.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), true
		}
	}
	return 0, false
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	Pos() int // offset of the first byte belonging to the node
	End() int // offset just past the node

	Diagnostics() []ErrorKind
	AddDiagnostic(ErrorKind)
	HasDiagnostic(ErrorKind) bool

	aNode()
}

var (
	_ Node = (*Atomic)(nil)
	_ Node = (*Container)(nil)
	_ Node = (*Operation)(nil)
	_ Node = (*UnaryOperation)(nil)
	_ Node = (*IfStatement)(nil)
	_ Node = (*FunctionCall)(nil)
	_ Node = (*VariableDefinition)(nil)
	_ Node = (*Invalid)(nil)
)

// Atomic is a leaf wrapping exactly one token.
type Atomic struct {
	diagnostics
	Token token.Token
}

func (a *Atomic) Kind() Kind { return NodeAtomic }
func (a *Atomic) Pos() int   { return a.Token.Offset }
func (a *Atomic) End() int   { return a.Token.End() }
func (*Atomic) aNode()       {}

// Container is an ordered sequence of children. From and To delimit the
// source range it covers, brackets included.
type Container struct {
	diagnostics
	kind     Kind
	From, To int
	Children []Node
}

// NewContainer returns a container of the given kind. It panics if kind
// is not a container kind.
func NewContainer(kind Kind, from, to int, children []Node) *Container {
	if !kind.IsContainer() {
		panic("ast: " + kind.String() + " is not a container kind")
	}
	return &Container{kind: kind, From: from, To: to, Children: children}
}

func (c *Container) Kind() Kind { return c.kind }
func (c *Container) Pos() int   { return c.From }
func (c *Container) End() int   { return c.To }
func (*Container) aNode()       {}

// Operation is a binary operator applied to two operands.
type Operation struct {
	diagnostics
	Op          *Atomic
	Left, Right Node
}

func (o *Operation) Kind() Kind { return NodeOperation }
func (o *Operation) Pos() int   { return min(o.Left.Pos(), o.Op.Pos()) }
func (o *Operation) End() int   { return max(o.Right.End(), o.Op.End()) }
func (*Operation) aNode()       {}

// UnaryOperation is a prefix operator applied to one operand.
type UnaryOperation struct {
	diagnostics
	Op      *Atomic
	Operand Node
}

func (u *UnaryOperation) Kind() Kind { return NodeUnaryOperation }
func (u *UnaryOperation) Pos() int   { return u.Op.Pos() }
func (u *UnaryOperation) End() int   { return max(u.Operand.End(), u.Op.End()) }
func (*UnaryOperation) aNode()       {}

// IfStatement is a conditional. Else is never nil: it is either a Block
// container, possibly empty, or a nested IfStatement.
type IfStatement struct {
	diagnostics
	If        *Atomic
	Condition Node
	Then      *Container
	Else      Node
}

func (s *IfStatement) Kind() Kind { return NodeIfStatement }
func (s *IfStatement) Pos() int   { return s.If.Pos() }
func (s *IfStatement) End() int {
	return max(s.If.End(), s.Condition.End(), s.Then.End(), s.Else.End())
}
func (*IfStatement) aNode() {}

// FunctionCall is a callee identifier applied to an argument list.
type FunctionCall struct {
	diagnostics
	Callee *Atomic
	Args   *Container // NodeCallArguments
}

func (f *FunctionCall) Kind() Kind { return NodeFunctionCall }
func (f *FunctionCall) Pos() int   { return f.Callee.Pos() }
func (f *FunctionCall) End() int   { return max(f.Callee.End(), f.Args.End()) }
func (*FunctionCall) aNode()       {}

// VariableDefinition introduces a name with let or const. Type is nil
// when no annotation is present.
type VariableDefinition struct {
	diagnostics
	Define *Atomic
	Name   Node
	Type   Node
}

func (v *VariableDefinition) Kind() Kind { return NodeVariableDefinition }
func (v *VariableDefinition) Pos() int   { return v.Define.Pos() }
func (v *VariableDefinition) End() int {
	end := max(v.Define.End(), v.Name.End())
	if v.Type != nil {
		end = max(end, v.Type.End())
	}
	return end
}
func (*VariableDefinition) aNode() {}

// Invalid stands in for a missing or unusable node. It occupies no
// source text.
type Invalid struct {
	diagnostics
	Offset int
}

func (i *Invalid) Kind() Kind { return NodeInvalid }
func (i *Invalid) Pos() int   { return i.Offset }
func (i *Invalid) End() int   { return i.Offset }
func (*Invalid) aNode()       {}

// IsOperator reports whether n is an atomic operator token with one of
// the given spellings. With no spellings any operator matches.
func IsOperator(n Node, ops ...string) (*Atomic, bool) {
	return isAtomic(n, token.Operator, ops)
}

// IsDelimiter reports whether n is the atomic delimiter d.
func IsDelimiter(n Node, d string) bool {
	_, ok := isAtomic(n, token.Delimiter, []string{d})
	return ok
}

// IsKeyword reports whether n is the atomic keyword kw.
func IsKeyword(n Node, kw string) (*Atomic, bool) {
	return isAtomic(n, token.Keyword, []string{kw})
}

// IsBracket reports whether n is the atomic bracket b.
func IsBracket(n Node, b string) (*Atomic, bool) {
	return isAtomic(n, token.Bracket, []string{b})
}

func isAtomic(n Node, kind token.Kind, texts []string) (*Atomic, bool) {
	a, ok := n.(*Atomic)
	if !ok || a.Token.Kind != kind {
		return nil, false
	}
	if len(texts) == 0 {
		return a, true
	}
	for _, s := range texts {
		if a.Token.Is(kind, s) {
			return a, true
		}
	}
	return nil, false
}
