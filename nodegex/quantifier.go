package nodegex

import (
	"fmt"

	"github.com/gnolang/ntt/ast"
)

// Quantifier controls how many times a pattern is applied.
type Quantifier int

const (
	Once       Quantifier = iota // exactly one match
	ZeroOrOnce                   // ?
	ZeroOrMore                   // *
	OneOrMore                    // +
)

func (q Quantifier) String() string {
	switch q {
	case ZeroOrOnce:
		return "?"
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	default:
		return ""
	}
}

// ParseQuantifier accepts either the symbol or the spelled out name.
func ParseQuantifier(s string) (Quantifier, error) {
	switch s {
	case "", "once":
		return Once, nil
	case "?", "zero-or-once", "optional":
		return ZeroOrOnce, nil
	case "*", "zero-or-more":
		return ZeroOrMore, nil
	case "+", "one-or-more":
		return OneOrMore, nil
	}
	return Once, fmt.Errorf("%w: unknown quantifier %q", ErrInvalidSpec, s)
}

type matchFunc func(nodes []ast.Node, cursor int) (int, bool)

// quantify applies q around a single-step matcher. Repetition stops as
// soon as a step fails or consumes nothing.
func quantify(q Quantifier, nodes []ast.Node, cursor int, step matchFunc) (int, bool) {
	switch q {
	case Once:
		return step(nodes, cursor)
	case ZeroOrOnce:
		if next, ok := step(nodes, cursor); ok {
			return next, true
		}
		return cursor, true
	case ZeroOrMore:
		return repeat(nodes, cursor, step), true
	case OneOrMore:
		next, ok := step(nodes, cursor)
		if !ok {
			return cursor, false
		}
		return repeat(nodes, next, step), true
	}
	panic(fmt.Sprintf("nodegex: invalid quantifier %d", int(q)))
}

func repeat(nodes []ast.Node, cursor int, step matchFunc) int {
	for {
		next, ok := step(nodes, cursor)
		if !ok || next == cursor {
			return cursor
		}
		cursor = next
	}
}
