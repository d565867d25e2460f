package nodegex

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/token"
	"github.com/gnolang/ntt/tokenizer"
)

var ErrInvalidSpec = errors.New("invalid pattern spec")

// Spec is the declarative form of a pattern, as found in configuration
// files. Exactly one of Kind, Sequence or Branch must be set; Token and
// Values imply Kind "Atomic". Values are written as source text and
// tokenized, so "3" is an integer and "foo" an identifier.
//
//	sequence:
//	  - token: [identifier]
//	  - kind: Expression
//	    quantifier: "?"
type Spec struct {
	Kind       string   `yaml:"kind,omitempty" toml:"kind,omitempty" json:"kind,omitempty"`
	Token      []string `yaml:"token,omitempty" toml:"token,omitempty" json:"token,omitempty"`
	Values     []string `yaml:"values,omitempty" toml:"values,omitempty" json:"values,omitempty"`
	Sequence   []Spec   `yaml:"sequence,omitempty" toml:"sequence,omitempty" json:"sequence,omitempty"`
	Branch     []Spec   `yaml:"branch,omitempty" toml:"branch,omitempty" json:"branch,omitempty"`
	Quantifier string   `yaml:"quantifier,omitempty" toml:"quantifier,omitempty" json:"quantifier,omitempty"`
}

// Compile turns s into a Pattern.
func Compile(s Spec) (Pattern, error) {
	q, err := ParseQuantifier(s.Quantifier)
	if err != nil {
		return nil, err
	}

	set := 0
	if s.Kind != "" || len(s.Token) > 0 || len(s.Values) > 0 {
		set++
	}
	if len(s.Sequence) > 0 {
		set++
	}
	if len(s.Branch) > 0 {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: exactly one of kind, sequence or branch is required", ErrInvalidSpec)
	}

	switch {
	case len(s.Sequence) > 0:
		subs, err := compileAll(s.Sequence)
		if err != nil {
			return nil, err
		}
		return &Sequence{Patterns: subs, Quantifier: q}, nil
	case len(s.Branch) > 0:
		subs, err := compileAll(s.Branch)
		if err != nil {
			return nil, err
		}
		return &Branch{Patterns: subs, Quantifier: q}, nil
	}
	return compileSingle(s, q)
}

func compileAll(specs []Spec) ([]Pattern, error) {
	out := make([]Pattern, 0, len(specs))
	for i, s := range specs {
		p, err := Compile(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func compileSingle(s Spec, q Quantifier) (*Single, error) {
	kind := ast.NodeAtomic
	if s.Kind != "" {
		k, ok := ast.ParseKind(s.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidSpec, s.Kind)
		}
		kind = k
	}
	if kind != ast.NodeAtomic && (len(s.Token) > 0 || len(s.Values) > 0) {
		return nil, fmt.Errorf("%w: token and values only apply to Atomic nodes", ErrInvalidSpec)
	}

	p := &Single{Kind: kind, Quantifier: q}
	for _, name := range s.Token {
		k, ok := token.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown token kind %q", ErrInvalidSpec, name)
		}
		p.TokenKinds = append(p.TokenKinds, k)
	}
	for _, v := range s.Values {
		toks := tokenizer.Tokenize(v)
		if len(toks) != 1 {
			return nil, fmt.Errorf("%w: value %q is not a single token", ErrInvalidSpec, v)
		}
		p.Values = append(p.Values, toks[0])
	}
	return p, nil
}

// ParseSpec decodes a YAML pattern document.
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing pattern: %w", err)
	}
	return s, nil
}

// LoadFile reads and compiles a YAML pattern file.
func LoadFile(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return Compile(s)
}
