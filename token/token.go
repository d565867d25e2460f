package token

import (
	"fmt"
	"strconv"
)

// Kind classifies a lexical unit.
type Kind int

const (
	Invalid Kind = iota
	Float
	Integer
	Boolean
	String
	Keyword
	Identifier
	Bracket
	Delimiter
	Operator
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Float:      "float",
	Integer:    "integer",
	Boolean:    "boolean",
	String:     "string",
	Keyword:    "keyword",
	Identifier: "identifier",
	Bracket:    "bracket",
	Delimiter:  "delimiter",
	Operator:   "operator",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ParseKind returns the kind named s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return Invalid, false
}

// IsLiteral reports whether k carries a literal value.
func (k Kind) IsLiteral() bool {
	switch k {
	case Float, Integer, Boolean, String:
		return true
	}
	return false
}

// Token is an immutable lexical unit. The payload is selected by Kind:
// numbers and booleans are decoded, every other kind keeps its source text.
type Token struct {
	Kind   Kind
	Offset int // byte offset in the normalized source
	Length int // number of bytes consumed

	text string
	i    int64
	f    float64
	b    bool
}

// NewInteger returns an integer literal token.
func NewInteger(offset, length int, v int64) Token {
	return Token{Kind: Integer, Offset: offset, Length: length, i: v}
}

// NewFloat returns a float literal token.
func NewFloat(offset, length int, v float64) Token {
	return Token{Kind: Float, Offset: offset, Length: length, f: v}
}

// NewBoolean returns a boolean literal token.
func NewBoolean(offset, length int, v bool) Token {
	return Token{Kind: Boolean, Offset: offset, Length: length, b: v}
}

// NewText returns a token of a textual kind. It panics when kind holds
// a decoded payload.
func NewText(kind Kind, offset int, text string) Token {
	if kind == Integer || kind == Float || kind == Boolean {
		panic(fmt.Sprintf("token: %s token cannot hold text", kind))
	}
	return Token{Kind: kind, Offset: offset, Length: len(text), text: text}
}

// End returns the offset just past the token.
func (t Token) End() int { return t.Offset + t.Length }

// Int returns the value of an integer token.
func (t Token) Int() int64 {
	t.must(Integer)
	return t.i
}

// Float returns the value of a float token.
func (t Token) Float() float64 {
	t.must(Float)
	return t.f
}

// Bool returns the value of a boolean token.
func (t Token) Bool() bool {
	t.must(Boolean)
	return t.b
}

// Text returns the source text of a textual token. String tokens keep
// their surrounding quotes.
func (t Token) Text() string {
	if t.Kind == Integer || t.Kind == Float || t.Kind == Boolean {
		panic(fmt.Sprintf("token: Text called on %s token", t.Kind))
	}
	return t.text
}

func (t Token) must(k Kind) {
	if t.Kind != k {
		panic(fmt.Sprintf("token: %s value requested from %s token", k, t.Kind))
	}
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	if t.Kind != kind || kind == Integer || kind == Float || kind == Boolean {
		return false
	}
	return t.text == text
}

// SameValue reports whether t and u have the same kind and payload,
// ignoring their positions.
func (t Token) SameValue(u Token) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case Integer:
		return t.i == u.i
	case Float:
		return t.f == u.f
	case Boolean:
		return t.b == u.b
	default:
		return t.text == u.text
	}
}

// Value renders the payload as source-like text.
func (t Token) Value() string {
	switch t.Kind {
	case Integer:
		return strconv.FormatInt(t.i, 10)
	case Float:
		return strconv.FormatFloat(t.f, 'g', -1, 64)
	case Boolean:
		return strconv.FormatBool(t.b)
	default:
		return t.text
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Value(), t.Offset)
}

var keywords = map[string]bool{
	"number":   true,
	"string":   true,
	"boolean":  true,
	"null":     true,
	"if":       true,
	"else":     true,
	"while":    true,
	"for":      true,
	"const":    true,
	"let":      true,
	"function": true,
	"class":    true,
}

// Lookup maps an identifier to Keyword when it is reserved.
func Lookup(ident string) Kind {
	if keywords[ident] {
		return Keyword
	}
	return Identifier
}
