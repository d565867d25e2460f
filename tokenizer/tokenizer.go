// Package tokenizer splits source text into tokens using a prioritized
// rule table. The first rule matching at the current position wins.
package tokenizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gnolang/ntt/token"
)

// emitFunc turns a matched lexeme into a token.
type emitFunc func(lexeme string, offset int) token.Token

type rule struct {
	name    string
	pattern *regexp.Regexp
	emit    emitFunc
}

// operators in matching order. Longer operators come first so that
// `+=` is never split into `+` and `=`.
var operators = []string{
	"==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "^", "@", "!", "|", "&", "=", "<", ">",
}

var rules = []rule{
	{"operator", alternation(operators), text(token.Operator)},
	{"malformed", regexp.MustCompile(`^[0-9]+[A-Za-z_][A-Za-z0-9_]*`), text(token.Invalid)},
	{"boolean", regexp.MustCompile(`^(true|false)\b`), boolean},
	{"identifier", regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`), identifier},
	{"delimiter", regexp.MustCompile(`^[;,:]`), text(token.Delimiter)},
	{"bracket", regexp.MustCompile(`^[(){}\[\]]`), text(token.Bracket)},
	{"float", regexp.MustCompile(`^([0-9]+\.[0-9]*|\.[0-9]+)`), float},
	{"integer", regexp.MustCompile(`^[0-9]+`), integer},
	{"string", regexp.MustCompile(`^"(\\.|[^"\\])*"`), text(token.String)},
	{"invalid", regexp.MustCompile(`^[^ ]+`), text(token.Invalid)},
}

func alternation(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)`)
}

// Normalize replaces line breaks and tabs with spaces. Every replaced
// character is a single byte so offsets are preserved.
func Normalize(text string) string {
	b := []byte(text)
	for i, c := range b {
		switch c {
		case '\n', '\r', '\t':
			b[i] = ' '
		}
	}
	return string(b)
}

// Tokenize scans text into tokens. It never fails: input no rule
// recognizes becomes invalid tokens.
func Tokenize(text string) []token.Token {
	src := Normalize(text)

	var toks []token.Token
	pos := 0
	for {
		for pos < len(src) && src[pos] == ' ' {
			pos++
		}
		if pos >= len(src) {
			return toks
		}

		rest := src[pos:]
		for _, r := range rules {
			loc := r.pattern.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			toks = append(toks, r.emit(rest[:loc[1]], pos))
			pos += loc[1]
			break
		}
	}
}

func text(kind token.Kind) emitFunc {
	return func(lexeme string, offset int) token.Token {
		return token.NewText(kind, offset, lexeme)
	}
}

func identifier(lexeme string, offset int) token.Token {
	return token.NewText(token.Lookup(lexeme), offset, lexeme)
}

func boolean(lexeme string, offset int) token.Token {
	return token.NewBoolean(offset, len(lexeme), lexeme == "true")
}

func integer(lexeme string, offset int) token.Token {
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return token.NewText(token.Invalid, offset, lexeme)
	}
	return token.NewInteger(offset, len(lexeme), v)
}

func float(lexeme string, offset int) token.Token {
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.NewText(token.Invalid, offset, lexeme)
	}
	return token.NewFloat(offset, len(lexeme), v)
}
