package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/config"
	tt "github.com/gnolang/ntt/internal/types"
	"github.com/gnolang/ntt/nodegex"
	"github.com/gnolang/ntt/token"
)

func newEngine(t *testing.T, cfg config.Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func rules(issues []tt.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Rule)
	}
	return out
}

func pos(offset int) token.Position {
	return token.Position{Offset: offset, Line: 1, Column: offset + 1}
}

func TestRunSource(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"clean", "x = 42;", []string{}},
		{"missing semicolon", "x = 42", []string{"missing-semicolon"}},
		{"unclosed call", "foo(1, 2", []string{"missing-semicolon", "missing-end-bracket"}},
		{"redundant delimiter", "a;;", []string{"redundant-delimiter"}},
		{"missing condition", "if {x += 1;}", []string{"missing-condition"}},
		{"missing variable name", "let = 5;", []string{"missing-variable-name"}},
		{"missing left operand", "+ 4;", []string{"missing-left-operand"}},
	}
	e := newEngine(t, config.Default())
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			issues, err := e.RunSource("test.ntt", []byte(tc.source))
			require.NoError(t, err)
			assert.Equal(t, tc.want, rules(issues))
		})
	}
}

func TestRunSourcePositions(t *testing.T) {
	t.Parallel()

	e := newEngine(t, config.Default())
	issues, err := e.RunSource("a.ntt", []byte("x = 1;\nfoo(1, 2"))
	require.NoError(t, err)
	require.Len(t, issues, 2)

	semi := issues[0]
	assert.Equal(t, "missing-semicolon", semi.Rule)
	assert.Equal(t, tt.SeverityWarning, semi.Severity)
	assert.Equal(t, "Missing semicolon", semi.Message)
	assert.Equal(t, "a.ntt", semi.Filename)
	assert.Equal(t, 2, semi.Start.Line)
	assert.Equal(t, 1, semi.Start.Column)

	bracket := issues[1]
	assert.Equal(t, "missing-end-bracket", bracket.Rule)
	assert.Equal(t, tt.SeverityError, bracket.Severity)
	assert.Equal(t, "syntax", bracket.Category)
	assert.NotEmpty(t, bracket.Suggestion)
	assert.Equal(t, "a.ntt:2:4", bracket.Start.String())
	assert.Equal(t, 2, bracket.End.Line)
}

func TestSeverityFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Rules[ast.MissingSemicolon.Name()] = tt.ConfigRule{Severity: tt.SeverityOff}
	cfg.Rules[ast.MissingEndBracket.Name()] = tt.ConfigRule{Severity: tt.SeverityInfo}

	issues, err := newEngine(t, cfg).RunSource("t.ntt", []byte("foo(1, 2"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "missing-end-bracket", issues[0].Rule)
	assert.Equal(t, tt.SeverityInfo, issues[0].Severity)
}

func TestIgnoreRule(t *testing.T) {
	t.Parallel()

	e := newEngine(t, config.Default())
	e.IgnoreRule("missing-semicolon")
	issues, err := e.RunSource("t.ntt", []byte("foo(1, 2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"missing-end-bracket"}, rules(issues))
}

func TestQueries(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Queries = []config.Query{
		{
			Name:     "calls",
			Message:  "call found",
			Note:     "calls are discouraged",
			Severity: tt.SeverityInfo,
			Pattern:  nodegex.Spec{Kind: "FunctionCall"},
		},
		{
			Name:     "disabled",
			Severity: tt.SeverityOff,
			Pattern:  nodegex.Spec{Kind: "Statement"},
		},
	}

	issues, err := newEngine(t, cfg).RunSource("q.ntt", []byte("foo(1);\nbar();\n"))
	require.NoError(t, err)
	require.Len(t, issues, 2)

	for i, line := range []int{1, 2} {
		assert.Equal(t, "calls", issues[i].Rule)
		assert.Equal(t, "query", issues[i].Category)
		assert.Equal(t, "call found", issues[i].Message)
		assert.Equal(t, "calls are discouraged", issues[i].Note)
		assert.Equal(t, line, issues[i].Start.Line)
		assert.Equal(t, 1, issues[i].Start.Column)
	}
	assert.Equal(t, 7, issues[0].End.Column)
}

func TestQueryDefaultMessage(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Queries = []config.Query{{Name: "ifs", Pattern: nodegex.Spec{Kind: "IfStatement"}}}
	issues, err := newEngine(t, cfg).RunSource("q.ntt", []byte("if (a) { b; }"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "matches query ifs", issues[0].Message)
	assert.Equal(t, tt.SeverityError, issues[0].Severity)
}

func TestNewInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = "Operation"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = config.Default()
	cfg.Queries = []config.Query{{Name: "bad", Pattern: nodegex.Spec{}}}
	_, err = New(cfg)
	assert.ErrorIs(t, err, nodegex.ErrInvalidSpec)
}

func TestRootKind(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = "Expression"
	e := newEngine(t, cfg)
	assert.Equal(t, ast.NodeExpression, e.Root())

	issues, err := e.RunSource("e.ntt", []byte("a, , b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"redundant-delimiter"}, rules(issues))
}

func TestRunFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.ntt")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	e := newEngine(t, config.Default())
	issues, err := e.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, path, issues[0].Filename)

	_, err = e.Run(filepath.Join(dir, "missing.ntt"))
	assert.Error(t, err)
}

func TestIgnorePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gen := filepath.Join(dir, "gen", "out.ntt")
	require.NoError(t, os.MkdirAll(filepath.Dir(gen), 0o755))
	require.NoError(t, os.WriteFile(gen, []byte("x = 1"), 0o644))

	tests := []struct {
		name    string
		pattern string
	}{
		{"base name glob", "*.ntt"},
		{"directory prefix", filepath.Join(dir, "gen")},
		{"full path", gen},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newEngine(t, config.Default())
			e.IgnorePath(tc.pattern)
			issues, err := e.Run(gen)
			require.NoError(t, err)
			assert.Empty(t, issues)
		})
	}
}

func TestSortIssues(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{
		{Filename: "b", Rule: "x"},
		{Filename: "a", Rule: "z", Start: pos(5)},
		{Filename: "a", Rule: "y", Start: pos(5)},
		{Filename: "a", Rule: "w", Start: pos(1)},
	}
	SortIssues(issues)
	assert.Equal(t, []string{"w", "y", "z", "x"}, rules(issues))
}

func TestSourceCode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s.ntt")
	require.NoError(t, os.WriteFile(path, []byte("a;\nb;\n"), 0o644))
	sc, err := ReadSourceCode(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a;", "b;", ""}, sc.Lines)
}
