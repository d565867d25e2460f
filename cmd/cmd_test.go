package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ntt/config"
)

// execute runs the root command with args. Commands share package level
// flag variables, so these tests do not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = ""
	timeout = defaultTimeout
	verbose = false
	ignoreRules, ignorePaths, outPath, cacheDir = "", "", "", ""
	jsonOutput, progress = false, false
	treeRoot, treeGroup, treeCompact = "", false, false
	queryPattern, queryKind, queryJson = "", "", false
	forceInit = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, "a.ntt", "let a = 1;")

	out, err := execute(t, "tokens", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"1:1", "keyword", "let"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1:5", "identifier", "a"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1:9", "integer", "1"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"1:10", "delimiter", ";"}, strings.Fields(lines[4]))
}

func TestTreeCommand(t *testing.T) {
	path := writeSource(t, "a.ntt", "x = 1")

	out, err := execute(t, "tree", "--compact", path)
	require.NoError(t, err)
	assert.Equal(t, "Program[Statement[=(x, 1)]{missing-semicolon}]\n", out)

	out, err = execute(t, "tree", "--compact", "--root", "block", path)
	require.NoError(t, err)
	assert.Equal(t, "Block[Statement[=(x, 1)]{missing-semicolon}]\n", out)

	grouped := writeSource(t, "g.ntt", "3 + (2 + 4)")
	out, err = execute(t, "tree", "--compact", "--group", grouped)
	require.NoError(t, err)
	assert.Equal(t, "Program[3, +, Expression[2, +, 4]]\n", out)

	out, err = execute(t, "tree", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Program\n"), out)
	assert.Contains(t, out, "[Missing semicolon]")

	_, err = execute(t, "tree", "--root", "Operation", path)
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	warnOnly := writeSource(t, "warn.ntt", "x = 1")
	out, err := execute(t, "check", warnOnly)
	require.NoError(t, err, "warnings do not fail the check")
	assert.Contains(t, out, "warning: missing-semicolon")
	assert.Contains(t, out, "1 | x = 1")

	broken := writeSource(t, "broken.ntt", "foo(1, 2")
	out, err = execute(t, "check", broken)
	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out, "error: missing-end-bracket")

	out, err = execute(t, "check", "--ignore", "missing-semicolon", warnOnly)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, broken)
	assert.ErrorIs(t, err, ErrIssuesFound, "bare paths run the check command")
	assert.Contains(t, out, "missing-end-bracket")

	_, err = execute(t, "check")
	assert.Error(t, err)
}

func TestCheckCommandJSON(t *testing.T) {
	path := writeSource(t, "a.ntt", "a;;")

	out, err := execute(t, "check", "--json", path)
	require.NoError(t, err)

	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got[path], 1)
	assert.Equal(t, "redundant-delimiter", got[path][0]["Rule"])
	assert.Equal(t, "info", got[path][0]["Severity"])

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	out, err = execute(t, "check", "--json", "-o", jsonPath, path)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "redundant-delimiter")
}

func TestCheckCommandWithConfigAndCache(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ntt.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[rules.missing-end-bracket]
severity = "warning"

[[queries]]
name = "calls"
message = "call found"
severity = "info"
pattern = { kind = "FunctionCall" }
`), 0o644))
	src := filepath.Join(dir, "a.ntt")
	require.NoError(t, os.WriteFile(src, []byte("foo(1, 2"), 0o644))
	cache := filepath.Join(dir, "cache")

	for i := 0; i < 2; i++ {
		out, err := execute(t, "--config", cfgPath, "check", "--cache", cache, src)
		require.NoError(t, err)
		assert.Contains(t, out, "warning: missing-end-bracket")
		assert.Contains(t, out, "info: calls")
	}
	_, err := os.Stat(filepath.Join(cache, "ntt_cache.gob"))
	assert.NoError(t, err)
}

func TestQueryCommand(t *testing.T) {
	path := writeSource(t, "q.ntt", "foo(1);\nbar(2);")

	out, err := execute(t, "query", "--kind", "FunctionCall", path)
	require.NoError(t, err)
	assert.Equal(t,
		path+":1:1: Call(foo, CallArguments[1])\n"+
			path+":2:1: Call(bar, CallArguments[2])\n",
		out)

	pattern := writeSource(t, "p.yaml", "sequence:\n  - token: [identifier]\n  - kind: Expression\n")
	grouped := writeSource(t, "g.ntt", "x (1);")
	out, err = execute(t, "--config", "", "query", "--pattern", pattern, "--json", grouped)
	require.NoError(t, err)
	var matches []Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	assert.Empty(t, matches, "calls are extracted before matching")

	_, err = execute(t, "query", path)
	assert.Error(t, err)
	_, err = execute(t, "query", "--kind", "Loop", path)
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ntt.yaml")

	out, err := execute(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = execute(t, "--config", path, "init")
	assert.Error(t, err, "existing files are kept")

	_, err = execute(t, "--config", path, "init", "--force")
	assert.NoError(t, err)
}
