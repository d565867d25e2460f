package check

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/config"
	tt "github.com/gnolang/ntt/internal/types"
	"github.com/gnolang/ntt/nodegex"
	"github.com/gnolang/ntt/parser"
	"github.com/gnolang/ntt/token"
)

const (
	categorySyntax = "syntax"
	categoryQuery  = "query"
)

var suggestions = map[ast.ErrorKind]string{
	ast.MissingEndBracket:   "close the bracket opened here",
	ast.MissingLeftOperand:  "add a value before the operator",
	ast.MissingRightOperand: "add a value after the operator",
	ast.MissingSemicolon:    "end the statement with `;`",
	ast.MissingBlock:        "add a `{ ... }` block",
	ast.MissingVariableName: "name the variable after the keyword",
	ast.MissingCondition:    "add a condition before the block",
	ast.RedundantDelimiter:  "remove the extra delimiter",
}

// Engine checks source files against a configuration.
type Engine struct {
	root         ast.Kind
	extensions   []string
	severities   map[string]tt.Severity
	queries      []query
	ignoredRules map[string]bool
	ignoredPaths []string
	cache        *Cache
	fingerprint  string
}

type query struct {
	config.Query
	pattern nodegex.Pattern
}

// New creates an engine for cfg.
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := cfg.RootKind()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		root:       root,
		extensions: cfg.Extensions,
	}
	e.applyRules(cfg.Rules)

	for _, q := range cfg.Queries {
		p, err := nodegex.Compile(q.Pattern)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", q.Name, err)
		}
		if q.Severity == tt.SeverityOff {
			continue
		}
		e.queries = append(e.queries, query{Query: q, pattern: p})
	}

	d, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(d)
	e.fingerprint = hex.EncodeToString(sum[:])
	return e, nil
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.severities = make(map[string]tt.Severity, len(ast.AllErrorKinds))
	for _, k := range ast.AllErrorKinds {
		e.severities[k.Name()] = config.DefaultSeverity(k)
	}
	for name, rule := range rules {
		e.severities[name] = rule.Severity
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(name)
		}
	}
}

// Extensions lists the file extensions the engine checks.
func (e *Engine) Extensions() []string { return e.extensions }

// Root is the container kind files are parsed into.
func (e *Engine) Root() ast.Kind { return e.root }

// UseCache makes Run reuse results stored in c for unchanged files.
func (e *Engine) UseCache(c *Cache) { e.cache = c }

// Run checks the file at filename.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var key string
	if e.cache != nil {
		key = e.cacheKey(source)
		if issues, ok := e.cache.Get(filename, key); ok {
			return e.filterIgnored(issues), nil
		}
	}

	issues := e.check(filename, source)
	if e.cache != nil {
		e.cache.Set(filename, key, issues)
	}
	return e.filterIgnored(issues), nil
}

// RunSource checks source as if it were read from filename.
func (e *Engine) RunSource(filename string, source []byte) ([]tt.Issue, error) {
	return e.filterIgnored(e.check(filename, source)), nil
}

// Tree parses source the way Run does.
func (e *Engine) Tree(source []byte) *ast.Container {
	return parser.BuildTree(string(source), e.root)
}

func (e *Engine) check(filename string, source []byte) []tt.Issue {
	tree := e.Tree(source)
	file := token.NewFile(filename, source)

	var issues []tt.Issue
	for _, d := range parser.Diagnostics(tree) {
		name := d.Kind.Name()
		sev := e.severities[name]
		if sev == tt.SeverityOff {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:       name,
			Category:   categorySyntax,
			Filename:   filename,
			Message:    d.Kind.String(),
			Suggestion: suggestions[d.Kind],
			Severity:   sev,
			Start:      file.Position(d.Node.Pos()),
			End:        file.Position(d.Node.End()),
		})
	}

	for _, q := range e.queries {
		for _, r := range nodegex.FindAll(tree, q.pattern) {
			from, to := r.Span()
			msg := q.Message
			if msg == "" {
				msg = fmt.Sprintf("matches query %s", q.Name)
			}
			issues = append(issues, tt.Issue{
				Rule:     q.Name,
				Category: categoryQuery,
				Filename: filename,
				Message:  msg,
				Note:     q.Note,
				Severity: q.Severity,
				Start:    file.Position(from),
				End:      file.Position(to),
			})
		}
	}

	SortIssues(issues)
	return issues
}

func (e *Engine) cacheKey(source []byte) string {
	h := sha256.New()
	h.Write([]byte(e.fingerprint))
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// IgnoreRule drops issues reported under rule.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files whose path or base name matches the glob
// pattern.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
}

func (e *Engine) isIgnoredPath(path string) bool {
	for _, p := range e.ignoredPaths {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
			return true
		}
		if strings.HasPrefix(filepath.Clean(path), filepath.Clean(p)+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (e *Engine) filterIgnored(issues []tt.Issue) []tt.Issue {
	if len(e.ignoredRules) == 0 {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !e.ignoredRules[issue.Rule] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// SortIssues orders issues by file, then position, then rule.
func SortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		if a.End.Offset != b.End.Offset {
			return a.End.Offset < b.End.Offset
		}
		return a.Rule < b.Rule
	})
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits source into lines.
func NewSourceCode(source []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(source), "\n")}
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}
