package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/check"
	tt "github.com/gnolang/ntt/internal/types"
)

const (
	tabWidth = 8

	// longer snippets are cut in the middle
	maxSnippetLines = 6
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	infoStyle       = color.New(color.FgHiCyan, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the issueTemplate method.
// Implementations of this interface are responsible for formatting specific types of issues.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the formatter registered for rule, or the
// general one.
func getIssueFormatter(rule string) issueFormatter {
	switch rule {
	case ast.MissingEndBracket.Name():
		return &UnclosedBracketFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedIssue formats issues found in one file into a
// human-readable string.
func GenerateFormattedIssue(issues []tt.Issue, snippet *check.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue.Rule)
		builder.WriteString(buildIssue(issue, snippet, formatter))
	}
	return builder.String()
}

type IssueData struct {
	Category        string
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Suggestion      string
	Note            string
	SnippetLines    []string
	CommonIndent    string
}

var funcMap = template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"suggestion":          suggestion,
	"note":                note,
}

func buildIssue(issue tt.Issue, snippet *check.SourceCode, formatter issueFormatter) string {
	startLine := issue.Start.Line
	endLine := max(issue.End.Line, startLine)
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var lines []string
	if snippet != nil {
		lines = snippet.Lines
	}

	var commonIndent string
	if isValidLineRange(startLine, endLine, lines) {
		commonIndent = findCommonIndent(lines[startLine-1 : endLine])
	}

	data := IssueData{
		Severity:        issue.Severity.String(),
		Category:        issue.Category,
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		StartLine:       startLine,
		StartColumn:     issue.Start.Column,
		EndLine:         endLine,
		EndColumn:       issue.End.Column,
		Message:         issue.Message,
		Suggestion:      issue.Suggestion,
		Note:            issue.Note,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    lines,
	}

	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(rule string, severity string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	var endString string
	switch severity {
	case "ERROR":
		endString = errorStyle.Sprint("error: ")
	case "WARNING":
		endString = warningStyle.Sprint("warning: ")
	case "INFO":
		endString = infoStyle.Sprint("info: ")
	}

	endString += ruleStyle.Sprintf("%s", rule) + "\n"

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn) + "\n"

	return endString
}

func codeSnippet(snippetLines []string, startLine int, endLine int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|", padding) + "\n"

	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}
		if endLine-startLine+1 > maxSnippetLines && i == startLine+maxSnippetLines/2 {
			endString += lineStyle.Sprintf("%s...", strings.Repeat(" ", maxLineNumWidth)) + "\n"
			i = endLine - maxSnippetLines/2
			continue
		}

		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		endString += lineStyle.Sprintf("%s | ", lineNum) + line + "\n"
	}

	return endString
}

// underlineAndMessage marks the issue range below the snippet. Ranges
// spanning several lines are marked from the start column to the end
// of the first line. The end column is exclusive.
func underlineAndMessage(message string, padding string, startLine int, endLine int, startColumn int, endColumn int, snippetLines []string, commonIndent string) string {
	endString := lineStyle.Sprintf("%s|", padding)

	if !isValidLineRange(startLine, endLine, snippetLines) {
		endString += " " + messageStyle.Sprint(message) + "\n"
		return endString
	}

	first := snippetLines[startLine-1]
	commonIndentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

	underlineStart := max(calculateVisualColumn(first, startColumn)-commonIndentWidth, 0)

	var underlineEnd int
	if endLine == startLine {
		underlineEnd = calculateVisualColumn(first, endColumn) - commonIndentWidth
	} else {
		underlineEnd = calculateVisualColumn(first, len(first)+1) - commonIndentWidth
	}
	underlineLength := max(underlineEnd-underlineStart, 1)

	endString += " " + strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprint(strings.Repeat("~", underlineLength)) + "\n"

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprint(message) + "\n"

	return endString
}

func suggestion(suggestion string, padding string) string {
	if suggestion == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) + suggestionStyle.Sprint("help: ") + suggestion + "\n"
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + lineStyle.Sprint(note) + "\n"
}

func isValidLineRange(startLine int, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn returns the visual width of line before the
// 1-based byte column, taking tab characters into account.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	if column > len(line)+1 {
		visualColumn += column - len(line) - 1
	}
	return visualColumn
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	var firstIndent []rune
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	// search common indent for all non-empty lines
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		firstIndent = commonPrefix(firstIndent, []rune(line[:len(line)-len(trimmed)]))
		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
