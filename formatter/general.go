package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{- snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding}}
{{- underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}
{{- suggestion .Suggestion .Padding}}
{{- note .Note}}
`
}

// UnclosedBracketFormatter points at the opening bracket only, since an
// unclosed container runs to the end of the file.
type UnclosedBracketFormatter struct{}

func (f *UnclosedBracketFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{- snippet .SnippetLines .StartLine .StartLine .MaxLineNumWidth "" .Padding}}
{{- underlineAndMessage .Message .Padding .StartLine .StartLine .StartColumn .StartColumn .SnippetLines ""}}
{{- suggestion .Suggestion .Padding}}
{{- note .Note}}
`
}
