package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ntt/ast"
	"github.com/gnolang/ntt/nodegex"
	"github.com/gnolang/ntt/parser"
	"github.com/gnolang/ntt/scanner"
	"github.com/gnolang/ntt/token"
)

var (
	queryPattern string
	queryKind    string
	queryJson    bool
)

// Match is one query hit as printed by the query command.
type Match struct {
	Filename string         `json:"filename"`
	Start    token.Position `json:"start"`
	End      token.Position `json:"end"`
	Nodes    string         `json:"nodes"`
}

var queryCmd = &cobra.Command{
	Use:   "query [paths...]",
	Short: "Find node sequences matching a pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		p, err := queryPatternFromFlags()
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root, err := cfg.RootKind()
		if err != nil {
			return err
		}

		var matches []Match
		for _, path := range args {
			files, err := sourceFiles(path, cfg.Extensions)
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := ctx.Err(); err != nil {
					return err
				}
				src, err := os.ReadFile(f)
				if err != nil {
					logger.Error("Error reading file", zap.String("file", f), zap.Error(err))
					continue
				}
				matches = append(matches, findMatches(f, src, root, p)...)
			}
		}
		logger.Debug("Query finished", zap.String("pattern", p.String()), zap.Int("matches", len(matches)))

		return printMatches(cmd.OutOrStdout(), matches, queryJson)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryPattern, "pattern", "p", "", "YAML pattern file")
	queryCmd.Flags().StringVar(&queryKind, "kind", "", "Match a single node kind instead of a pattern file")
	queryCmd.Flags().BoolVar(&queryJson, "json", false, "Output matches in JSON format")
}

func queryPatternFromFlags() (nodegex.Pattern, error) {
	switch {
	case queryPattern != "" && queryKind != "":
		return nil, fmt.Errorf("--pattern and --kind are mutually exclusive")
	case queryPattern != "":
		return nodegex.LoadFile(queryPattern)
	case queryKind != "":
		return nodegex.Compile(nodegex.Spec{Kind: queryKind})
	}
	return nil, fmt.Errorf("one of --pattern or --kind is required")
}

func sourceFiles(path string, exts []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	found, err := scanner.New(path, exts...).Scan()
	if err != nil {
		return nil, err
	}
	files := make([]string, len(found))
	for i, f := range found {
		files[i] = f.Path
	}
	return files, nil
}

func findMatches(filename string, src []byte, root ast.Kind, p nodegex.Pattern) []Match {
	tree := parser.BuildTree(string(src), root)
	file := token.NewFile(filename, src)

	var out []Match
	for _, r := range nodegex.FindAll(tree, p) {
		from, to := r.Span()
		text := ""
		for i, n := range r.Nodes() {
			if i > 0 {
				text += " "
			}
			text += ast.Sprint(n)
		}
		out = append(out, Match{
			Filename: filename,
			Start:    file.Position(from),
			End:      file.Position(to),
			Nodes:    text,
		})
	}
	return out
}

func printMatches(w io.Writer, matches []Match, isJson bool) error {
	if isJson {
		d, err := json.Marshal(matches)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(d))
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%s: %s\n", m.Start, m.Nodes)
	}
	return nil
}
