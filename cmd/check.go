package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ntt/check"
	"github.com/gnolang/ntt/formatter"
	tt "github.com/gnolang/ntt/internal/types"
)

var (
	ignoreRules string
	ignorePaths string
	jsonOutput  bool
	outPath     string
	cacheDir    string
	progress    bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report syntax diagnostics and query matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			logger.Error("Failed to initialize check engine", zap.Error(err))
			return err
		}

		for _, rule := range splitList(ignoreRules) {
			engine.IgnoreRule(rule)
		}
		for _, path := range splitList(ignorePaths) {
			engine.IgnorePath(path)
		}

		var cache *check.Cache
		if cacheDir != "" {
			cache, err = check.OpenCache(cacheDir)
			if err != nil {
				return err
			}
			engine.UseCache(cache)
		}

		var out io.Writer
		if progress {
			out = cmd.ErrOrStderr()
		}
		issues, err := check.ProcessFiles(ctx, logger, out, engine, args, check.ProcessFile)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			return err
		}

		if cache != nil {
			if err := cache.Save(); err != nil {
				logger.Warn("Cannot save cache", zap.String("dir", cacheDir), zap.Error(err))
			}
		}

		if err := printIssues(cmd.OutOrStdout(), issues, jsonOutput, outPath); err != nil {
			return err
		}

		for _, issue := range issues {
			if issue.Severity == tt.SeverityError {
				return ErrIssuesFound
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	checkCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output issues in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().StringVar(&cacheDir, "cache", "", "Directory used to cache results between runs")
	checkCmd.Flags().BoolVar(&progress, "progress", false, "Show progress while checking directories")
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func groupByFile(issues []tt.Issue) (map[string][]tt.Issue, []string) {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)
	return issuesByFile, sortedFiles
}

func printIssues(w io.Writer, issues []tt.Issue, isJson bool, jsonPath string) error {
	issuesByFile, sortedFiles := groupByFile(issues)

	if !isJson {
		for _, filename := range sortedFiles {
			sourceCode, err := check.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			fmt.Fprint(w, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
		}
		return nil
	}

	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("marshalling issues to JSON: %w", err)
	}
	if jsonPath == "" {
		fmt.Fprintln(w, string(d))
		return nil
	}
	return os.WriteFile(jsonPath, d, 0o644)
}
