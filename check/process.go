package check

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	tt "github.com/gnolang/ntt/internal/types"
	"github.com/gnolang/ntt/scanner"
)

const maxShowRecentFiles = 25

// Checker is implemented by Engine.
type Checker interface {
	Run(filename string) ([]tt.Issue, error)
	RunSource(filename string, source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
	Extensions() []string
}

// Source is an in-memory file.
type Source struct {
	Filename string
	Content  []byte
}

func ProcessFile(engine Checker, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Checker, src Source) ([]tt.Issue, error) {
	return engine.RunSource(src.Filename, src.Content)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Checker,
	sources []Source,
	processor func(Checker, Source) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues, err := processor(engine, src)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.String("source", src.Filename), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues, nil
}

// ProcessFiles checks every path in turn. Directories are processed by
// ProcessPath. Progress is drawn on out when it is not nil.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	out io.Writer,
	engine Checker,
	paths []string,
	processor func(Checker, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, out, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}
	SortIssues(allIssues)
	return allIssues, nil
}

// ProcessPath checks a single file, or every file below a directory
// with one of the engine's extensions using a bounded pool of workers.
// Files that fail to process are logged and skipped.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	out io.Writer,
	engine Checker,
	path string,
	processor func(Checker, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasExtension(path, engine.Extensions()) {
			return nil, nil
		}
		return processor(engine, path)
	}

	found, err := scanner.New(path, engine.Extensions()...).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	if logger != nil {
		logger.Debug("Scanned directory", zap.String("path", path), zap.Int("files", len(found)))
	}

	var display *recentFiles
	var bar *progressbar.ProgressBar
	if out != nil {
		display = newRecentFiles(out)
		bar = progressbar.NewOptions(len(found),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	type result struct {
		issues []tt.Issue
		err    error
	}
	results := make(chan result, len(found))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for _, f := range found {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			if display != nil {
				display.add(filepath.Base(fp))
			}

			fileIssues, err := processor(engine, fp)
			if err != nil && logger != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			}
			results <- result{issues: fileIssues, err: err}

			if bar != nil {
				_ = bar.Add(1)
			}
		}(f.Path)
	}
	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var issues []tt.Issue
	for r := range results {
		if r.err != nil {
			continue
		}
		issues = append(issues, r.issues...)
	}
	if out != nil {
		fmt.Fprintln(out)
	}
	SortIssues(issues)
	return issues, nil
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// recentFiles redraws the names of the files most recently picked up by
// a worker above the progress bar.
type recentFiles struct {
	mu    sync.Mutex
	out   io.Writer
	names []string
}

func newRecentFiles(out io.Writer) *recentFiles {
	// make space for recent files
	for i := 0; i < maxShowRecentFiles+1; i++ {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\033[%dA", maxShowRecentFiles+1)
	return &recentFiles{out: out, names: make([]string, maxShowRecentFiles)}
}

func (r *recentFiles) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy(r.names[1:], r.names[:len(r.names)-1])
	r.names[0] = name

	fmt.Fprintf(r.out, "\033[%dA", maxShowRecentFiles)
	for _, n := range r.names {
		// \033[2K clears the line
		fmt.Fprintf(r.out, "\033[2K\r%s\n", n)
	}
}
