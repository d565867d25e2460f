package check

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/ntt/internal/types"
)

// DefaultDelay is how long the watcher waits after the last change
// before re-checking.
const DefaultDelay = 100 * time.Millisecond

// ReportFunc receives the result of re-checking a changed file.
type ReportFunc func(filename string, issues []tt.Issue, err error)

// Watcher re-checks files when they are written.
type Watcher struct {
	// Delay groups bursts of writes to the same file into one check.
	Delay time.Duration

	engine  Checker
	logger  *zap.Logger
	report  ReportFunc
	watcher *fsnotify.Watcher
}

func NewWatcher(engine Checker, logger *zap.Logger, report ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		Delay:   DefaultDelay,
		engine:  engine,
		logger:  logger,
		report:  report,
		watcher: fw,
	}, nil
}

// Add watches dirs and every directory below them.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.Delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						w.logger.Warn("Cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !hasExtension(event.Name, w.engine.Extensions()) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.Delay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))

		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			sort.Strings(names)
			clear(pending)

			for _, name := range names {
				issues, err := w.engine.Run(name)
				if err != nil {
					w.logger.Error("Error checking file", zap.String("file", name), zap.Error(err))
				} else {
					w.logger.Debug("Checked file", zap.String("file", name), zap.Int("issues", len(issues)))
				}
				if w.report != nil {
					w.report(name, issues, err)
				}
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
