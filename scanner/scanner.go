package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner finds source files below a root directory.
type Scanner struct {
	rootDir    string
	extensions []string
	ignored    []string
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Ignore skips files and directories matching any of the glob patterns.
// Patterns are matched against the base name.
func (s *Scanner) Ignore(patterns ...string) *Scanner {
	s.ignored = append(s.ignored, patterns...)
	return s
}

// Scan walks the root directory and returns the target files sorted by
// path. Hidden directories are not entered.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && (strings.HasPrefix(d.Name(), ".") || s.isIgnored(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isTargetFile(path) || s.isIgnored(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isIgnored(path string) bool {
	base := filepath.Base(path)
	for _, p := range s.ignored {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
