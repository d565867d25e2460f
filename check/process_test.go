package check

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/ntt/config"
	tt "github.com/gnolang/ntt/internal/types"
)

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Run(filename string) ([]tt.Issue, error) {
	args := m.Called(filename)
	return args.Get(0).([]tt.Issue), args.Error(1)
}

func (m *mockChecker) RunSource(filename string, source []byte) ([]tt.Issue, error) {
	args := m.Called(filename, source)
	return args.Get(0).([]tt.Issue), args.Error(1)
}

func (m *mockChecker) IgnoreRule(rule string) { m.Called(rule) }

func (m *mockChecker) IgnorePath(path string) { m.Called(path) }

func (m *mockChecker) Extensions() []string { return []string{".ntt"} }

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestProcessSources(t *testing.T) {
	t.Parallel()

	m := new(mockChecker)
	m.On("RunSource", "a.ntt", []byte("a")).Return([]tt.Issue{{Rule: "r1"}}, nil)
	m.On("RunSource", "b.ntt", []byte("b")).Return([]tt.Issue{{Rule: "r2"}, {Rule: "r3"}}, nil)

	issues, err := ProcessSources(context.Background(), zap.NewNop(), m, []Source{
		{Filename: "a.ntt", Content: []byte("a")},
		{Filename: "b.ntt", Content: []byte("b")},
	}, ProcessSource)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, rules(issues))
	m.AssertExpectations(t)
}

func TestProcessSourcesError(t *testing.T) {
	t.Parallel()

	m := new(mockChecker)
	m.On("RunSource", "bad.ntt", mock.Anything).Return([]tt.Issue(nil), errors.New("boom"))

	_, err := ProcessSources(context.Background(), zap.NewNop(), m, []Source{
		{Filename: "bad.ntt", Content: []byte("x")},
		{Filename: "never.ntt", Content: []byte("y")},
	}, ProcessSource)
	assert.EqualError(t, err, "boom")
	m.AssertNotCalled(t, "RunSource", "never.ntt", mock.Anything)
}

func TestProcessPathDirectory(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.ntt":         "x = 1",
		"sub/b.ntt":     "y = 2;",
		"sub/c.ntt":     "foo(1, 2",
		"notes.txt":     "z",
		".hidden/d.ntt": "w",
	})

	e := newEngine(t, config.Default())
	issues, err := ProcessPath(context.Background(), zap.NewNop(), nil, e, dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, filepath.Join(dir, "a.ntt"), issues[0].Filename)
	assert.Equal(t, "missing-semicolon", issues[0].Rule)
	assert.Equal(t, filepath.Join(dir, "sub", "c.ntt"), issues[1].Filename)
	assert.Equal(t, []string{"missing-semicolon", "missing-end-bracket"}, rules(issues[1:]))
}

func TestProcessPathSingleFile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.ntt": "x = 1", "a.txt": "x = 1"})
	e := newEngine(t, config.Default())

	issues, err := ProcessPath(context.Background(), nil, nil, e, filepath.Join(dir, "a.ntt"), ProcessFile)
	require.NoError(t, err)
	assert.Len(t, issues, 1)

	issues, err = ProcessPath(context.Background(), nil, nil, e, filepath.Join(dir, "a.txt"), ProcessFile)
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = ProcessPath(context.Background(), nil, nil, e, filepath.Join(dir, "missing"), ProcessFile)
	assert.Error(t, err)
}

func TestProcessPathProgress(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"only.ntt": "x = 1;"})
	var out bytes.Buffer

	e := newEngine(t, config.Default())
	issues, err := ProcessPath(context.Background(), nil, &out, e, dir, ProcessFile)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Contains(t, out.String(), "only.ntt")
}

func TestProcessPathSkipsFailingFiles(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"ok.ntt": "x", "bad.ntt": "y"})
	m := new(mockChecker)
	m.On("Run", filepath.Join(dir, "ok.ntt")).Return([]tt.Issue{{Rule: "r", Filename: "ok.ntt"}}, nil)
	m.On("Run", filepath.Join(dir, "bad.ntt")).Return([]tt.Issue(nil), errors.New("unreadable"))

	issues, err := ProcessPath(context.Background(), zap.NewNop(), nil, m, dir, ProcessFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"r"}, rules(issues))
	m.AssertExpectations(t)
}

func TestProcessFilesCancelled(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"a.ntt": "x"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	e := newEngine(t, config.Default())
	_, err := ProcessFiles(ctx, zap.NewNop(), nil, e, []string{dir}, ProcessFile)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessFilesMultiplePaths(t *testing.T) {
	t.Parallel()

	first := writeFiles(t, map[string]string{"a.ntt": "x = 1"})
	second := writeFiles(t, map[string]string{"b.ntt": "a;;"})

	e := newEngine(t, config.Default())
	issues, err := ProcessFiles(context.Background(), nil, nil, e, []string{first, second}, ProcessFile)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"missing-semicolon", "redundant-delimiter"}, rules(issues))
}
