package unrotate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/koba789/unrotate/internal/classifier"
	"github.com/koba789/unrotate/internal/collection"
	"github.com/koba789/unrotate/internal/models"
	"github.com/koba789/unrotate/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a watched directory plus an empty collection root.
type fixture struct {
	src  string
	root string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{
		src:  t.TempDir(),
		root: filepath.Join(t.TempDir(), "Logs"),
	}
}

func (f fixture) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.src, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (f fixture) unrotator(opts ...Option) *Unrotator {
	return New(source.NewScanner(f.src), collection.NewStore(f.root), opts...)
}

// collected lists every file under the collection root, relative to it.
func (f fixture) collected(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(f.root, path)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

type mockRecorder struct {
	mu    sync.Mutex
	dests []string
	err   error
}

func (m *mockRecorder) RecordLink(ctx context.Context, rec models.LogRecord, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dests = append(m.dests, dest)
	return m.err
}

type mockLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
	steps []models.StepResult
}

func (m *mockLogger) LogDebug(message string) {}
func (m *mockLogger) LogInfo(message string)  {}
func (m *mockLogger) LogWarn(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, message)
}
func (m *mockLogger) LogError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, message)
}
func (m *mockLogger) LogLinked(rec models.LogRecord, dest string) {}
func (m *mockLogger) LogStepComplete(result models.StepResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, result)
}

func TestStepEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")
	f.write(t, "notalog.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")
	u := f.unrotator()

	result, err := u.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Linked)
	assert.Equal(t, []string{"2024-03/07/output_log_24-03-07.txt"}, f.collected(t))

	result, err = u.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Linked)
	assert.Equal(t, 1, result.AlreadyPresent)
	assert.Equal(t, []string{"2024-03/07/output_log_24-03-07.txt"}, f.collected(t))
}

func TestStepUsesContentDate(t *testing.T) {
	f := newFixture(t)
	// The filename claims one day, the header another; the header wins.
	f.write(t, "output_log_01-01-01.txt", "2023.11.30 23:59:59 Log started.....")

	_, err := f.unrotator().Step()
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-11/30/output_log_01-01-01.txt"}, f.collected(t))
}

func TestStepSkipsUnrecognisedContent(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "this is not a dated log header!!")

	result, err := f.unrotator().Step()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, f.collected(t))
}

func TestStepPartialFailureKeepsEarlierLinks(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")
	bad := f.write(t, "output_log_24-03-08.txt", "short")

	result, err := f.unrotator().Step()
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, PhaseClassify, stepErr.Phase)
	assert.Equal(t, bad, stepErr.Path)
	assert.ErrorIs(t, err, classifier.ErrTruncated)

	assert.Equal(t, 1, result.Linked)
	assert.Equal(t, []string{"2024-03/07/output_log_24-03-07.txt"}, f.collected(t))
}

func TestStepScanFailure(t *testing.T) {
	f := newFixture(t)
	u := New(source.NewScanner(filepath.Join(f.src, "missing")), collection.NewStore(f.root))

	_, err := u.Step()
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, PhaseScan, stepErr.Phase)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "scan failed")
}

func TestStepStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")

	// Block the month directory with a file.
	require.NoError(t, os.MkdirAll(f.root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.root, "2024-03"), []byte("x"), 0644))

	_, err := f.unrotator().Step()
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, PhaseStore, stepErr.Phase)
}

func TestStepInvalidDateIsStepError(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-04-31.txt", "2024.04.31 00:00:01 Foo bar baz qux quux")

	_, err := f.unrotator().Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrInvalidDate)
	assert.Empty(t, f.collected(t))
}

func TestStepRecordsOnlyNewLinks(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")
	rec := &mockRecorder{}
	log := &mockLogger{}
	u := f.unrotator(WithRecorder(rec), WithLogger(log))

	_, err := u.Step()
	require.NoError(t, err)
	_, err = u.Step()
	require.NoError(t, err)

	require.Len(t, rec.dests, 1)
	assert.Equal(t, filepath.Join(f.root, "2024-03", "07", "output_log_24-03-07.txt"), rec.dests[0])
	assert.Len(t, log.steps, 2)
}

func TestStepRecorderFailureOnlyWarns(t *testing.T) {
	f := newFixture(t)
	f.write(t, "output_log_24-03-07.txt", "2024.03.07 00:00:01 Foo bar baz qux quux")
	log := &mockLogger{}
	u := f.unrotator(WithRecorder(&mockRecorder{err: errors.New("disk I/O error")}), WithLogger(log))

	result, err := u.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Linked)
	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "disk I/O error")
}

func TestStepLeavesSourceUntouched(t *testing.T) {
	f := newFixture(t)
	content := "2024.03.07 00:00:01 Foo bar baz qux quux"
	path := f.write(t, "output_log_24-03-07.txt", content)

	_, err := f.unrotator().Step()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	entries, err := os.ReadDir(f.src)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
