package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// header is a complete first line, longer than the classifier reads.
const header = "2024.03.07 00:00:01 Log started\n"

func TestWatcherNudgesOnLogCreate(t *testing.T) {
	dir := t.TempDir()
	var nudges atomic.Int32

	w, err := New(dir, func() { nudges.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "output_log_24-03-07.txt"), []byte(header), 0644))

	assert.Eventually(t, func() bool { return nudges.Load() > 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherWaitsForHeaderAndNudgesOnce(t *testing.T) {
	dir := t.TempDir()
	var nudges atomic.Int32

	w, err := New(dir, func() { nudges.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Close()

	f, err := os.Create(filepath.Join(dir, "output_log_24-03-07.txt"))
	require.NoError(t, err)
	defer f.Close()

	// VRChat creates the file before writing anything into it.
	assert.Never(t, func() bool { return nudges.Load() > 0 }, 300*time.Millisecond, 10*time.Millisecond)

	_, err = f.WriteString("2024.03")
	require.NoError(t, err)
	assert.Never(t, func() bool { return nudges.Load() > 0 }, 300*time.Millisecond, 10*time.Millisecond)

	_, err = f.WriteString(header[len("2024.03"):])
	require.NoError(t, err)
	require.Eventually(t, func() bool { return nudges.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// The game keeps appending to the same log.
	for i := 0; i < 5; i++ {
		_, err = f.WriteString("more log output\n")
		require.NoError(t, err)
	}
	assert.Never(t, func() bool { return nudges.Load() > 1 }, 300*time.Millisecond, 10*time.Millisecond)
}

func TestWatcherReady(t *testing.T) {
	dir := t.TempDir()
	w := &Watcher{seen: make(map[string]bool)}

	empty := filepath.Join(dir, "output_log_24-03-07.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.False(t, w.ready(empty))

	full := filepath.Join(dir, "output_log_24-03-08.txt")
	require.NoError(t, os.WriteFile(full, []byte(header), 0644))
	assert.True(t, w.ready(full))
	assert.False(t, w.ready(full), "second event for the same file")

	assert.False(t, w.ready(filepath.Join(dir, "output_log_24-03-09.txt")), "missing file")

	// An empty file is remembered as not ready, so it still nudges once filled.
	require.NoError(t, os.WriteFile(empty, []byte(header), 0644))
	assert.True(t, w.ready(empty))
}

func TestWatcherRelevant(t *testing.T) {
	w := &Watcher{}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create log", fsnotify.Event{Name: "/d/output_log_24-03-07.txt", Op: fsnotify.Create}, true},
		{"write log", fsnotify.Event{Name: "/d/output_log_24-03-07.txt", Op: fsnotify.Write}, true},
		{"remove log", fsnotify.Event{Name: "/d/output_log_24-03-07.txt", Op: fsnotify.Remove}, false},
		{"chmod log", fsnotify.Event{Name: "/d/output_log_24-03-07.txt", Op: fsnotify.Chmod}, false},
		{"create other", fsnotify.Event{Name: "/d/notalog.txt", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), func() {}, nil)
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), func() {}, nil)
	require.NoError(t, err)
	assert.Equal(t, w.Dir(), w.dir)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
