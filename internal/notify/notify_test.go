package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/koba789/unrotate/internal/mailbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	box     *mailbox.Mailbox
	crashed chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{box: mailbox.New(), crashed: make(chan struct{})}
}

func (f *fakeSource) Errors() *mailbox.Mailbox { return f.box }
func (f *fakeSource) Crashed() <-chan struct{} { return f.crashed }

// syncBuffer guards a bytes.Buffer shared with the Consume goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestShowErrorPlainWhenNotTerminal(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsole(buf).ShowError(errors.New("scan failed: permission denied"))

	assert.Equal(t, errorTitle+": scan failed: permission denied\n", buf.String())
}

func TestConsumeDrainsBurstsInOrder(t *testing.T) {
	out := &syncBuffer{}
	src := newFakeSource()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewConsole(out).Consume(ctx, src) }()

	require.NoError(t, src.box.Send(errors.New("first")))
	require.NoError(t, src.box.Send(errors.New("second")))

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), errorTitle) == 2
	}, 5*time.Second, time.Millisecond)

	s := out.String()
	assert.Less(t, strings.Index(s, "first"), strings.Index(s, "second"))

	cancel()
	require.NoError(t, <-done)
	assert.True(t, src.box.Closed(), "cancelling the consumer closes the mailbox")
	assert.NotContains(t, out.String(), crashTitle)
}

func TestConsumeCrashShownOnce(t *testing.T) {
	out := &syncBuffer{}
	src := newFakeSource()

	require.NoError(t, src.box.Send(errors.New("last words")))
	close(src.crashed)

	err := NewConsole(out).Consume(context.Background(), src)
	assert.ErrorIs(t, err, ErrStopped)

	s := out.String()
	assert.Equal(t, 1, strings.Count(s, crashTitle))
	assert.Contains(t, s, "last words")
}
