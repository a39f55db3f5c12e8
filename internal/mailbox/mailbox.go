// Package mailbox carries step errors from the background collector to the
// foreground consumer.
//
// The queue is unbounded so the producer never blocks on a slow consumer.
// Notices coalesce: one pending notice may stand for many queued errors, and
// the consumer is expected to Drain everything whenever it wakes.
package mailbox

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send once the consumer has gone away.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is a single-consumer error queue.
type Mailbox struct {
	mu      sync.Mutex
	pending []error
	closed  bool

	notice chan struct{}
	done   chan struct{}
}

// New creates an open Mailbox.
func New() *Mailbox {
	return &Mailbox{
		notice: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Send queues err and raises a notice. It returns ErrClosed if the consumer
// has closed the mailbox; err is dropped in that case.
func (m *Mailbox) Send(err error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.pending = append(m.pending, err)
	m.mu.Unlock()

	select {
	case m.notice <- struct{}{}:
	default:
		// A notice is already pending; the consumer will drain this error with it.
	}
	return nil
}

// Notices signals that at least one error may be waiting.
func (m *Mailbox) Notices() <-chan struct{} {
	return m.notice
}

// Drain removes and returns all queued errors in send order.
func (m *Mailbox) Drain() []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errs := m.pending
	m.pending = nil
	return errs
}

// Close marks the consumer as gone. It is safe to call more than once.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}

// Done is closed once Close has been called.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// Closed reports whether Close has been called.
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
