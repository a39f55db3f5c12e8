package unrotate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/koba789/unrotate/internal/logger"
	"github.com/koba789/unrotate/internal/mailbox"
)

// DefaultInterval is the pause between the end of one step and the next.
const DefaultInterval = 60 * time.Second

// ErrCrashed wraps the cause when the background goroutine ended abnormally.
var ErrCrashed = errors.New("background collector crashed")

// WorkerOptions configures Start.
type WorkerOptions struct {
	// Interval between steps; zero means DefaultInterval.
	Interval time.Duration

	// Logger receives step errors and lifecycle messages.
	Logger logger.Logger
}

// Worker owns the single background goroutine that repeats steps.
//
// It is either running or stopped. The only graceful way to stop it is for
// the consumer to close the error mailbox (Stop does exactly that). Any other
// exit, including a panic inside a step, closes Crashed.
type Worker struct {
	unrotator *Unrotator
	interval  time.Duration
	logger    logger.Logger

	errors  *mailbox.Mailbox
	nudge   chan struct{}
	crashed chan struct{}
	done    chan struct{}

	crashOnce sync.Once
	mu        sync.Mutex
	err       error
}

// Start launches the background goroutine. The first step runs immediately.
func Start(u *Unrotator, opts WorkerOptions) *Worker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	w := &Worker{
		unrotator: u,
		interval:  interval,
		logger:    log,
		errors:    mailbox.New(),
		nudge:     make(chan struct{}, 1),
		crashed:   make(chan struct{}),
		done:      make(chan struct{}),
	}

	go w.run()
	return w
}

// Errors is the consumer end of the step error channel.
func (w *Worker) Errors() *mailbox.Mailbox {
	return w.errors
}

// Crashed is closed exactly once if the goroutine ends other than by Stop.
func (w *Worker) Crashed() <-chan struct{} {
	return w.crashed
}

// Done is closed when the goroutine has exited, for any reason.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Stop closes the error mailbox, which the goroutine treats as the consumer
// going away. A step already in progress runs to completion first.
func (w *Worker) Stop() {
	w.errors.Close()
}

// Wait blocks until the goroutine has exited and returns Err.
func (w *Worker) Wait() error {
	<-w.done
	return w.Err()
}

// Err returns the crash cause, or nil if the worker is running or stopped
// gracefully.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Nudge asks for the next step to start now instead of after the interval.
// Nudges arriving during a step coalesce into one.
func (w *Worker) Nudge() {
	select {
	case w.nudge <- struct{}{}:
	default:
	}
}

func (w *Worker) run() {
	guard := newCrashGuard(w.fireCrash)
	defer w.finish(guard)

	w.logger.LogInfo(fmt.Sprintf("collecting %s into %s every %s",
		w.unrotator.SourceDir(), w.unrotator.CollectionRoot(), w.interval))

	for {
		if _, err := w.unrotator.Step(); err != nil {
			w.logger.LogError(err.Error())
			if errors.Is(w.errors.Send(err), mailbox.ErrClosed) {
				break
			}
		}

		if !w.sleep() {
			break
		}
	}

	guard.disarm()
	w.logger.LogInfo("collector stopped")
}

// sleep waits for the interval or a nudge. It returns false once the consumer
// has closed the mailbox.
func (w *Worker) sleep() bool {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.nudge:
		return true
	case <-w.errors.Done():
		return false
	}
}

// finish runs on every exit path. A panic is recovered only so the crash can
// be reported; the goroutine does not resume.
func (w *Worker) finish(guard *crashGuard) {
	if r := recover(); r != nil {
		w.setErr(fmt.Errorf("%w: %v", ErrCrashed, r))
		w.logger.LogError(fmt.Sprintf("collector crashed: %v", r))
	} else if guard.armed {
		w.setErr(ErrCrashed)
	}

	guard.release()
	close(w.done)
}

func (w *Worker) fireCrash() {
	w.crashOnce.Do(func() {
		close(w.crashed)
	})
}

func (w *Worker) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
}
