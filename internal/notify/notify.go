// Package notify is the foreground side of the collector: it shows step
// errors as they arrive and announces, once, that the collector has stopped.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/koba789/unrotate/internal/mailbox"
	"github.com/mattn/go-isatty"
)

// ErrStopped is returned by Consume when the collector crashed.
var ErrStopped = errors.New("background collector stopped")

const (
	errorTitle = "VRCLogUnrotate hit an error while collecting logs"
	crashTitle = "VRCLogUnrotate crashed"
	crashBody  = "the background collector has stopped and will not resume until restarted"
)

// Source is what Consume listens to; *unrotate.Worker satisfies it.
type Source interface {
	Errors() *mailbox.Mailbox
	Crashed() <-chan struct{}
}

// Console writes notifications to a terminal or log stream.
type Console struct {
	out  io.Writer
	warn *color.Color
	fail *color.Color

	mu sync.Mutex
}

// NewConsole creates a Console writing to out. Colors are used only when out
// is a terminal.
func NewConsole(out io.Writer) *Console {
	warn := color.New(color.FgYellow, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if isTerminal(out) {
		warn.EnableColor()
		fail.EnableColor()
	} else {
		warn.DisableColor()
		fail.DisableColor()
	}

	return &Console{out: out, warn: warn, fail: fail}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ShowError displays one step error.
func (c *Console) ShowError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: %v\n", c.warn.Sprint(errorTitle), err)
}

// ShowCrash displays the terminal notification.
func (c *Console) ShowCrash() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: %s\n", c.fail.Sprint(crashTitle), crashBody)
}

// Consume shows errors from src until it crashes or ctx is cancelled.
//
// Each notice drains every queued error, so a burst of failures is shown
// together. Cancelling ctx closes the mailbox, which is how the collector
// learns its consumer is gone; Consume then returns nil. A crash is shown
// once and reported as ErrStopped.
func (c *Console) Consume(ctx context.Context, src Source) error {
	box := src.Errors()
	for {
		select {
		case <-box.Notices():
			c.showAll(box.Drain())
		case <-src.Crashed():
			c.showAll(box.Drain())
			c.ShowCrash()
			return ErrStopped
		case <-ctx.Done():
			box.Close()
			c.showAll(box.Drain())
			return nil
		}
	}
}

func (c *Console) showAll(errs []error) {
	for _, err := range errs {
		c.ShowError(err)
	}
}
