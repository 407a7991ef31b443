// Package progress draws stderr progress bars for long indexing runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string) *Tracker {
	return newSpinner(os.Stderr, label)
}

func newSpinner(out io.Writer, label string) *Tracker {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label, out: out}
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int) *Tracker {
	return newTracker(os.Stderr, label, total)
}

func newTracker(out io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, out: out}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// FinishSuccess clears the bar completely.
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints an error line.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}

// Indexing is an index.ProgressFunc that draws one bar per build. Done
// clears whichever bar is showing.
type Indexing struct {
	label string
	out   io.Writer

	mu      sync.Mutex
	tracker *Tracker
}

// NewIndexing creates an indexing progress reporter writing to stderr.
func NewIndexing(label string) *Indexing {
	return &Indexing{label: label, out: os.Stderr}
}

// Func returns the hook to pass to the index builder.
func (p *Indexing) Func() index.ProgressFunc {
	return func(total int) func() {
		t := newTracker(p.out, p.label, total)
		p.mu.Lock()
		if p.tracker != nil {
			p.tracker.FinishSuccess()
		}
		p.tracker = t
		p.mu.Unlock()
		return t.Tick
	}
}

// Done clears the current bar, if any.
func (p *Indexing) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker != nil {
		p.tracker.FinishSuccess()
		p.tracker = nil
	}
}
