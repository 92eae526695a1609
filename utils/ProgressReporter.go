package utils

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter defines methods for reporting progress.
type ProgressReporter interface {
	// Increment increases the progress by one.
	Increment()
	// Finish marks the work as done.
	Finish()
}

// BarProgressReporter is a concrete implementation using progressbar.
// The number of rows in a table is not known up front, so the bar runs as a spinner.
type BarProgressReporter struct {
	description string
	bar         *progressbar.ProgressBar
}

// NewBarProgressReporter creates a spinner style reporter writing to stderr.
func NewBarProgressReporter(description string) *BarProgressReporter {
	return NewBarProgressReporterTo(os.Stderr, description)
}

func NewBarProgressReporterTo(w io.Writer, description string) *BarProgressReporter {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(100e6),           // rate-limit updates
		progressbar.OptionSetRenderBlankState(true), // show an initial blank bar
	)
	return &BarProgressReporter{
		description: description,
		bar:         bar,
	}
}

// Increment increases the progress bar by one.
func (p *BarProgressReporter) Increment() {
	_ = p.bar.Add(1)
}

func (p *BarProgressReporter) Finish() {
	_ = p.bar.Finish()
}

// NoopProgressReporter discards progress updates.
type NoopProgressReporter struct{}

func (NoopProgressReporter) Increment() {}

func (NoopProgressReporter) Finish() {}
