package terminal

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/armory-tools/amr/internal/port"
)

// BarReporter renders transfer progress as a terminal byte bar. An
// unknown total degrades to a spinner with a byte counter.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

// Ensure BarReporter implements port.ProgressReporter
var _ port.ProgressReporter = (*BarReporter)(nil)

// NewBarReporter creates an idle reporter; the bar appears on Start.
func NewBarReporter() *BarReporter {
	return &BarReporter{}
}

// Start creates the bar. progressbar renders an unbounded spinner for
// max == -1, which covers the unknown-length case.
func (r *BarReporter) Start(filename string, total int64) {
	if total == 0 {
		total = -1
	}
	r.bar = progressbar.DefaultBytes(total, "downloading "+filename)
}

// Advance adds n bytes to the bar.
func (r *BarReporter) Advance(n int64) {
	if r.bar != nil {
		_ = r.bar.Add64(n)
	}
}

// Finish completes the bar and prints the resulting filename.
func (r *BarReporter) Finish(filename string) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	fmt.Fprintf(os.Stdout, "\nDownloaded %s\n", filename)
}
