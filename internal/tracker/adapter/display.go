package adapter

import (
	"fmt"
	"io"
	"sync"

	"github.com/okolari/tracktimer/internal/tracker/app"
)

// Compile-time check: WriterDisplay satisfies app.Display.
var _ app.Display = (*WriterDisplay)(nil)

// WriterDisplay renders the formatted elapsed time as one line per tick to
// an io.Writer. Used as the default display target in the local
// environment (stdout); write errors are ignored, a display is best-effort
// by nature.
type WriterDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDisplay creates a display writing to w.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Render writes the formatted elapsed time followed by a newline.
func (d *WriterDisplay) Render(formatted string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.w, formatted)
}
