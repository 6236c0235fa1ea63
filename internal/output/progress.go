package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress is a Sink that keeps a live progress line on one writer and
// prints result lines to another. A single mutex orders both so a result
// line never lands in the middle of a bar redraw.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress display for total payloads. Results go to
// out, the bar to bar.
func NewProgress(total int, out, barW io.Writer) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(barW),
		progressbar.OptionSetDescription(":: Progress"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("req"),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(barW)
		}),
	)
	return &Progress{out: out, bar: bar}
}

// Println clears the bar, writes line, and redraws the bar.
func (p *Progress) Println(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.bar.Clear()
	_, err := io.WriteString(p.out, line+"\n")
	_ = p.bar.RenderBlank()
	return err
}

// Advance moves the bar forward by one payload.
func (p *Progress) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Add(1)
}

// Finish renders the final state and moves past the bar line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
}
