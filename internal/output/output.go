package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Sink is the single synchronized writer for result lines and progress
// ticks. Implementations must be safe for concurrent use and never
// interleave partial lines.
type Sink interface {
	Println(line string) error
	Advance()
}

// LineSink writes result lines to w and ignores progress ticks. It is used
// when no live progress display is wanted.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineSink returns a sink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

func (s *LineSink) Println(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

func (s *LineSink) Advance() {}

// Stats holds aggregate run statistics.
type Stats struct {
	Completed      uint64
	Reported       uint64
	Duration       time.Duration
	RequestsPerSec float64
}

// WriteSummary prints the end-of-run statistics line.
func WriteSummary(w io.Writer, stats Stats) error {
	_, err := fmt.Fprintf(w,
		"\nCompleted: %d payloads | Reported: %d | Duration: %s | %.1f req/s\n",
		stats.Completed,
		stats.Reported,
		stats.Duration.Round(time.Millisecond),
		stats.RequestsPerSec,
	)
	return err
}
