package output

import (
	"sync"
	"sync/atomic"

	"github.com/maxvaer/rake/internal/scanner"
)

// Suppressor decides whether a response is hidden.
type Suppressor interface {
	ShouldSuppress(resp *scanner.Response) bool
}

// Reporter prints surviving responses and counts processed payloads. It is
// safe for concurrent use by all workers.
type Reporter struct {
	sink   Sink
	filter Suppressor
	format *Formatter

	completed atomic.Uint64
	reported  atomic.Uint64

	errMu sync.Mutex
	err   error
}

// NewReporter returns a reporter writing through sink. A nil filter
// reports every response.
func NewReporter(sink Sink, filter Suppressor, format *Formatter) *Reporter {
	if format == nil {
		format = NewFormatter(true, false)
	}
	return &Reporter{sink: sink, filter: filter, format: format}
}

// Report writes one line for resp unless the filter suppresses it.
func (r *Reporter) Report(resp *scanner.Response) {
	if r.filter != nil && r.filter.ShouldSuppress(resp) {
		return
	}
	if err := r.sink.Println(r.format.Line(resp)); err != nil {
		r.setErr(err)
		return
	}
	r.reported.Add(1)
}

// IncrementProgress records one processed payload.
func (r *Reporter) IncrementProgress() {
	r.completed.Add(1)
	r.sink.Advance()
}

// Completed returns the number of processed payloads.
func (r *Reporter) Completed() uint64 { return r.completed.Load() }

// Reported returns the number of lines written.
func (r *Reporter) Reported() uint64 { return r.reported.Load() }

// Err returns the first error hit while writing a result line.
func (r *Reporter) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

func (r *Reporter) setErr(err error) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	if r.err == nil {
		r.err = err
	}
}
