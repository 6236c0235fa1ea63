package scanner

import "time"

// Response is the outcome of a single request. It is produced by a worker,
// handed to the reporter, and then discarded.
type Response struct {
	URL           string
	StatusCode    uint16
	ContentLength uint64
	Body          []byte // only retained when body rules are configured
	Duration      time.Duration
}
