package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Placeholder is the token in the URL template that each payload replaces.
const Placeholder = "{}"

// Worker count bounds.
const (
	MinThreads = 1
	MaxThreads = 120
)

// Defaults mirror the CLI flag defaults.
const (
	DefaultThreads   = 40
	DefaultTimeout   = 5000 * time.Millisecond
	DefaultUserAgent = "rake/1.0"
	DefaultMethod    = "GET"
)

var (
	ErrMissingURL         = errors.New("target URL is required")
	ErrMissingPlaceholder = errors.New("URL template must contain the " + Placeholder + " placeholder")
	ErrMissingWordlist    = errors.New("wordlist path is required")
	ErrThreadsOutOfRange  = fmt.Errorf("threads must be between %d and %d", MinThreads, MaxThreads)
	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrInvalidRate        = errors.New("rate must not be negative")
)

// Options holds all configuration for a rake run. It is treated as
// read-only once Validate has succeeded.
type Options struct {
	// Target
	URL          string // template, must contain Placeholder
	WordlistPath string

	// Performance
	Threads int
	Timeout time.Duration
	Rate    float64 // requests per second across all workers, 0 = unlimited

	// HTTP
	Method          string
	UserAgent       string
	Headers         map[string]string
	Proxy           string
	FollowRedirects bool

	// Matchers take precedence over filters of the same dimension.
	MatchStatus  []uint16
	FilterStatus []uint16
	MatchSize    []uint64
	FilterSize   []uint64
	MatchWords   []string
	FilterWords  []string

	// Output
	HideTime bool
	NoColor  bool
	Quiet    bool
	Verbose  bool
}

// Validate checks the options and normalizes the method and URL scheme.
func (o *Options) Validate() error {
	if o.URL == "" {
		return ErrMissingURL
	}
	if !strings.Contains(o.URL, Placeholder) {
		return fmt.Errorf("%w: %q", ErrMissingPlaceholder, o.URL)
	}
	if !hasPrefixFold(o.URL, "http://") && !hasPrefixFold(o.URL, "https://") {
		o.URL = "http://" + o.URL
	}
	if o.WordlistPath == "" {
		return ErrMissingWordlist
	}
	if o.Threads < MinThreads || o.Threads > MaxThreads {
		return fmt.Errorf("%w (got %d)", ErrThreadsOutOfRange, o.Threads)
	}
	if o.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if o.Rate < 0 {
		return ErrInvalidRate
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	o.Method = strings.ToUpper(o.Method)
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
