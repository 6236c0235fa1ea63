package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/maxvaer/rake/internal/config"
	"github.com/maxvaer/rake/internal/filter"
	"github.com/maxvaer/rake/internal/output"
	"github.com/maxvaer/rake/internal/scanner"
	"github.com/maxvaer/rake/internal/wordlist"
	"github.com/maxvaer/rake/pkg/version"
)

// Run executes a full pass over the wordlist against opts.URL. Results go
// to stdout, the banner and progress to stderr.
func Run(ctx context.Context, opts *config.Options, log *logrus.Logger) error {
	return run(ctx, opts, log, os.Stdout, os.Stderr)
}

func run(ctx context.Context, opts *config.Options, log *logrus.Logger, stdout, stderr io.Writer) error {
	// 1. Open wordlist.
	words, err := wordlist.Open(opts.WordlistPath, opts.Threads)
	if err != nil {
		return fmt.Errorf("loading wordlist: %w", err)
	}
	defer words.Close()
	log.Debugf("Wordlist %s: %d lines, chunks of %d", opts.WordlistPath, words.Lines(), words.ChunkSize())

	// 2. Build filter chain.
	chain := filter.FromOptions(opts)
	for _, r := range chain.Rules() {
		log.Debugf("Filter rule: %s", r.Name())
	}

	// 3. Build the dispatcher and probe the target.
	log.Debugf("Probing %s", opts.URL)
	disp, err := scanner.NewDispatcher(ctx, opts, chain)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	log.Debugf("Dispatcher ready: %s, keep bodies: %t", disp.Method(), chain.NeedsBody())

	// 4. Banner.
	noColor := opts.NoColor || !isTerminal(stdout)
	if !opts.Quiet {
		printBanner(stderr, opts, words.Lines(), noColor)
	}

	format := output.NewFormatter(noColor, opts.HideTime)
	if !opts.Quiet {
		if _, err := fmt.Fprintln(stdout, format.Header()); err != nil {
			return err
		}
	}

	// 5. Sink: live progress only when stderr is a terminal.
	var (
		sink     output.Sink
		progress *output.Progress
	)
	if !opts.Quiet && isTerminal(stderr) {
		progress = output.NewProgress(words.Lines(), stdout, stderr)
		sink = progress
	} else {
		sink = output.NewLineSink(stdout)
	}
	reporter := output.NewReporter(sink, chain, format)

	// 6. Fan out.
	coord := scanner.NewCoordinator(scanner.CoordinatorConfig{
		Template: opts.URL,
		Workers:  opts.Threads,
		Source:   words,
		Sender:   disp,
		Reporter: reporter,
		Retry:    scanner.DefaultRetryPolicy,
		Throttle: scanner.NewThrottle(opts.Rate),
	})

	start := time.Now()
	if err := coord.Run(ctx); err != nil {
		return err
	}
	if progress != nil {
		progress.Finish()
	}

	// 7. Summary.
	stats := output.Stats{
		Completed: reporter.Completed(),
		Reported:  reporter.Reported(),
		Duration:  time.Since(start),
	}
	if stats.Duration.Seconds() > 0 {
		stats.RequestsPerSec = float64(stats.Completed) / stats.Duration.Seconds()
	}
	log.Debugf("Coordinator %s after %s", coord.State(), stats.Duration.Round(time.Millisecond))

	if err := reporter.Err(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if !opts.Quiet {
		return output.WriteSummary(stderr, stats)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printBanner(w io.Writer, opts *config.Options, lines int, noColor bool) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{cyan, dim} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	cyan.Fprintf(w, `
          _
  _ _ __ _| |_____
 | '_/ _' | / / -_)
 |_| \__,_|_\_\___|   %s

`, version.Version)

	rule := dim.Sprint("*=================================================*")
	row := func(label string, value any) {
		fmt.Fprintf(w, "* %s : %v\n", dim.Sprintf("%-16s", label), value)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	row("URL", opts.URL)
	row("Wordlist", fmt.Sprintf("%s (%d lines)", opts.WordlistPath, lines))
	row("Threads", opts.Threads)
	row("Timeout", opts.Timeout)
	row("User-Agent", opts.UserAgent)
	row("Method", opts.Method)
	row("Follow redirect", opts.FollowRedirects)
	if opts.Rate > 0 {
		row("Rate", fmt.Sprintf("%.1f req/s", opts.Rate))
	}
	if opts.Proxy != "" {
		row("Proxy", opts.Proxy)
	}
	listRow := func(label string, n int, vals string) {
		if n > 0 {
			row(label, vals)
		}
	}
	listRow("Matched code", len(opts.MatchStatus), joinValues(opts.MatchStatus))
	listRow("Filtered code", len(opts.FilterStatus), joinValues(opts.FilterStatus))
	listRow("Matched size", len(opts.MatchSize), joinValues(opts.MatchSize))
	listRow("Filtered size", len(opts.FilterSize), joinValues(opts.FilterSize))
	listRow("Matched words", len(opts.MatchWords), strings.Join(opts.MatchWords, ", "))
	listRow("Filtered words", len(opts.FilterWords), strings.Join(opts.FilterWords, ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func joinValues[T uint16 | uint64](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
