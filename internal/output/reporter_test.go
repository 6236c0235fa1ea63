package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxvaer/rake/internal/filter"
	"github.com/maxvaer/rake/internal/scanner"
)

func lines(buf *bytes.Buffer) []string {
	s := strings.TrimRight(buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestReporterScenario(t *testing.T) {
	var buf bytes.Buffer
	chain := filter.NewChain(filter.SizeRule(nil, []uint64{0}))
	r := NewReporter(NewLineSink(&buf), chain, NewFormatter(true, true))

	responses := []*scanner.Response{
		{URL: "http://target/admin", StatusCode: 200, ContentLength: 12},
		{URL: "http://target/login", StatusCode: 404, ContentLength: 0},
		{URL: "http://target/secret", StatusCode: 200, ContentLength: 0},
	}
	for _, resp := range responses {
		r.Report(resp)
		r.IncrementProgress()
	}

	out := lines(&buf)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "(200)"), out[0])
	assert.True(t, strings.HasSuffix(out[0], "http://target/admin"), out[0])
	assert.Equal(t, uint64(3), r.Completed())
	assert.Equal(t, uint64(1), r.Reported())
	assert.NoError(t, r.Err())
}

func TestReporterProgressCountsSuppressed(t *testing.T) {
	var buf bytes.Buffer
	chain := filter.NewChain(filter.StatusRule(nil, []uint16{404}))
	r := NewReporter(NewLineSink(&buf), chain, nil)

	const k = 7
	before := r.Completed()
	for i := 0; i < k; i++ {
		r.Report(&scanner.Response{StatusCode: 404})
		r.IncrementProgress()
	}

	assert.Equal(t, before+k, r.Completed())
	assert.Empty(t, buf.String())
}

func TestReporterNilFilterReportsAll(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(NewLineSink(&buf), nil, nil)
	r.Report(&scanner.Response{URL: "http://x/a", StatusCode: 500})
	r.Report(&scanner.Response{URL: "http://x/b", StatusCode: 100})
	assert.Len(t, lines(&buf), 2)
}

type failingSink struct{ err error }

func (s failingSink) Println(string) error { return s.err }
func (s failingSink) Advance()             {}

func TestReporterKeepsFirstWriteError(t *testing.T) {
	boom := errors.New("broken pipe")
	r := NewReporter(failingSink{err: boom}, nil, nil)

	assert.NoError(t, r.Err())
	r.Report(&scanner.Response{StatusCode: 200})
	r.Report(&scanner.Response{StatusCode: 200})

	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, uint64(0), r.Reported())
}

func TestReporterConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(NewLineSink(&buf), nil, NewFormatter(true, false))

	const workers, perWorker = 20, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r.Report(&scanner.Response{
					URL:           fmt.Sprintf("http://target/w%d-%d", w, i),
					StatusCode:    200,
					ContentLength: 1,
					Duration:      time.Millisecond,
				})
				r.IncrementProgress()
			}
		}()
	}
	wg.Wait()

	out := lines(&buf)
	require.Len(t, out, workers*perWorker)
	for _, l := range out {
		assert.True(t, strings.HasPrefix(l, "(200)"), l)
		assert.Contains(t, l, "http://target/w")
	}
	assert.Equal(t, uint64(workers*perWorker), r.Completed())
}

func TestProgressSink(t *testing.T) {
	var out, bar bytes.Buffer
	p := NewProgress(3, &out, &bar)
	r := NewReporter(p, nil, NewFormatter(true, true))

	r.Report(&scanner.Response{URL: "http://target/admin", StatusCode: 200, ContentLength: 12})
	for i := 0; i < 3; i++ {
		r.IncrementProgress()
	}
	p.Finish()

	got := lines(&out)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "http://target/admin")
	assert.NotContains(t, out.String(), "Progress", "bar output must stay off the results writer")
	assert.Contains(t, bar.String(), "3/3")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Stats{
		Completed:      3,
		Reported:       1,
		Duration:       1500 * time.Millisecond,
		RequestsPerSec: 2,
	}))
	assert.Contains(t, buf.String(), "Completed: 3 payloads | Reported: 1 | Duration: 1.5s | 2.0 req/s")
}
