package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/maxvaer/rake/internal/wordlist"
)

// ErrAlreadyStarted is returned when Run is called on a coordinator that is
// not idle.
var ErrAlreadyStarted = errors.New("coordinator already started")

// State is the lifecycle stage of a Coordinator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ChunkSource hands out disjoint payload chunks until it returns an error.
type ChunkSource interface {
	NextChunk() (wordlist.Chunk, error)
}

// Sender performs a single request/response cycle.
type Sender interface {
	Send(ctx context.Context, target string) (*Response, error)
}

// Reporter receives every successful response and one progress tick per
// payload.
type Reporter interface {
	Report(resp *Response)
	IncrementProgress()
}

// CoordinatorConfig holds the collaborators shared by every worker.
type CoordinatorConfig struct {
	Template string
	Workers  int
	Source   ChunkSource
	Sender   Sender
	Reporter Reporter
	Retry    RetryPolicy
	Throttle *Throttle // nil = unlimited
}

// Coordinator runs a fixed pool of workers over a ChunkSource and returns
// once all of them have seen the source run dry.
type Coordinator struct {
	cfg   CoordinatorConfig
	state atomic.Int32
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = DefaultRetryPolicy
	}
	return &Coordinator{cfg: cfg}
}

// State returns the current lifecycle stage.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Run spawns the workers and blocks until every one of them has finished.
// A coordinator runs at most once.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.work(ctx)
		}()
	}
	wg.Wait()

	c.state.Store(int32(StateDone))
	return nil
}

func (c *Coordinator) work(ctx context.Context) {
	for {
		chunk, err := c.cfg.Source.NextChunk()
		if err != nil {
			return
		}
		for _, payload := range chunk {
			c.process(ctx, payload)
		}
	}
}

// process sends one payload. Payloads that still fail after the retry
// policy is spent are dropped without a trace, but still count as progress.
func (c *Coordinator) process(ctx context.Context, payload string) {
	defer c.cfg.Reporter.IncrementProgress()

	target := Substitute(c.cfg.Template, payload)

	var resp *Response
	err := c.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		if err := c.cfg.Throttle.Wait(ctx); err != nil {
			return err
		}
		r, err := c.cfg.Sender.Send(ctx, target)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return
	}

	c.cfg.Reporter.Report(resp)
}
