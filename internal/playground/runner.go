// Package playground simulates running playground code. Nothing is ever
// executed: a run waits for a fixed delay and returns the example's
// pre-written expected output.
package playground

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/onekit-js/onekit-site/pkg/limits"
	"github.com/onekit-js/onekit-site/pkg/logging"
)

// Output texts shown by the playground page.
const (
	RunningOutput = "Running code...\n\n"
	SuccessPrefix = "✅ Code executed successfully!\n\n"
	LimitedOutput = "⏳ Too many runs, please wait a moment."
)

// DefaultDelay is the simulated execution time.
const DefaultDelay = 1500 * time.Millisecond

// Run outcomes reported to the observer.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeLimited   = "limited"
)

var (
	ErrUnknownExample = errors.New("unknown playground example")
	ErrRateLimited    = errors.New("too many playground runs")
)

// Request asks for a run of an example. Code is accepted for display only.
type Request struct {
	ExampleID string
	Code      string
}

// Result is the outcome of a completed run.
type Result struct {
	ExampleID string
	Output    string
	Duration  time.Duration
}

// Catalog resolves an example's expected output.
type Catalog func(exampleID string) (expected string, ok bool)

// Observer is told how each run ended.
type Observer interface {
	RunFinished(outcome string)
}

// Runner performs simulated runs.
type Runner struct {
	delay    time.Duration
	catalog  Catalog
	limiter  *limits.KeyedLimiter
	observer Observer
	log      logging.Logger

	wg sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithDelay sets the simulated execution time.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.delay = d
		}
	}
}

// WithRunsPerMinute limits runs per key. Non-positive disables limiting.
func WithRunsPerMinute(n int) Option {
	return func(r *Runner) {
		if n <= 0 {
			r.limiter = limits.NewKeyedLimiter(0, 1)
			return
		}
		r.limiter = limits.NewKeyedLimiter(float64(n)/60, max(1, n/4))
	}
}

// WithObserver reports run outcomes.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a runner over catalog.
func NewRunner(catalog Catalog, opts ...Option) *Runner {
	r := &Runner{
		delay:   DefaultDelay,
		catalog: catalog,
		log:     logging.WithComponent("playground"),
	}
	WithRunsPerMinute(20)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Delay returns the simulated execution time.
func (r *Runner) Delay() time.Duration { return r.delay }

// Run waits for the delay and returns the canned output. It returns
// ctx.Err() if ctx ends first.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	expected, ok := r.catalog(req.ExampleID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownExample, req.ExampleID)
	}

	start := time.Now()
	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.finished(OutcomeCancelled)
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	r.finished(OutcomeCompleted)
	return Result{
		ExampleID: req.ExampleID,
		Output:    SuccessPrefix + expected,
		Duration:  time.Since(start),
	}, nil
}

// Start runs req in the background for key, calling done with the outcome.
// The returned cancel aborts the run; done still fires with ctx's error.
// When key is over its run limit nothing starts and ErrRateLimited is
// returned.
func (r *Runner) Start(ctx context.Context, key string, req Request, done func(Result, error)) (cancel func(), err error) {
	if !r.limiter.Allow(key) {
		r.finished(OutcomeLimited)
		r.log.Debug("playground run limited",
			logging.Event("playground.limited"),
			logging.String("key", key),
		)
		return nil, ErrRateLimited
	}

	ctx, cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		done(r.Run(ctx, req))
	}()
	return cancel, nil
}

// Forget drops the run limit state for key.
func (r *Runner) Forget(key string) {
	r.limiter.Forget(key)
}

// Wait blocks until every started run has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) finished(outcome string) {
	if r.observer != nil {
		r.observer.RunFinished(outcome)
	}
}
