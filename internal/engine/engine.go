// Package engine implements the sampling loop: a fixed-size window of
// (uptime, idle) readings, the utilization formulas, and the
// write-sleep-recompute cycle.
package engine

import (
	"context"
	"time"

	apperrors "github.com/nwrenn/cpuwatch/internal/errors"
	"github.com/nwrenn/cpuwatch/internal/logging"
)

// Sample is one reading of the cumulative system counters: total wall-clock
// seconds since boot and idle CPU-seconds summed across all cores. Both are
// non-decreasing over the process lifetime.
type Sample struct {
	Uptime float64
	Idle   float64
}

// Source provides a fresh Sample on demand. Implementations must re-read the
// underlying system interface on every call rather than caching or holding
// it open.
type Source interface {
	Sample() (Sample, error)
}

// Sink receives one formatted utilization value per tick.
type Sink interface {
	Write(value float64) error
}

// Engine drives the infinite poll-sleep-recompute loop. It owns the sample
// window and is never accessed concurrently.
type Engine struct {
	source   Source
	sink     Sink
	cpus     int
	interval time.Duration
	window   []Sample
	logger   logging.Logger

	// sleep suspends until the interval elapses or ctx is canceled.
	// Replaceable in tests to run the loop without real time passing.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithLogger sets the structured logger used for lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSleep replaces the inter-tick sleep. Intended for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// New creates an Engine for the given source, sink and normalization
// parameters. windowSize is the number of samples spanned by the moving
// average; the window holds windowSize+1 readings so the oldest and newest
// are windowSize ticks apart.
func New(source Source, sink Sink, cpus, windowSize int, interval time.Duration, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		sink:     sink,
		cpus:     cpus,
		interval: interval,
		window:   make([]Sample, windowSize+1),
		logger:   logging.NopLogger{},
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the sampling loop until the context is canceled or a fatal
// I/O error occurs. Cancellation is a graceful shutdown and returns nil; any
// Source or Sink failure returns immediately with a RuntimeError, with no
// retry and no partial write.
func (e *Engine) Run(ctx context.Context) error {
	first, err := e.source.Sample()
	if err != nil {
		return apperrors.NewRuntimeError("read counters", err)
	}
	for i := range e.window {
		e.window[i] = first
	}

	// Cold start: a single absolute reading, not a delta.
	utilization := InstantUtilization(first, e.cpus)
	e.logger.Info("sampling started",
		logging.Int("cpus", e.cpus),
		logging.Int("window", len(e.window)-1),
		logging.Float64("interval_seconds", e.interval.Seconds()))

	for {
		if err := e.sink.Write(utilization); err != nil {
			return apperrors.NewRuntimeError("write output", err)
		}

		if err := e.sleep(ctx, e.interval); err != nil {
			e.logger.Info("shutting down", logging.Err(ctx.Err()))
			return nil
		}

		copy(e.window, e.window[1:])
		fresh, err := e.source.Sample()
		if err != nil {
			return apperrors.NewRuntimeError("read counters", err)
		}
		e.window[len(e.window)-1] = fresh

		utilization = WindowedUtilization(e.window[0], fresh, e.cpus)
		e.logger.Debug("tick", logging.Float64("utilization", utilization))
	}
}

// InstantUtilization computes the cold-start value from a single absolute
// reading: 100 - 100*((idle/cpus)/uptime).
func InstantUtilization(s Sample, cpus int) float64 {
	return 100 - 100*((s.Idle/float64(cpus))/s.Uptime)
}

// WindowedUtilization computes utilization over the span between the oldest
// and newest samples: 100 - 100*((idleΔ/cpus)/uptimeΔ). The result is not
// clamped to [0, 100], and a zero uptime delta divides through unguarded;
// both follow from the counter contract rather than being handled here.
func WindowedUtilization(oldest, newest Sample, cpus int) float64 {
	uptimeDelta := newest.Uptime - oldest.Uptime
	idleDelta := newest.Idle - oldest.Idle
	return 100 - 100*((idleDelta/float64(cpus))/uptimeDelta)
}

// sleepContext waits for the duration or until the context is canceled,
// whichever comes first. A benign signal that does not cancel the context
// leaves the timer undisturbed; the runtime resumes the wait.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
