package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrExhausted     = errors.New("retry attempts exhausted")
	ErrInvalidPolicy = errors.New("invalid retry policy")
)

type Policy struct {
	MaxAttempts int
	Interval    time.Duration
}

func (p Policy) Validate() error {
	if p.MaxAttempts < 1 || p.Interval < 0 {
		return ErrInvalidPolicy
	}
	return nil
}

type Verdict int

const (
	Retry Verdict = iota
	Done
	Fail
)

// Outcome tells Until what to do with one observation.
type Outcome struct {
	Verdict Verdict
	Err     error
}

func Continue() Outcome       { return Outcome{Verdict: Retry} }
func Finish() Outcome         { return Outcome{Verdict: Done} }
func Abort(err error) Outcome { return Outcome{Verdict: Fail, Err: err} }

// Timer matches backoff.Timer so tests can count waits without sleeping.
type Timer = backoff.Timer

type config[T any] struct {
	classify  func(T) Outcome
	onObserve func(attempt int, v T)
	onError   func(attempt int, err error)
	timer     Timer
}

type Option[T any] func(*config[T])

// Classify decides whether an observation is terminal. Without it, the first
// successful fetch is terminal.
func Classify[T any](fn func(T) Outcome) Option[T] {
	return func(c *config[T]) { c.classify = fn }
}

func OnObserve[T any](fn func(attempt int, v T)) Option[T] {
	return func(c *config[T]) { c.onObserve = fn }
}

// OnError sees every transient fetch error before it is swallowed.
func OnError[T any](fn func(attempt int, err error)) Option[T] {
	return func(c *config[T]) { c.onError = fn }
}

func WithTimer[T any](t Timer) Option[T] {
	return func(c *config[T]) { c.timer = t }
}

var errNotTerminal = errors.New("observation not terminal")

// Until calls fetch sequentially until an observation is classified Done or
// Fail, the attempt budget runs out, or ctx is cancelled. Fetch errors are
// transient and consume an attempt. At most MaxAttempts calls are made, with
// one Interval wait between consecutive calls. On Fail the rejected
// observation is returned together with the error.
func Until[T any](ctx context.Context, p Policy, fetch func(ctx context.Context) (T, error), opts ...Option[T]) (T, error) {
	var zero T
	if err := p.Validate(); err != nil {
		return zero, err
	}
	cfg := config[T]{classify: func(T) Outcome { return Finish() }}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		result      T
		attempt     int
		lastErr     error
		terminalErr error
	)
	op := func() error {
		if err := ctx.Err(); err != nil {
			terminalErr = err
			return backoff.Permanent(err)
		}
		attempt++
		v, err := fetch(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				terminalErr = ctxErr
				return backoff.Permanent(ctxErr)
			}
			lastErr = err
			if cfg.onError != nil {
				cfg.onError(attempt, err)
			}
			return err
		}
		if cfg.onObserve != nil {
			cfg.onObserve(attempt, v)
		}
		out := cfg.classify(v)
		switch out.Verdict {
		case Done:
			result = v
			return nil
		case Fail:
			result = v
			terminalErr = out.Err
			if terminalErr == nil {
				terminalErr = errors.New("observation rejected")
			}
			return backoff.Permanent(terminalErr)
		default:
			lastErr = errNotTerminal
			return errNotTerminal
		}
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if p.MaxAttempts > 1 {
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(p.MaxAttempts-1))
	}
	err := backoff.RetryNotifyWithTimer(op, backoff.WithContext(b, ctx), nil, cfg.timer)
	if err == nil {
		return result, nil
	}
	if terminalErr != nil {
		if errors.Is(terminalErr, context.Canceled) || errors.Is(terminalErr, context.DeadlineExceeded) {
			return zero, terminalErr
		}
		return result, terminalErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	if lastErr == nil || errors.Is(lastErr, errNotTerminal) {
		return zero, fmt.Errorf("%w after %d attempts", ErrExhausted, attempt)
	}
	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, lastErr)
}
