package jobpoll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/retry"

	"go.uber.org/zap"
)

const (
	DefaultInterval    = 3 * time.Second
	DefaultMaxAttempts = 120
)

var (
	ErrInvalidRequest = errors.New("invalid poll request")
	ErrJobFailed      = errors.New("generation job failed")
	ErrJobTimeout     = errors.New("generation job timed out")
)

// StatusFetcher reads one snapshot of a job. It never mutates the job.
type StatusFetcher interface {
	Status(ctx context.Context, jobID string) (pet.GenerationJob, error)
}

type StatusFetcherFunc func(ctx context.Context, jobID string) (pet.GenerationJob, error)

func (f StatusFetcherFunc) Status(ctx context.Context, jobID string) (pet.GenerationJob, error) {
	return f(ctx, jobID)
}

type ProgressFunc func(job pet.GenerationJob)

// Poller waits for a generation job to reach a terminal state. It holds no
// per-job state, so concurrent polls of the same id are independent.
type Poller struct {
	Fetch   StatusFetcher
	Policy  retry.Policy
	Metrics ports.PollMetrics
	Logger  *zap.Logger
	Timer   retry.Timer
}

func (p Poller) policy() retry.Policy {
	pol := p.Policy
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = DefaultMaxAttempts
	}
	if pol.Interval <= 0 {
		pol.Interval = DefaultInterval
	}
	return pol
}

func (p Poller) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Poll returns the per-emotion media URLs once the job completes. onProgress,
// when set, receives every successful snapshot in order.
func (p Poller) Poll(ctx context.Context, jobID string, onProgress ProgressFunc) (pet.MediaSet, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || p.Fetch == nil {
		return pet.MediaSet{}, ErrInvalidRequest
	}
	pol := p.policy()
	log := p.logger().With(zap.String("job_id", jobID))

	opts := []retry.Option[pet.GenerationJob]{
		retry.Classify(classify),
		retry.OnObserve(func(attempt int, job pet.GenerationJob) {
			p.recordAttempt(false)
			log.Debug("job status", zap.Int("attempt", attempt), zap.String("status", string(job.Status)), zap.String("progress", job.Progress))
			if onProgress != nil {
				onProgress(job)
			}
		}),
		retry.OnError[pet.GenerationJob](func(attempt int, err error) {
			p.recordAttempt(true)
			log.Warn("job status fetch failed", zap.Int("attempt", attempt), zap.Error(err))
		}),
	}
	if p.Timer != nil {
		opts = append(opts, retry.WithTimer[pet.GenerationJob](p.Timer))
	}

	job, err := retry.Until(ctx, pol, func(ctx context.Context) (pet.GenerationJob, error) {
		return p.Fetch.Status(ctx, jobID)
	}, opts...)
	switch {
	case err == nil:
		p.recordOutcome(ports.PollCompleted)
		log.Info("job completed")
		return job.Media(), nil
	case errors.Is(err, ErrJobFailed):
		p.recordOutcome(ports.PollFailed)
		log.Error("job failed", zap.Any("errors", job.Errors))
		return pet.MediaSet{}, err
	case errors.Is(err, retry.ErrExhausted):
		p.recordOutcome(ports.PollTimeout)
		log.Error("job timed out", zap.Int("max_attempts", pol.MaxAttempts), zap.Duration("interval", pol.Interval))
		return pet.MediaSet{}, fmt.Errorf("%w: %w", ErrJobTimeout, err)
	default:
		p.recordOutcome(ports.PollCancelled)
		return pet.MediaSet{}, err
	}
}

func classify(job pet.GenerationJob) retry.Outcome {
	switch job.Status {
	case pet.JobCompleted:
		return retry.Finish()
	case pet.JobFailed:
		return retry.Abort(failure(job))
	default:
		return retry.Continue()
	}
}

func failure(job pet.GenerationJob) error {
	if len(job.Errors) == 0 {
		return ErrJobFailed
	}
	parts := make([]string, 0, len(job.Errors))
	for _, e := range pet.Emotions {
		if msg, ok := job.Errors[string(e)]; ok {
			parts = append(parts, string(e)+": "+msg)
		}
	}
	if len(parts) == 0 {
		return ErrJobFailed
	}
	return fmt.Errorf("%w (%s)", ErrJobFailed, strings.Join(parts, "; "))
}

func (p Poller) recordAttempt(transient bool) {
	if p.Metrics != nil {
		p.Metrics.RecordPollAttempt(transient)
	}
}

func (p Poller) recordOutcome(o ports.PollOutcome) {
	if p.Metrics != nil {
		p.Metrics.RecordPollOutcome(o)
	}
}
