package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"petworld/internal/app/jobpoll"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"go.uber.org/zap"
)

const DefaultCacheTTL = time.Hour

var ErrInvalidRequest = errors.New("job id is required")

// UseCase reads generation job status. Terminal snapshots are cached, so
// finished jobs are served without calling the generation service again.
type UseCase struct {
	Videos   ports.VideoGenerator
	Cache    ports.JobCache
	CacheTTL time.Duration
	Poller   jobpoll.Poller
	Logger   *zap.Logger
}

func (u UseCase) Status(ctx context.Context, jobID string) (pet.GenerationJob, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return pet.GenerationJob{}, ErrInvalidRequest
	}
	if u.Cache != nil {
		job, err := u.Cache.Get(ctx, jobID)
		if err == nil {
			return job, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			u.logger().Warn("job cache read failed", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	job, err := u.Videos.Status(ctx, jobID)
	if err != nil {
		return pet.GenerationJob{}, err
	}
	if job.ID == "" {
		job.ID = jobID
	}
	if u.Cache != nil && job.Status.Terminal() {
		if err := u.Cache.Put(ctx, job, u.ttl()); err != nil {
			u.logger().Warn("job cache write failed", zap.String("job_id", jobID), zap.Error(err))
		}
	}
	return job, nil
}

// Wait polls until the job is terminal and returns its media set.
func (u UseCase) Wait(ctx context.Context, jobID string) (pet.MediaSet, error) {
	poller := u.Poller
	poller.Fetch = jobpoll.StatusFetcherFunc(u.Status)
	return poller.Poll(ctx, jobID, nil)
}

func (u UseCase) ttl() time.Duration {
	if u.CacheTTL <= 0 {
		return DefaultCacheTTL
	}
	return u.CacheTTL
}

func (u UseCase) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}
