package ports

import (
	"context"
	"io"
	"time"

	"petworld/internal/domain/pet"
)

type VideoGenerator interface {
	StartJob(ctx context.Context, image io.Reader, filename string) (string, error)
	Status(ctx context.Context, jobID string) (pet.GenerationJob, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Object struct {
	Body        []byte
	ContentType string
}

// ObjectFetcher reads a bucket-relative path from the configured bucket.
type ObjectFetcher interface {
	Fetch(ctx context.Context, path string) (Object, error)
}

// URLFetcher downloads an absolute http(s) URL, such as a generated avatar.
type URLFetcher interface {
	FetchURL(ctx context.Context, rawURL string) (Object, error)
}

// JobCache keeps terminal job snapshots so finished jobs are not re-polled upstream.
type JobCache interface {
	Get(ctx context.Context, jobID string) (pet.GenerationJob, error)
	Put(ctx context.Context, job pet.GenerationJob, ttl time.Duration) error
}
