package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "petworld:job:"

type JobCache struct {
	client *redis.Client
}

func New(client *redis.Client) *JobCache {
	return &JobCache{client: client}
}

// Dial parses a redis:// URL and checks the server answers.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *JobCache) Get(ctx context.Context, jobID string) (pet.GenerationJob, error) {
	raw, err := c.client.Get(ctx, keyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return pet.GenerationJob{}, ports.ErrNotFound
	}
	if err != nil {
		return pet.GenerationJob{}, err
	}
	var job pet.GenerationJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return pet.GenerationJob{}, fmt.Errorf("decode cached job %s: %w", jobID, err)
	}
	return job, nil
}

func (c *JobCache) Put(ctx context.Context, job pet.GenerationJob, ttl time.Duration) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+job.ID, raw, ttl).Err()
}
