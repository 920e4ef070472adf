package memcache

import (
	"context"
	"sync"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
)

type entry struct {
	job     pet.GenerationJob
	expires time.Time
}

type JobCache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewJobCache() *JobCache {
	return &JobCache{entries: map[string]entry{}, now: time.Now}
}

func (c *JobCache) Get(_ context.Context, jobID string) (pet.GenerationJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[jobID]
	if !ok {
		return pet.GenerationJob{}, ports.ErrNotFound
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, jobID)
		return pet.GenerationJob{}, ports.ErrNotFound
	}
	return e.job, nil
}

// Put stores job; a non-positive ttl keeps it until the process exits.
func (c *JobCache) Put(_ context.Context, job pet.GenerationJob, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{job: job}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[job.ID] = e
	return nil
}
