package jobpoll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFetcher struct {
	mu    sync.Mutex
	steps []step
	calls int
	ids   []string
}

type step struct {
	job pet.GenerationJob
	err error
}

func (f *scriptedFetcher) Status(_ context.Context, jobID string) (pet.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, jobID)
	i := f.calls
	f.calls++
	if i >= len(f.steps) {
		i = len(f.steps) - 1
	}
	return f.steps[i].job, f.steps[i].err
}

type countingTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *countingTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Time{}
}
func (t *countingTimer) Stop()               {}
func (t *countingTimer) C() <-chan time.Time { return t.c }

type recordingMetrics struct {
	attempts  int
	transient int
	outcomes  []ports.PollOutcome
}

func (m *recordingMetrics) RecordPollAttempt(transient bool) {
	m.attempts++
	if transient {
		m.transient++
	}
}

func (m *recordingMetrics) RecordPollOutcome(o ports.PollOutcome) {
	m.outcomes = append(m.outcomes, o)
}

func processing(id string) step {
	return step{job: pet.GenerationJob{ID: id, Status: pet.JobProcessing, Progress: "working"}}
}

func TestPoll_CompletesAfterTwoWaits(t *testing.T) {
	interval := 3 * time.Second
	completed := pet.GenerationJob{
		ID:     "job-1",
		Status: pet.JobCompleted,
		Videos: map[pet.Emotion]pet.VideoResult{pet.EmotionHappy: {VideoURL: "u1"}},
	}
	fetcher := &scriptedFetcher{steps: []step{processing("job-1"), processing("job-1"), {job: completed}}}
	timer := &countingTimer{}
	metrics := &recordingMetrics{}
	var progress []pet.GenerationJob

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 120, Interval: interval}, Timer: timer, Metrics: metrics}
	media, err := p.Poll(context.Background(), "job-1", func(job pet.GenerationJob) {
		progress = append(progress, job)
	})
	require.NoError(t, err)

	require.NotNil(t, media.Happy)
	assert.Equal(t, "u1", *media.Happy)
	assert.Nil(t, media.Sad)
	assert.Nil(t, media.Angry)

	assert.Equal(t, []time.Duration{interval, interval}, timer.waits)
	require.Len(t, progress, 3)
	assert.Equal(t, pet.JobProcessing, progress[0].Status)
	assert.Equal(t, pet.JobProcessing, progress[1].Status)
	assert.Equal(t, completed.Status, progress[2].Status)
	assert.Equal(t, "u1", progress[2].Videos[pet.EmotionHappy].VideoURL)

	assert.Equal(t, 3, metrics.attempts)
	assert.Equal(t, []ports.PollOutcome{ports.PollCompleted}, metrics.outcomes)
	assert.Equal(t, []string{"job-1", "job-1", "job-1"}, fetcher.ids)
}

func TestPoll_TimesOutAfterMaxAttempts(t *testing.T) {
	const maxAttempts = 7
	fetcher := &scriptedFetcher{steps: []step{processing("job-2")}}
	timer := &countingTimer{}
	metrics := &recordingMetrics{}

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: maxAttempts, Interval: time.Second}, Timer: timer, Metrics: metrics}
	_, err := p.Poll(context.Background(), "job-2", nil)

	require.ErrorIs(t, err, ErrJobTimeout)
	assert.NotErrorIs(t, err, ErrJobFailed)
	assert.Equal(t, maxAttempts, fetcher.calls)
	assert.Len(t, timer.waits, maxAttempts-1)
	assert.Equal(t, []ports.PollOutcome{ports.PollTimeout}, metrics.outcomes)
}

func TestPoll_FailedIsImmediate(t *testing.T) {
	failed := pet.GenerationJob{ID: "job-3", Status: pet.JobFailed, Errors: map[string]string{"sad": "gpu quota"}}
	fetcher := &scriptedFetcher{steps: []step{{job: failed}, processing("job-3")}}
	timer := &countingTimer{}
	var progress int

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 120, Interval: time.Second}, Timer: timer}
	_, err := p.Poll(context.Background(), "job-3", func(pet.GenerationJob) { progress++ })

	require.ErrorIs(t, err, ErrJobFailed)
	assert.NotErrorIs(t, err, ErrJobTimeout)
	assert.Contains(t, err.Error(), "gpu quota")
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, progress)
	assert.Empty(t, timer.waits)
}

func TestPoll_TransientErrorsCountTowardBudget(t *testing.T) {
	blip := errors.New("connection reset")
	completed := pet.GenerationJob{ID: "job-4", Status: pet.JobCompleted, Videos: map[pet.Emotion]pet.VideoResult{
		pet.EmotionSad: {VideoURL: "s"},
	}}
	fetcher := &scriptedFetcher{steps: []step{{err: blip}, {err: blip}, {job: completed}}}
	timer := &countingTimer{}
	metrics := &recordingMetrics{}
	var progress int

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 3, Interval: time.Second}, Timer: timer, Metrics: metrics}
	media, err := p.Poll(context.Background(), "job-4", func(pet.GenerationJob) { progress++ })

	require.NoError(t, err)
	require.NotNil(t, media.Sad)
	assert.Equal(t, "s", *media.Sad)
	assert.Equal(t, 3, fetcher.calls)
	assert.Equal(t, 1, progress)
	assert.Equal(t, 3, metrics.attempts)
	assert.Equal(t, 2, metrics.transient)
	assert.Len(t, timer.waits, 2)
}

func TestPoll_RepeatedTransientErrorsSurfaceAsTimeout(t *testing.T) {
	fetcher := &scriptedFetcher{steps: []step{{err: errors.New("404 not found yet")}}}

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 4, Interval: time.Second}, Timer: &countingTimer{}}
	_, err := p.Poll(context.Background(), "job-5", nil)

	require.ErrorIs(t, err, ErrJobTimeout)
	assert.Equal(t, 4, fetcher.calls)
}

func TestPoll_RejectsEmptyJobID(t *testing.T) {
	p := Poller{Fetch: &scriptedFetcher{}}
	_, err := p.Poll(context.Background(), "  ", nil)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPoll_CancelledContextStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := StatusFetcherFunc(func(context.Context, string) (pet.GenerationJob, error) {
		cancel()
		return pet.GenerationJob{Status: pet.JobQueued}, nil
	})
	metrics := &recordingMetrics{}

	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 100, Interval: time.Hour}, Metrics: metrics}
	_, err := p.Poll(ctx, "job-6", nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []ports.PollOutcome{ports.PollCancelled}, metrics.outcomes)
}

func TestPoll_IndependentLoopsForSameJob(t *testing.T) {
	completed := step{job: pet.GenerationJob{ID: "job-7", Status: pet.JobCompleted}}
	fetcher := &scriptedFetcher{steps: []step{completed}}
	p := Poller{Fetch: fetcher, Policy: retry.Policy{MaxAttempts: 2, Interval: time.Millisecond}}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Poll(context.Background(), "job-7", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, fetcher.calls)
}

func TestPoll_DefaultsApplied(t *testing.T) {
	pol := Poller{}.policy()
	assert.Equal(t, DefaultMaxAttempts, pol.MaxAttempts)
	assert.Equal(t, DefaultInterval, pol.Interval)
}
