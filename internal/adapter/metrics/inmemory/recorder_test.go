package inmemory

import (
	"sync"
	"testing"

	"petworld/internal/app/ports"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordPollAttempt(false)
	r.RecordPollAttempt(true)
	r.RecordPollAttempt(false)
	r.RecordPollOutcome(ports.PollCompleted)
	r.RecordPollOutcome(ports.PollTimeout)
	r.RecordUnparseable("u128")
	r.RecordProxyRequest("clipgen.status", 200)
	r.RecordProxyRequest("clipgen.status", 200)
	r.RecordProxyRequest("s3", 404)

	s := r.Snapshot()
	if s.PollAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", s.PollAttempts)
	}
	if s.PollTransient != 1 {
		t.Fatalf("expected 1 transient, got %d", s.PollTransient)
	}
	if s.PollByOutcome["completed"] != 1 || s.PollByOutcome["timeout"] != 1 {
		t.Fatalf("unexpected outcomes: %v", s.PollByOutcome)
	}
	if s.UnparseableByKind["u128"] != 1 {
		t.Fatalf("expected u128 unparseable count 1")
	}
	if s.ProxyTotal != 3 {
		t.Fatalf("expected proxy total 3, got %d", s.ProxyTotal)
	}
	if s.ProxyByStatus["clipgen.status 200"] != 2 || s.ProxyByStatus["s3 404"] != 1 {
		t.Fatalf("unexpected proxy counts: %v", s.ProxyByStatus)
	}
}

func TestRecorderSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordPollOutcome(ports.PollFailed)
	s := r.Snapshot()
	s.PollByOutcome["failed"] = 99

	if got := r.Snapshot().PollByOutcome["failed"]; got != 1 {
		t.Fatalf("snapshot mutation leaked into recorder: got=%d", got)
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.RecordPollAttempt(j%2 == 0)
			}
		}()
	}
	wg.Wait()

	if got := r.Snapshot().PollAttempts; got != 800 {
		t.Fatalf("expected 800 attempts, got %d", got)
	}
}
