package inmemory

import (
	"strconv"
	"sync"

	"petworld/internal/app/ports"
)

type Snapshot struct {
	PollAttempts      uint64            `json:"poll_attempts"`
	PollTransient     uint64            `json:"poll_transient_errors"`
	PollByOutcome     map[string]uint64 `json:"poll_by_outcome"`
	UnparseableByKind map[string]uint64 `json:"unparseable_by_kind"`
	ProxyTotal        uint64            `json:"proxy_total"`
	ProxyByStatus     map[string]uint64 `json:"proxy_by_status"`
}

// Recorder keeps process-local KPI counters for /ops/kpi.
type Recorder struct {
	mu          sync.Mutex
	attempts    uint64
	transient   uint64
	outcomes    map[string]uint64
	unparseable map[string]uint64
	proxy       uint64
	proxyStatus map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		outcomes:    map[string]uint64{},
		unparseable: map[string]uint64{},
		proxyStatus: map[string]uint64{},
	}
}

func (r *Recorder) RecordPollAttempt(transient bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if transient {
		r.transient++
	}
}

func (r *Recorder) RecordPollOutcome(outcome ports.PollOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[string(outcome)]++
}

func (r *Recorder) RecordUnparseable(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unparseable[kind]++
}

func (r *Recorder) RecordProxyRequest(route string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proxy++
	r.proxyStatus[route+" "+strconv.Itoa(status)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		PollAttempts:      r.attempts,
		PollTransient:     r.transient,
		PollByOutcome:     copyCounts(r.outcomes),
		UnparseableByKind: copyCounts(r.unparseable),
		ProxyTotal:        r.proxy,
		ProxyByStatus:     copyCounts(r.proxyStatus),
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
