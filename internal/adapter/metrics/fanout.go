// Package metrics combines the KPI recorders behind the app metric ports.
package metrics

import "petworld/internal/app/ports"

type Sink interface {
	ports.PollMetrics
	ports.DecodeMetrics
	ports.ProxyMetrics
}

// Fanout forwards every record call to each sink in order.
type Fanout []Sink

func (f Fanout) RecordPollAttempt(transient bool) {
	for _, s := range f {
		s.RecordPollAttempt(transient)
	}
}

func (f Fanout) RecordPollOutcome(outcome ports.PollOutcome) {
	for _, s := range f {
		s.RecordPollOutcome(outcome)
	}
}

func (f Fanout) RecordUnparseable(kind string) {
	for _, s := range f {
		s.RecordUnparseable(kind)
	}
}

func (f Fanout) RecordProxyRequest(route string, status int) {
	for _, s := range f {
		s.RecordProxyRequest(route, status)
	}
}
