package ports

type PollOutcome string

const (
	PollCompleted PollOutcome = "completed"
	PollFailed    PollOutcome = "failed"
	PollTimeout   PollOutcome = "timeout"
	PollCancelled PollOutcome = "cancelled"
)

type PollMetrics interface {
	RecordPollAttempt(transient bool)
	RecordPollOutcome(outcome PollOutcome)
}

type DecodeMetrics interface {
	RecordUnparseable(kind string)
}

type ProxyMetrics interface {
	RecordProxyRequest(route string, status int)
}
