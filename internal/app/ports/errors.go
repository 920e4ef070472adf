package ports

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrSimulation = errors.New("contract simulation failed")
	ErrUpstream   = errors.New("upstream request failed")

	ErrInvalidObjectPath = errors.New("object path must be bucket-relative")
)

// UpstreamError carries the status and message returned by a remote service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return e.Service + ": upstream request failed"
	}
	return e.Service + ": " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// SimulationError keeps the remote message so callers can tell a missing
// record from a broken call.
type SimulationError struct {
	Method  string
	Message string
}

func (e *SimulationError) Error() string {
	return "simulate " + e.Method + ": " + e.Message
}

func (e *SimulationError) Unwrap() error {
	return ErrSimulation
}
