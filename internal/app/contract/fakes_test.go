package contract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/scval"
)

type simResult struct {
	value scval.Value
	err   error
}

type fakeLedger struct {
	mu        sync.Mutex
	sims      map[string]simResult
	simulated []ports.Invocation
	prepared  []ports.Invocation
	sent      []string
	statuses  []ports.TxStatus
	lookups   int
	sendErr   error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{sims: map[string]simResult{}}
}

func simKey(method string, args ...ports.Arg) string {
	key := method
	for _, a := range args {
		key += "|" + a.Value
	}
	return key
}

func (f *fakeLedger) on(value scval.Value, method string, args ...ports.Arg) {
	f.sims[simKey(method, args...)] = simResult{value: value}
}

func (f *fakeLedger) fail(err error, method string, args ...ports.Arg) {
	f.sims[simKey(method, args...)] = simResult{err: err}
}

func (f *fakeLedger) Simulate(_ context.Context, inv ports.Invocation) (scval.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulated = append(f.simulated, inv)
	r, ok := f.sims[simKey(inv.Method, inv.Args...)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", inv.Method, ports.ErrNotFound)
	}
	return r.value, r.err
}

func (f *fakeLedger) Prepare(_ context.Context, inv ports.Invocation) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = append(f.prepared, inv)
	return "envelope:" + inv.Method, nil
}

func (f *fakeLedger) Send(_ context.Context, signed string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, signed)
	return "hash-1", nil
}

func (f *fakeLedger) GetTransaction(_ context.Context, hash string) (ports.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status := ports.TxNotFound
	if f.lookups < len(f.statuses) {
		status = f.statuses[f.lookups]
	} else if len(f.statuses) > 0 {
		status = f.statuses[len(f.statuses)-1]
	}
	f.lookups++
	return ports.Transaction{Hash: hash, Status: status}, nil
}

type fakeSigner struct {
	opts []ports.SignOptions
	err  error
}

func (s *fakeSigner) Sign(_ context.Context, envelope string, opts ports.SignOptions) (string, error) {
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return "", s.err
	}
	return "signed:" + envelope, nil
}

type instantTimer struct {
	c     chan time.Time
	waits int
}

func newInstantTimer() *instantTimer {
	return &instantTimer{c: make(chan time.Time, 1)}
}

func (t *instantTimer) Start(time.Duration) {
	t.waits++
	t.c <- time.Time{}
}
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

func petTuple(name string, stage any, happiness, hunger, health int, dead bool) scval.Value {
	return scval.Vec{
		scval.Prim{V: name},
		scval.Prim{V: uint64(1700000000)},
		scval.Prim{V: uint64(42)},
		scval.FromAny(stage),
		scval.Prim{V: happiness},
		scval.Prim{V: hunger},
		scval.Prim{V: health},
		scval.Prim{V: uint64(7)},
		scval.Prim{V: dead},
		scval.Prim{V: uint64(0)},
	}
}

func achievementTuple(id uint64, name, rarity string) scval.Value {
	return scval.Vec{
		scval.Pair{Hi: 0, Lo: id},
		scval.Tagged{Arm: "string", Inner: scval.Prim{V: name}},
		scval.Prim{V: name + " description"},
		scval.Prim{V: rarity},
		scval.Prim{V: ""},
		scval.Prim{V: "12"},
	}
}
