package retry

import (
	"context"
	"time"
)

// Sleep waits d on t, or on a real timer when t is nil. It returns early with
// ctx.Err() when ctx is done. A non-positive d does not touch the timer.
func Sleep(ctx context.Context, d time.Duration, t Timer) error {
	if d <= 0 {
		return ctx.Err()
	}
	if t == nil {
		t = &wallTimer{}
	}
	t.Start(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C():
		return nil
	}
}

type wallTimer struct {
	t *time.Timer
}

func (w *wallTimer) Start(d time.Duration) {
	if w.t == nil {
		w.t = time.NewTimer(d)
		return
	}
	w.t.Reset(d)
}

func (w *wallTimer) Stop() {
	if w.t != nil {
		w.t.Stop()
	}
}

func (w *wallTimer) C() <-chan time.Time { return w.t.C }
