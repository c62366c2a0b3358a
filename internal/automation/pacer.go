package automation

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer produces randomized human-like pauses in [min, max].
type Pacer struct {
	min time.Duration
	max time.Duration
}

// NewPacer creates a pacer. A zero range never sleeps.
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{min: min, max: max}
}

// Delay returns the next randomized delay.
func (p *Pacer) Delay() time.Duration {
	if p.max <= p.min {
		return p.min
	}
	return p.min + rand.N(p.max-p.min+1)
}

// Pause sleeps for a randomized delay or until ctx is done.
func (p *Pacer) Pause(ctx context.Context) error {
	return Sleep(ctx, p.Delay())
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
