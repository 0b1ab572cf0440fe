package backoff

import (
	"context"
	"time"

	"github.com/yungbote/searchlift-backend/internal/pkg/httpx"
)

// Policy is an injectable retry/backoff schedule. External-service callers
// hold one instead of sleeping inline, so tests can run without wall-clock
// delay by swapping the Sleep func.
type Policy struct {
	// MaxAttempts bounds retries per operation, inclusive of the first try.
	MaxAttempts int
	// BaseDelay seeds the exponential schedule: BaseDelay << attempt.
	BaseDelay time.Duration
	// MaxDelay caps a single wait. Zero means uncapped.
	MaxDelay time.Duration
	// Jitter spreads waits by +-20% when set.
	Jitter bool
	// Sleep is the wait primitive. Nil means a context-aware real sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default mirrors the schedule used against rate-limited providers:
// 3 attempts, 1s base, 10s cap, jittered.
func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 1 * time.Second, MaxDelay: 10 * time.Second, Jitter: true}
}

// NoDelay keeps the attempt accounting but waits zero time. Test use.
func NoDelay(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

// DelayFor returns the wait before retry number attempt (0-based: the wait
// taken after the first failure is DelayFor(0)).
func (p Policy) DelayFor(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter {
		d = httpx.JitterSleep(d)
	}
	return d
}

// Wait blocks for the attempt's delay, honoring ctx cancellation.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	d := p.DelayFor(attempt)
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleep(ctx, d)
}

// Pause blocks for a fixed duration through the policy's Sleep primitive.
// Used for flat inter-call delays, as opposed to failure backoff.
func (p Policy) Pause(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
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
