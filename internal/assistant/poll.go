package assistant

import (
	"context"
	"fmt"
	"time"
)

// poller repeatedly evaluates a condition at a fixed interval until it
// reports done, fails, or a wall-clock deadline measured from the first
// check expires. The deadline is enforced by the poller itself, independent
// of any deadline on the caller's context.
//
// now and sleep are injectable so tests can run without real waiting.
type poller struct {
	interval time.Duration
	deadline time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func newPoller(interval, deadline time.Duration) poller {
	return poller{
		interval: interval,
		deadline: deadline,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// wait polls check until it returns done or an error. Exceeding the deadline
// yields a timeout [Fault]. Errors from check are passed through unchanged.
func (p poller) wait(ctx context.Context, check func(ctx context.Context) (bool, error)) error {
	start := p.now()
	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if p.now().Sub(start) > p.deadline {
			return &Fault{
				Kind: KindTimeout,
				Err:  fmt.Errorf("no terminal state within %s", p.deadline),
			}
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return classify(err)
		}
	}
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
