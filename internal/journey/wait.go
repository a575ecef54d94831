package journey

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Wait blocks for d on clock unless ctx ends first, in which case the timer
// is stopped and ctx.Err() returned.
func Wait(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
