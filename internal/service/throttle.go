package service

import (
	"context"
	"time"
)

// sleepCtx pauses between consecutive gateway sends so the WhatsApp provider
// is not flooded. Returns early with the context error on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
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
