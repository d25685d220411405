package utils

import (
	"context"
	"time"
)

// ContextSleep waits for d to elapse, it returns false if ctx is done first.
func ContextSleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return false
	case <-timer.C:
		return true
	}
}
