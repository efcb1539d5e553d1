// Package reconnect retries an operation on a fixed backoff schedule.
package reconnect

import (
	"context"
	"time"
)

// Schedule defines the backoff durations for successive attempts.
var Schedule = []time.Duration{
	250 * time.Millisecond, 250 * time.Millisecond,
	500 * time.Millisecond, 500 * time.Millisecond,
	time.Second, time.Second,
	2 * time.Second,
}

// MaxDelay is used for attempts beyond the length of the schedule.
var MaxDelay = 5 * time.Second

// Delay returns the backoff duration for the given attempt.
func Delay(attempt int) time.Duration {
	if attempt < len(Schedule) {
		return Schedule[attempt]
	}
	return MaxDelay
}

// Retry runs fn until it succeeds or ctx is done, sleeping Delay(attempt)
// between failures. onRetry, when set, is told about each failure.
func Retry(ctx context.Context, fn func(context.Context) error, onRetry func(attempt int, wait time.Duration, err error)) error {
	attempt := 0
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		delay := Delay(attempt)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		attempt++
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}
