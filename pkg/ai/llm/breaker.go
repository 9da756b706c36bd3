package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
)

// newBreaker builds the circuit breaker wrapped around every vendor
// transport's outbound call, so a flapping LLM backend trips open after a
// run of failures instead of stalling every diagnosis/strategy call
// behind a slow timeout.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// callWithBreaker runs fn through the breaker and normalizes a trip into
// an apierrors Timeout so callers can branch on it the same way as any
// other LLM failure.
func callWithBreaker(ctx context.Context, breaker *gobreaker.CircuitBreaker, fn func() (string, error)) (string, error) {
	result, err := breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", apierrors.Timeout("LLM circuit breaker open: %v", err)
		}
		return "", err
	}
	return result.(string), nil
}
