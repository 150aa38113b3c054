package queue

import (
	"errors"
	"time"
)

const DefaultMaxAttempts = 3

// DefaultBackoff is the wait after the first, second and third failed attempt.
var DefaultBackoff = []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second}

type RetryManager struct {
	maxAttempts int
	backoff     []time.Duration
}

func NewRetryManager(maxAttempts int, backoff []time.Duration) *RetryManager {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if len(backoff) == 0 {
		backoff = DefaultBackoff
	}

	return &RetryManager{
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

func (r *RetryManager) MaxAttempts() int {
	return r.maxAttempts
}

// ShouldRetry reports whether a task that just failed gets another attempt, and after how long.
func (r *RetryManager) ShouldRetry(task *Task, err error) (bool, time.Duration) {
	if err == nil || errors.Is(err, ErrPermanent) {
		return false, 0
	}

	limit := task.MaxAttempts
	if limit <= 0 {
		limit = r.maxAttempts
	}
	if task.Attempts >= limit {
		return false, 0
	}

	return true, r.Delay(task.Attempts)
}

// Delay returns the backoff after the given number of failed attempts.
// Attempts past the schedule reuse its last step.
func (r *RetryManager) Delay(attempts int) time.Duration {
	if attempts <= 0 {
		return r.backoff[0]
	}
	if attempts > len(r.backoff) {
		return r.backoff[len(r.backoff)-1]
	}
	return r.backoff[attempts-1]
}
