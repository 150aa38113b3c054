package queue

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryManager_ShouldRetry(t *testing.T) {
	rm := NewRetryManager(0, nil)
	errSMTP := errors.New("smtp: connection refused")

	tests := []struct {
		name      string
		attempts  int
		err       error
		wantRetry bool
		wantDelay time.Duration
	}{
		{"first failure waits 30s", 1, errSMTP, true, 30 * time.Second},
		{"second failure waits 60s", 2, errSMTP, true, 60 * time.Second},
		{"third failure is final", 3, errSMTP, false, 0},
		{"permanent errors are not retried", 1, fmt.Errorf("bad payload: %w", ErrPermanent), false, 0},
		{"success is not retried", 1, nil, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, delay := rm.ShouldRetry(&Task{Attempts: tt.attempts}, tt.err)
			assert.Equal(t, tt.wantRetry, retry)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}
}

func TestRetryManager_TaskLimitOverridesDefault(t *testing.T) {
	rm := NewRetryManager(3, nil)

	retry, delay := rm.ShouldRetry(&Task{Attempts: 3, MaxAttempts: 4}, errors.New("boom"))
	assert.True(t, retry)
	assert.Equal(t, 120*time.Second, delay)
}

func TestRetryManager_Delay(t *testing.T) {
	rm := NewRetryManager(5, []time.Duration{time.Second, 2 * time.Second})

	assert.Equal(t, time.Second, rm.Delay(0))
	assert.Equal(t, time.Second, rm.Delay(1))
	assert.Equal(t, 2*time.Second, rm.Delay(2))
	assert.Equal(t, 2*time.Second, rm.Delay(7))
	assert.Equal(t, 5, rm.MaxAttempts())
}

func TestTask_Decode(t *testing.T) {
	task, err := NewTask("raffle_winner", map[string]string{"email": "a@b.mx"})
	assert.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	var out struct {
		Email string `json:"email"`
	}
	assert.NoError(t, task.Decode(&out))
	assert.Equal(t, "a@b.mx", out.Email)

	task.Payload = []byte("{")
	assert.ErrorIs(t, task.Decode(&out), ErrPermanent)
}
