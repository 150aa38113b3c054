package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrPermanent marks a handler failure that must not be retried.
var ErrPermanent = errors.New("permanent task failure")

type Task struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	ExecuteAt   time.Time       `json:"execute_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

func NewTask(taskType string, payload interface{}) (*Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal -> %w", err)
	}

	return &Task{
		ID:      uuid.NewString(),
		Type:    taskType,
		Payload: b,
	}, nil
}

func (t *Task) Decode(v interface{}) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", ErrPermanent, t.Type, err)
	}
	return nil
}

type Handler func(ctx context.Context, task *Task) error

type Queue interface {
	Publish(ctx context.Context, task *Task) error
	Subscribe(ctx context.Context, handler Handler) error
	Close() error
}
