package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type DLQHandler interface {
	HandleFailedTask(ctx context.Context, task *Task, err error)
}

type FailedTask struct {
	Task     *Task     `json:"task"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RedisDLQ keeps dead tasks in a sorted set scored by failure time.
type RedisDLQ struct {
	client *redis.Client
	key    string
}

func NewRedisDLQ(client *redis.Client, key string) *RedisDLQ {
	return &RedisDLQ{
		client: client,
		key:    key,
	}
}

func (d *RedisDLQ) HandleFailedTask(ctx context.Context, task *Task, err error) {
	ft := FailedTask{
		Task:     task,
		Error:    err.Error(),
		FailedAt: time.Now(),
	}

	data, marshalErr := json.Marshal(ft)
	if marshalErr != nil {
		zap.L().Error("dlq marshal failed", zap.String("id", task.ID), zap.Error(marshalErr))
		return
	}

	if zErr := d.client.ZAdd(ctx, d.key, redis.Z{
		Score:  float64(ft.FailedAt.Unix()),
		Member: data,
	}).Err(); zErr != nil {
		zap.L().Error("dlq write failed", zap.String("id", task.ID), zap.Error(zErr))
		return
	}

	zap.L().Warn("task moved to dlq", zap.String("id", task.ID), zap.String("type", task.Type), zap.Error(err))
}

// FailedTasks returns dead tasks, newest first.
func (d *RedisDLQ) FailedTasks(ctx context.Context, limit int) ([]FailedTask, error) {
	if limit <= 0 {
		limit = 50
	}

	raw, err := d.client.ZRevRange(ctx, d.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("d.client.ZRevRange -> %w", err)
	}

	out := make([]FailedTask, 0, len(raw))
	for _, r := range raw {
		var ft FailedTask
		if err := json.Unmarshal([]byte(r), &ft); err != nil {
			continue
		}
		out = append(out, ft)
	}

	return out, nil
}
