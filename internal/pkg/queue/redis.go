package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisQueueConfig struct {
	Prefix       string
	PollInterval time.Duration
	BlockTimeout time.Duration
}

// RedisQueue keeps ready tasks in a list, delayed retries in a sorted set scored
// by execution time, and in-flight tasks in a processing list.
type RedisQueue struct {
	client       *redis.Client
	main         string
	delayed      string
	processing   string
	retry        *RetryManager
	dlq          DLQHandler
	pollInterval time.Duration
	blockTimeout time.Duration
	now          func() time.Time

	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

func NewRedisQueue(client *redis.Client, conf RedisQueueConfig, retry *RetryManager, dlq DLQHandler) *RedisQueue {
	if conf.Prefix == "" {
		conf.Prefix = "raffle"
	}
	if conf.PollInterval <= 0 {
		conf.PollInterval = 5 * time.Second
	}
	if conf.BlockTimeout <= 0 {
		conf.BlockTimeout = 5 * time.Second
	}
	if retry == nil {
		retry = NewRetryManager(DefaultMaxAttempts, DefaultBackoff)
	}
	if dlq == nil {
		dlq = NewRedisDLQ(client, conf.Prefix+":tasks:dlq")
	}

	return &RedisQueue{
		client:       client,
		main:         conf.Prefix + ":tasks",
		delayed:      conf.Prefix + ":tasks:delayed",
		processing:   conf.Prefix + ":tasks:processing",
		retry:        retry,
		dlq:          dlq,
		pollInterval: conf.PollInterval,
		blockTimeout: conf.BlockTimeout,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

func (q *RedisQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil || task.Type == "" {
		return errors.New("task type is required")
	}

	now := q.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = q.retry.MaxAttempts()
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if task.ExecuteAt.After(now) {
		err = q.client.ZAdd(ctx, q.delayed, redis.Z{
			Score:  float64(task.ExecuteAt.Unix()),
			Member: data,
		}).Err()
		if err != nil {
			return fmt.Errorf("q.client.ZAdd -> %w", err)
		}
		return nil
	}

	if err = q.client.LPush(ctx, q.main, data).Err(); err != nil {
		return fmt.Errorf("q.client.LPush -> %w", err)
	}

	return nil
}

// Subscribe starts the consumer and the delayed-task promoter. Both stop when ctx
// is cancelled or Close is called.
func (q *RedisQueue) Subscribe(ctx context.Context, handler Handler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	q.wg.Add(2)
	go q.consume(ctx, handler)
	go q.promoteLoop(ctx)

	zap.L().Info("task queue subscribed", zap.String("queue", q.main))
	return nil
}

func (q *RedisQueue) consume(ctx context.Context, handler Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		default:
		}

		if _, err := q.ProcessNext(ctx, handler); err != nil && ctx.Err() == nil {
			zap.L().Error("task queue consume failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (q *RedisQueue) promoteLoop(ctx context.Context) {
	defer q.wg.Done()

	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopCh:
			return
		case <-ticker.C:
			if _, err := q.PromoteDue(ctx); err != nil && ctx.Err() == nil {
				zap.L().Error("task queue promote failed", zap.Error(err))
			}
		}
	}
}

// ProcessNext runs at most one ready task. It reports whether a task was taken.
func (q *RedisQueue) ProcessNext(ctx context.Context, handler Handler) (bool, error) {
	raw, err := q.client.BRPopLPush(ctx, q.main, q.processing, q.blockTimeout).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("q.client.BRPopLPush -> %w", err)
	}

	defer func() {
		if err := q.client.LRem(ctx, q.processing, 1, raw).Err(); err != nil {
			zap.L().Warn("task queue processing cleanup failed", zap.Error(err))
		}
	}()

	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		q.dlq.HandleFailedTask(ctx, &Task{ID: "corrupted", Type: "corrupted", Payload: json.RawMessage(strconv.Quote(raw))}, err)
		return true, nil
	}

	task.Attempts++
	handlerErr := handler(ctx, &task)
	if handlerErr == nil {
		zap.L().Debug("task done", zap.String("id", task.ID), zap.String("type", task.Type), zap.Int("attempt", task.Attempts))
		return true, nil
	}

	task.LastError = handlerErr.Error()
	retry, delay := q.retry.ShouldRetry(&task, handlerErr)
	if !retry {
		zap.L().Warn("task failed permanently",
			zap.String("id", task.ID),
			zap.String("type", task.Type),
			zap.Int("attempts", task.Attempts),
			zap.Error(handlerErr),
		)
		q.dlq.HandleFailedTask(ctx, &task, handlerErr)
		return true, nil
	}

	task.ExecuteAt = q.now().Add(delay)
	zap.L().Info("task scheduled for retry",
		zap.String("id", task.ID),
		zap.String("type", task.Type),
		zap.Int("attempt", task.Attempts),
		zap.Duration("delay", delay),
		zap.Error(handlerErr),
	)
	if err := q.Publish(ctx, &task); err != nil {
		return true, fmt.Errorf("q.Publish retry -> %w", err)
	}

	return true, nil
}

// PromoteDue moves delayed tasks whose time has come onto the ready list.
func (q *RedisQueue) PromoteDue(ctx context.Context) (int, error) {
	members, err := q.client.ZRangeByScore(ctx, q.delayed, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(q.now().Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("q.client.ZRangeByScore -> %w", err)
	}

	moved := 0
	for _, m := range members {
		// Only the consumer that removes the member gets to enqueue it.
		removed, err := q.client.ZRem(ctx, q.delayed, m).Result()
		if err != nil {
			return moved, fmt.Errorf("q.client.ZRem -> %w", err)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, q.main, m).Err(); err != nil {
			return moved, fmt.Errorf("q.client.LPush -> %w", err)
		}
		moved++
	}

	return moved, nil
}

type Stats struct {
	Ready      int64 `json:"ready"`
	Delayed    int64 `json:"delayed"`
	Processing int64 `json:"processing"`
}

func (q *RedisQueue) Stats(ctx context.Context) (Stats, error) {
	pipe := q.client.Pipeline()
	ready := pipe.LLen(ctx, q.main)
	delayed := pipe.ZCard(ctx, q.delayed)
	processing := pipe.LLen(ctx, q.processing)
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, fmt.Errorf("pipe.Exec -> %w", err)
	}

	return Stats{
		Ready:      ready.Val(),
		Delayed:    delayed.Val(),
		Processing: processing.Val(),
	}, nil
}

func (q *RedisQueue) Close() error {
	q.once.Do(func() { close(q.stopCh) })
	q.wg.Wait()
	return nil
}
