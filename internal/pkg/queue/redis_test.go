package queue

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRedis *redis.Client

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("docker unavailable, redis tests skipped: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("redis", "7-alpine", nil)
	if err != nil {
		log.Printf("could not start redis, redis tests skipped: %v", err)
		os.Exit(m.Run())
	}

	err = pool.Retry(func() error {
		testRedis = redis.NewClient(&redis.Options{Addr: resource.GetHostPort("6379/tcp")})
		return testRedis.Ping(context.Background()).Err()
	})
	if err != nil {
		log.Printf("redis never became ready: %v", err)
		testRedis = nil
	}

	code := m.Run()

	_ = pool.Purge(resource)
	os.Exit(code)
}

func newTestQueue(t *testing.T, now time.Time) *RedisQueue {
	t.Helper()
	if testRedis == nil {
		t.Skip("redis not available")
	}

	ctx := context.Background()
	require.NoError(t, testRedis.FlushDB(ctx).Err())

	q := NewRedisQueue(testRedis, RedisQueueConfig{Prefix: "test", BlockTimeout: 100 * time.Millisecond}, nil, nil)
	q.now = func() time.Time { return now }
	return q
}

func TestRedisQueue_SuccessfulTask(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t, time.Now())

	task, err := NewTask("raffle_winner", map[string]int{"guest_id": 1})
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, task))

	var seen *Task
	took, err := q.ProcessNext(ctx, func(_ context.Context, tk *Task) error {
		seen = tk
		return nil
	})
	require.NoError(t, err)
	assert.True(t, took)
	require.NotNil(t, seen)
	assert.Equal(t, 1, seen.Attempts)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRedisQueue_RetryScheduleThenDLQ(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 12, 12, 20, 0, 0, 0, time.UTC)
	q := newTestQueue(t, start)

	task, err := NewTask("raffle_winner", map[string]int{"guest_id": 1})
	require.NoError(t, err)
	require.NoError(t, q.Publish(ctx, task))

	failing := func(context.Context, *Task) error { return errors.New("smtp down") }

	// attempt 1 fails: retried 30s later
	_, err = q.ProcessNext(ctx, failing)
	require.NoError(t, err)
	assertDelayedAt(t, q, start.Add(30*time.Second))

	moved, err := q.PromoteDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	// attempt 2 fails: retried 60s later
	q.now = func() time.Time { return start.Add(30 * time.Second) }
	moved, err = q.PromoteDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	_, err = q.ProcessNext(ctx, failing)
	require.NoError(t, err)
	assertDelayedAt(t, q, start.Add(90*time.Second))

	// attempt 3 fails: dead-lettered
	q.now = func() time.Time { return start.Add(90 * time.Second) }
	_, err = q.PromoteDue(ctx)
	require.NoError(t, err)
	_, err = q.ProcessNext(ctx, failing)
	require.NoError(t, err)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	dead, err := q.dlq.(*RedisDLQ).FailedTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, task.ID, dead[0].Task.ID)
	assert.Equal(t, 3, dead[0].Task.Attempts)
	assert.Equal(t, "smtp down", dead[0].Error)
}

func assertDelayedAt(t *testing.T, q *RedisQueue, at time.Time) {
	t.Helper()

	zs, err := testRedis.ZRangeWithScores(context.Background(), q.delayed, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, zs, 1)
	assert.Equal(t, float64(at.Unix()), zs[0].Score)
}
