package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToTopicAndWildcard(t *testing.T) {
	b := New(8)

	var mu sync.Mutex
	var got []string
	done := make(chan struct{}, 4)

	record := func(name string) Handler {
		return func(_ context.Context, msg Message) {
			mu.Lock()
			got = append(got, name+":"+msg.Topic)
			mu.Unlock()
			done <- struct{}{}
		}
	}

	b.Subscribe("raffle.winner.drawn", record("winner"))
	b.Subscribe(AllTopics, record("all"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	b.Publish(ctx, "raffle.winner.drawn", 1, "payload")
	b.Publish(ctx, "attendance.recorded", 1, "payload")

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dispatch")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{
		"winner:raffle.winner.drawn",
		"all:raffle.winner.drawn",
		"all:attendance.recorded",
	}, got)
}

func TestBus_PanickingHandlerDoesNotStopDispatch(t *testing.T) {
	b := New(4)
	delivered := make(chan Message, 1)

	b.Subscribe("t", func(context.Context, Message) { panic("boom") })
	b.Subscribe("t", func(_ context.Context, msg Message) { delivered <- msg })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	b.Publish(ctx, "t", 9, nil)

	select {
	case msg := <-delivered:
		assert.Equal(t, uint(9), msg.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("second handler never ran")
	}
}

func TestBus_PublishDropsWhenFull(t *testing.T) {
	b := New(1)
	b.Publish(context.Background(), "t", 1, nil)
	b.Publish(context.Background(), "t", 2, nil)

	require.Len(t, b.ch, 1)
	msg := <-b.ch
	assert.Equal(t, uint(1), msg.EventID)
}
