package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
)

type recordingPublisher struct {
	keys chan string
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.keys <- key
	return p.err
}

func TestForward(t *testing.T) {
	bus := eventbus.New(4)
	pub := &recordingPublisher{keys: make(chan string, 4), err: errors.New("closed")}
	Forward(bus, pub, "raffle.winner.drawn")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Run(ctx)

	bus.Publish(ctx, "attendance.recorded", 1, nil)
	bus.Publish(ctx, "raffle.winner.drawn", 1, map[string]int{"guest_id": 3})

	select {
	case key := <-pub.keys:
		assert.Equal(t, "raffle.winner.drawn", key)
	case <-time.After(2 * time.Second):
		t.Fatal("nothing forwarded")
	}
	assert.Len(t, pub.keys, 0)
}
