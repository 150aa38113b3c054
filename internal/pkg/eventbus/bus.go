// Package eventbus is an in-process publish/subscribe channel for change
// records and raffle events.
package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AllTopics subscribes a handler to every topic.
const AllTopics = "*"

type Message struct {
	Topic     string
	EventID   uint
	Payload   interface{}
	Timestamp time.Time
}

type Handler func(ctx context.Context, msg Message)

type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	ch   chan Message
}

func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 256
	}

	return &Bus{
		subs: make(map[string][]Handler),
		ch:   make(chan Message, buffer),
	}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[topic] = append(b.subs[topic], h)
}

// Publish never blocks the caller; a message is dropped when the buffer is full.
func (b *Bus) Publish(_ context.Context, topic string, eventID uint, payload interface{}) {
	msg := Message{
		Topic:     topic,
		EventID:   eventID,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case b.ch <- msg:
	default:
		zap.L().Warn("event bus full, message dropped", zap.String("topic", topic), zap.Uint("event_id", eventID))
	}
}

// Run dispatches messages until ctx is cancelled, then drains what is already buffered.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case msg := <-b.ch:
			b.dispatch(ctx, msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-b.ch:
					b.dispatch(context.Background(), msg)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, msg Message) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[msg.Topic])+len(b.subs[AllTopics]))
	handlers = append(handlers, b.subs[msg.Topic]...)
	handlers = append(handlers, b.subs[AllTopics]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					zap.L().Error("event bus handler panicked", zap.String("topic", msg.Topic), zap.Any("panic", r))
				}
			}()
			h(ctx, msg)
		}()
	}
}
