package mq

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/pkg/eventbus"
)

type JSONPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type envelope struct {
	EventID   uint        `json:"event_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Forward republishes bus messages of the given topics on the broker, using the topic as routing key.
func Forward(bus *eventbus.Bus, pub JSONPublisher, topics ...string) {
	for _, topic := range topics {
		bus.Subscribe(topic, func(ctx context.Context, msg eventbus.Message) {
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			err := pub.PublishJSON(pctx, msg.Topic, envelope{
				EventID:   msg.EventID,
				Payload:   msg.Payload,
				Timestamp: msg.Timestamp,
			})
			if err != nil {
				zap.L().Warn("broker publish failed", zap.String("routing_key", msg.Topic), zap.Error(err))
			}
		})
	}
}
