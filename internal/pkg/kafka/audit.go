package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditExporter streams change records to a Kafka topic keyed by entity.
type AuditExporter struct {
	writer messageWriter
	topic  string
}

func NewAuditExporter(brokers, topic string) *AuditExporter {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	zap.L().Info("kafka audit exporter configured", zap.String("brokers", brokers), zap.String("topic", topic))
	return &AuditExporter{writer: writer, topic: topic}
}

func (e *AuditExporter) Export(ctx context.Context, rec domain.ChangeRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return e.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.EntityType + ":" + strconv.FormatUint(uint64(rec.EntityID), 10)),
		Value: value,
		Time:  rec.Timestamp,
	})
}

func (e *AuditExporter) Close() error {
	return e.writer.Close()
}
