package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/config"
)

// Publisher hands committed messaging events to the notification pipeline.
// Publishing is best-effort: the caller logs failures and never rolls back.
type Publisher interface {
	MessageSent(ctx context.Context, payload map[string]any) error
	GroupMessageSent(ctx context.Context, payload map[string]any) error
}

type KafkaPublisher struct {
	direct *kafka.Writer
	group  *kafka.Writer
}

func NewKafkaPublisher(cfg *config.Config) *KafkaPublisher {
	return &KafkaPublisher{
		direct: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.TopicMessageSent,
			Balancer: &kafka.LeastBytes{},
		}),
		group: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.TopicGroupMessageSent,
			Balancer: &kafka.LeastBytes{},
		}),
	}
}

func (p *KafkaPublisher) MessageSent(ctx context.Context, payload map[string]any) error {
	return publish(ctx, p.direct, payload)
}

func (p *KafkaPublisher) GroupMessageSent(ctx context.Context, payload map[string]any) error {
	return publish(ctx, p.group, payload)
}

func publish(ctx context.Context, w *kafka.Writer, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	key, _ := payload["message_id"].(string)
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b, Time: time.Now()})
}

func (p *KafkaPublisher) Close() error {
	if err := p.direct.Close(); err != nil {
		return err
	}
	return p.group.Close()
}
