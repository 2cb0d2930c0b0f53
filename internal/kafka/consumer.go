package kafka

import (
	"context"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/segmentio/kafka-go"
)

// Group liveness defaults, used when the config leaves the intervals
// unset.
const (
	defaultHeartbeatInterval = 3 * time.Second
	defaultSessionTimeout    = 30 * time.Second
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(cfg config.KafkaConfig, topic string) *Consumer {
	heartbeat := defaultHeartbeatInterval
	if cfg.HeartbeatIntervalSeconds > 0 {
		heartbeat = time.Duration(cfg.HeartbeatIntervalSeconds) * time.Second
	}
	session := defaultSessionTimeout
	if cfg.SessionTimeoutSeconds > 0 {
		session = time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}
