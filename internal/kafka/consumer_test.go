package kafka

import (
	"testing"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/stretchr/testify/assert"
)

func TestNewConsumer_DefaultIntervals(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "test-group",
	}

	consumer := NewConsumer(cfg, "test-topic")
	defer consumer.Close()

	rc := consumer.reader.Config()
	assert.Equal(t, 3*time.Second, rc.HeartbeatInterval)
	assert.Equal(t, 30*time.Second, rc.SessionTimeout)
	assert.Equal(t, "test-topic", rc.Topic)
}

func TestNewConsumer_ConfiguredIntervals(t *testing.T) {
	cfg := config.KafkaConfig{
		Brokers:                  []string{"localhost:9092"},
		GroupID:                  "test-group",
		HeartbeatIntervalSeconds: 5,
		SessionTimeoutSeconds:    45,
	}

	consumer := NewConsumer(cfg, "test-topic")
	defer consumer.Close()

	rc := consumer.reader.Config()
	assert.Equal(t, 5*time.Second, rc.HeartbeatInterval)
	assert.Equal(t, 45*time.Second, rc.SessionTimeout)
}
