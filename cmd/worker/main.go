package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/aenrique-byte/author-microsite-sub001/internal/email"
	"github.com/aenrique-byte/author-microsite-sub001/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
)

// The worker drains the notifications topic and sends approval emails.
// Nothing in the calendar auto-expires, so there is no sweep loop.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(cfg.Shoutout)

	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("decode event error: %v", err)
			return nil
		}
		return emailSender.Send(ctx, event)
	}); err != nil && ctx.Err() == nil {
		log.Printf("consumer stopped: %v", err)
	}
}
