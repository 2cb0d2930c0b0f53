package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/aenrique-byte/author-microsite-sub001/internal/bootstrap"
	"github.com/aenrique-byte/author-microsite-sub001/internal/cache"
	"github.com/aenrique-byte/author-microsite-sub001/internal/kafka"
	"github.com/aenrique-byte/author-microsite-sub001/internal/repository"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/calendar"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/reservation"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CalendarCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reservationService := reservation.NewReservationService(
		bookingRepo,
		slotRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLSeconds)*time.Second,
		reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	calendarService := calendar.NewCalendarService(slotRepo, bookingRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, reservationService, calendarService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
