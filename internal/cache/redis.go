package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache backs two concerns: a cache-aside copy of each story's
// open dates, and a short-lived SetNX hold that dampens duplicate
// guest submits while a request is in flight. The hold is advisory;
// the bookings unique index is the authority.
type RedisCache struct {
	client      *redis.Client
	calendarTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, calendarTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		calendarTTL: calendarTTL,
	}
}

func (c *RedisCache) GetOpenDates(ctx context.Context, storyID string) ([]string, error) {
	data, err := c.client.Get(ctx, openDatesKey(storyID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func (c *RedisCache) SetOpenDates(ctx context.Context, storyID string, dates []string) error {
	payload, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, openDatesKey(storyID), payload, c.calendarTTL).Err()
}

func (c *RedisCache) InvalidateCalendar(ctx context.Context, storyID string) error {
	return c.client.Del(ctx, openDatesKey(storyID)).Err()
}

func (c *RedisCache) AcquireSlotHold(ctx context.Context, storyID, date string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, slotHoldKey(storyID, date), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, storyID, date string) error {
	return c.client.Del(ctx, slotHoldKey(storyID, date)).Err()
}

func openDatesKey(storyID string) string {
	return fmt.Sprintf("cache:calendar:%s:open", storyID)
}

func slotHoldKey(storyID, date string) string {
	return fmt.Sprintf("hold:story:%s:date:%s", storyID, date)
}
