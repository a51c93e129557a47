package googlecalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/TattooBookingService/internal/domain"
)

const cacheKeyPrefix = "tattoo:freebusy:"

// RedisBusyCache кэш free/busy в Redis
// Все диапазоны одного календаря лежат в одном hash, чтобы инвалидация была одной командой DEL
type RedisBusyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBusyCache создает кэш с заданным временем жизни записей
func NewRedisBusyCache(client *redis.Client, ttl time.Duration) *RedisBusyCache {
	return &RedisBusyCache{client: client, ttl: ttl}
}

type cachedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Get возвращает закэшированные интервалы, ok=false при промахе
func (c *RedisBusyCache) Get(ctx context.Context, calendarID string, from, to time.Time) ([]domain.TimeRange, bool, error) {
	raw, err := c.client.HGet(ctx, cacheKey(calendarID), cacheField(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}

	var cached []cachedRange
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("decode cached freebusy: %w", err)
	}

	busy := make([]domain.TimeRange, 0, len(cached))
	for _, r := range cached {
		busy = append(busy, domain.TimeRange{Start: r.Start, End: r.End})
	}
	return busy, true, nil
}

// Set сохраняет интервалы и продлевает TTL ключа календаря
func (c *RedisBusyCache) Set(ctx context.Context, calendarID string, from, to time.Time, busy []domain.TimeRange) error {
	cached := make([]cachedRange, 0, len(busy))
	for _, r := range busy {
		cached = append(cached, cachedRange{Start: r.Start.UTC(), End: r.End.UTC()})
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("encode freebusy: %w", err)
	}

	key := cacheKey(calendarID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, cacheField(from, to), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Invalidate сбрасывает все закэшированные диапазоны календаря
func (c *RedisBusyCache) Invalidate(ctx context.Context, calendarID string) error {
	if err := c.client.Del(ctx, cacheKey(calendarID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func cacheKey(calendarID string) string {
	return cacheKeyPrefix + calendarID
}

func cacheField(from, to time.Time) string {
	return strconv.FormatInt(from.Unix(), 10) + "-" + strconv.FormatInt(to.Unix(), 10)
}
