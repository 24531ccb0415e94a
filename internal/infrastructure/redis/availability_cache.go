package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はフライトごとの空席一覧キャッシュを管理する
// 読み取り負荷の軽減専用であり、正しさはストアの条件付き書き込みだけに依存する
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheを作成する
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// GetSeats はフライトの空席番号一覧をキャッシュから取得する
func (c *AvailabilityCache) GetSeats(ctx context.Context, flightID int64) ([]string, error) {
	val, err := c.client.Get(ctx, c.availableSeatsKey(flightID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var seatNumbers []string
	if err := json.Unmarshal([]byte(val), &seatNumbers); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return seatNumbers, nil
}

// SetSeats はフライトの空席番号一覧をキャッシュに保存する
func (c *AvailabilityCache) SetSeats(ctx context.Context, flightID int64, seatNumbers []string) error {
	data, err := json.Marshal(seatNumbers)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.availableSeatsKey(flightID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はフライトのキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, flightID int64) error {
	if err := c.client.Del(ctx, c.availableSeatsKey(flightID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) availableSeatsKey(flightID int64) string {
	return fmt.Sprintf("flights:%d:seats:available", flightID)
}
