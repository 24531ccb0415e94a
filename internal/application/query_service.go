package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-flight-seat-inventory/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"
)

// QueryService は予約フローの判断に使う読み取り専用の照会を提供する
// 変更系ロジックから分離されており、キャッシュの有無は結果の正しさに影響しない
type QueryService struct {
	store seat.Store
	cache *redisinfra.AvailabilityCache
}

func NewQueryService(store seat.Store, cache *redisinfra.AvailabilityCache) *QueryService {
	return &QueryService{store: store, cache: cache}
}

// ListAvailable はフライトの空席番号を座席番号順で返す
// 該当なしの場合は空スライス（エラーではない）
func (s *QueryService) ListAvailable(ctx context.Context, flightID int64) ([]string, error) {
	if flightID <= 0 {
		return nil, seat.ErrInvalidFlightID
	}

	// キャッシュから取得を試みる
	if s.cache != nil {
		seatNumbers, err := s.cache.GetSeats(ctx, flightID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.Int64("flight_id", flightID), zap.Int("count", len(seatNumbers)))
			return seatNumbers, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	seatNumbers, err := s.store.ListAvailable(ctx, flightID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetSeats(ctx, flightID, seatNumbers); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}

	return seatNumbers, nil
}

// GetStatus は単一座席の状態と保持している予約IDを返す
func (s *QueryService) GetStatus(ctx context.Context, flightID int64, seatNumber string) (*seat.SeatStatus, error) {
	if flightID <= 0 {
		return nil, seat.ErrInvalidFlightID
	}
	if seatNumber == "" {
		return nil, seat.ErrSeatNumberRequired
	}
	return s.store.GetStatus(ctx, flightID, seatNumber)
}

// ListSeats はフライトの全座席を返す（座席マップ表示用）
func (s *QueryService) ListSeats(ctx context.Context, flightID int64) ([]*seat.Seat, error) {
	if flightID <= 0 {
		return nil, seat.ErrInvalidFlightID
	}
	return s.store.ListByFlight(ctx, flightID)
}

// CountAvailable はフライトの空席数を返す
func (s *QueryService) CountAvailable(ctx context.Context, flightID int64) (int, error) {
	if flightID <= 0 {
		return 0, seat.ErrInvalidFlightID
	}
	return s.store.CountAvailable(ctx, flightID)
}
