package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-flight-seat-inventory/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"

	"go.uber.org/zap"
)

// InventoryService は管理者向けの在庫操作を提供する
type InventoryService struct {
	store seat.Store
	cache *redisinfra.AvailabilityCache
}

func NewInventoryService(store seat.Store, cache *redisinfra.AvailabilityCache) *InventoryService {
	return &InventoryService{store: store, cache: cache}
}

// ProvisionSeatsInput は座席マップの一括作成リクエスト
// Rows行 × Letters列の座席（例: 1A..30F）を生成する
type ProvisionSeatsInput struct {
	FlightID int64
	Rows     int
	Letters  string
	Class    string
}

// ProvisionSeats はフライトの座席マップを一括作成する
func (s *InventoryService) ProvisionSeats(ctx context.Context, input ProvisionSeatsInput) ([]*seat.Seat, error) {
	if input.FlightID <= 0 {
		return nil, seat.ErrInvalidFlightID
	}
	if input.Rows <= 0 || input.Letters == "" {
		return nil, seat.ErrNoSeatsSpecified
	}

	class := input.Class
	if class == "" {
		class = "economy"
	}

	seats := make([]*seat.Seat, 0, input.Rows*len(input.Letters))
	for row := 1; row <= input.Rows; row++ {
		for _, letter := range input.Letters {
			se := seat.NewSeat(input.FlightID, fmt.Sprintf("%d%c", row, letter), class)
			if err := se.Validate(); err != nil {
				return nil, err
			}
			seats = append(seats, se)
		}
	}

	if err := s.store.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}

	s.invalidate(ctx, input.FlightID)
	return seats, nil
}

// UpdateSeat は座席の部分更新（管理者による再分類など）を実行する
func (s *InventoryService) UpdateSeat(ctx context.Context, seatID int64, update seat.SeatUpdate) error {
	if seatID <= 0 {
		return seat.ErrInvalidSeatID
	}
	if update.IsEmpty() {
		return seat.ErrNoUpdateFields
	}
	return s.store.UpdateFields(ctx, seatID, update)
}

// DeleteSeat は座席レコードを削除する
// 確保中の座席は削除できない（予約を黙って座席なしにしない）
func (s *InventoryService) DeleteSeat(ctx context.Context, seatID int64) error {
	if seatID <= 0 {
		return seat.ErrInvalidSeatID
	}
	return s.store.Delete(ctx, seatID)
}

// CountInconsistentSeats は状態と予約IDの整合性に違反する行数を返す（監査用）
func (s *InventoryService) CountInconsistentSeats(ctx context.Context) (int, error) {
	return s.store.CountInconsistent(ctx)
}

func (s *InventoryService) invalidate(ctx context.Context, flightID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, flightID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Int64("flight_id", flightID), zap.Error(err))
	}
}
