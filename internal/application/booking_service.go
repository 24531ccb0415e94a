package application

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-flight-seat-inventory/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/metrics"
)

// BookingService は予約フローからの座席操作を仲介する
// 並行制御はストアの条件付き書き込みに委ね、プロセス内ロックは持たない
type BookingService struct {
	store   seat.Store
	cache   *redisinfra.AvailabilityCache
	metrics *metrics.Metrics
}

func NewBookingService(store seat.Store, cache *redisinfra.AvailabilityCache, m *metrics.Metrics) *BookingService {
	return &BookingService{store: store, cache: cache, metrics: m}
}

// BookSeats は指定座席すべてを予約に紐付けて確保する
// 1席でも確保できない場合は全席が未確保のまま ConflictError を返す
// 競合時は呼び出し側が空席を再照会して別の座席で再試行する想定
// （座席の選び直しは利用者の判断なので、このサービスは自動で別座席に切り替えない）
func (s *BookingService) BookSeats(ctx context.Context, flightID, bookingID int64, seatNumbers []string) error {
	if flightID <= 0 {
		return seat.ErrInvalidFlightID
	}
	if bookingID <= 0 {
		return seat.ErrInvalidBookingID
	}
	if len(seatNumbers) == 0 {
		return seat.ErrNoSeatsSpecified
	}

	// ソートして行ロックの取得順を安定させる
	seats := sortedUnique(seatNumbers)

	err := s.store.TryClaim(ctx, flightID, seats, bookingID)
	s.observe("book", err)
	if err != nil {
		return err
	}

	s.invalidateFlights(ctx, flightID)
	return nil
}

// ChangeSeats は旧座席を解放して新座席を確保する
// 新座席の確保に失敗した場合、予約は旧座席を保持したまま
func (s *BookingService) ChangeSeats(ctx context.Context, bookingID, flightID int64, oldSeats, newSeats []string) error {
	if bookingID <= 0 {
		return seat.ErrInvalidBookingID
	}
	if flightID <= 0 {
		return seat.ErrInvalidFlightID
	}
	if len(oldSeats) == 0 || len(newSeats) == 0 {
		return seat.ErrNoSeatsSpecified
	}

	err := s.store.Swap(ctx, bookingID, flightID, sortedUnique(oldSeats), sortedUnique(newSeats))
	s.observe("swap", err)
	if err != nil {
		return err
	}

	s.invalidateFlights(ctx, flightID)
	return nil
}

// CancelSeats は予約が保持する座席を解放する
// ベストエフォートの冪等なクリーンアップであり、解放済みの座席はエラーにならない
func (s *BookingService) CancelSeats(ctx context.Context, bookingID int64, seatNumbers []string) error {
	if bookingID <= 0 {
		return seat.ErrInvalidBookingID
	}
	if len(seatNumbers) == 0 {
		return nil
	}

	flightIDs, err := s.store.Release(ctx, bookingID, sortedUnique(seatNumbers))
	s.observe("release", err)
	if err != nil {
		return err
	}

	s.invalidateFlights(ctx, flightIDs...)
	return nil
}

// observe は操作結果を分類してメトリクスに記録する
// ストア障害のみ境界でログに残す（ドメイン想定内の結果はログしない）
func (s *BookingService) observe(operation string, err error) {
	switch {
	case err == nil:
		s.metrics.ObserveClaim(operation, "success")
	case errors.Is(err, seat.ErrSeatConflict):
		s.metrics.ObserveClaim(operation, "conflict")
	case errors.Is(err, seat.ErrSeatNotFound):
		s.metrics.ObserveClaim(operation, "not_found")
	case errors.Is(err, seat.ErrStoreUnavailable):
		logger.Error("座席ストア障害",
			zap.String("operation", operation),
			zap.Error(err),
		)
		s.metrics.ObserveClaim(operation, "error")
	default:
		s.metrics.ObserveClaim(operation, "error")
	}
}

func (s *BookingService) invalidateFlights(ctx context.Context, flightIDs ...int64) {
	if s.cache == nil {
		return
	}
	for _, flightID := range flightIDs {
		if err := s.cache.Invalidate(ctx, flightID); err != nil {
			logger.Warn("キャッシュ無効化エラー", zap.Int64("flight_id", flightID), zap.Error(err))
		}
	}
}

// sortedUnique は重複を除去して昇順に並べたコピーを返す
func sortedUnique(seatNumbers []string) []string {
	seen := make(map[string]struct{}, len(seatNumbers))
	result := make([]string, 0, len(seatNumbers))
	for _, sn := range seatNumbers {
		if _, ok := seen[sn]; ok {
			continue
		}
		seen[sn] = struct{}{}
		result = append(result, sn)
	}
	sort.Strings(result)
	return result
}
