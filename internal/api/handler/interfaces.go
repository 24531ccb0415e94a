package handler

import (
	"context"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/application"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

// QueryServiceInterface は座席照会サービスのインターフェース
type QueryServiceInterface interface {
	ListSeats(ctx context.Context, flightID int64) ([]*seat.Seat, error)
	ListAvailable(ctx context.Context, flightID int64) ([]string, error)
	CountAvailable(ctx context.Context, flightID int64) (int, error)
	GetStatus(ctx context.Context, flightID int64, seatNumber string) (*seat.SeatStatus, error)
}

// BookingServiceInterface は座席確保サービスのインターフェース
type BookingServiceInterface interface {
	BookSeats(ctx context.Context, flightID, bookingID int64, seatNumbers []string) error
	ChangeSeats(ctx context.Context, bookingID, flightID int64, oldSeats, newSeats []string) error
	CancelSeats(ctx context.Context, bookingID int64, seatNumbers []string) error
}

// InventoryServiceInterface は座席管理サービスのインターフェース
type InventoryServiceInterface interface {
	ProvisionSeats(ctx context.Context, input application.ProvisionSeatsInput) ([]*seat.Seat, error)
	UpdateSeat(ctx context.Context, seatID int64, update seat.SeatUpdate) error
	DeleteSeat(ctx context.Context, seatID int64) error
	CountInconsistentSeats(ctx context.Context) (int, error)
}
