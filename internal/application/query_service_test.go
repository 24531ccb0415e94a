package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

func TestQueryService_ListAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("空席一覧を座席番号順で返す", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		store.On("ListAvailable", mock.Anything, int64(100)).Return([]string{"12A", "12B"}, nil)

		seats, err := service.ListAvailable(ctx, 100)

		require.NoError(t, err)
		assert.Equal(t, []string{"12A", "12B"}, seats)
	})

	t.Run("空席なしは空スライスを返す（エラーではない）", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		store.On("ListAvailable", mock.Anything, int64(100)).Return([]string{}, nil)

		seats, err := service.ListAvailable(ctx, 100)

		require.NoError(t, err)
		assert.Empty(t, seats)
	})

	t.Run("フライトIDが不正ならValidationError", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		_, err := service.ListAvailable(ctx, 0)

		assert.ErrorIs(t, err, seat.ErrInvalidFlightID)
		store.AssertNotCalled(t, "ListAvailable")
	})
}

func TestQueryService_GetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("確保済み座席の状態と予約IDを返す", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		bookingID := int64(5)
		store.On("GetStatus", mock.Anything, int64(100), "12A").
			Return(&seat.SeatStatus{Status: seat.StatusBooked, BookingID: &bookingID}, nil)

		status, err := service.GetStatus(ctx, 100, "12A")

		require.NoError(t, err)
		assert.Equal(t, seat.StatusBooked, status.Status)
		require.NotNil(t, status.BookingID)
		assert.Equal(t, int64(5), *status.BookingID)
	})

	t.Run("存在しない座席はNotFound", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		store.On("GetStatus", mock.Anything, int64(100), "99Z").
			Return(nil, &seat.NotFoundError{SeatNumbers: []string{"99Z"}})

		_, err := service.GetStatus(ctx, 100, "99Z")

		assert.ErrorIs(t, err, seat.ErrSeatNotFound)
	})

	t.Run("座席番号なしはValidationError", func(t *testing.T) {
		store := new(MockSeatStore)
		service := NewQueryService(store, nil)

		_, err := service.GetStatus(ctx, 100, "")

		assert.ErrorIs(t, err, seat.ErrSeatNumberRequired)
		store.AssertNotCalled(t, "GetStatus")
	})
}

func TestQueryService_ListSeats(t *testing.T) {
	ctx := context.Background()
	store := new(MockSeatStore)
	service := NewQueryService(store, nil)

	seats := []*seat.Seat{
		{SeatID: 1, FlightID: 100, SeatNumber: "12A", Status: seat.StatusAvailable},
		{SeatID: 2, FlightID: 100, SeatNumber: "12B", Status: seat.StatusBooked},
	}
	store.On("ListByFlight", mock.Anything, int64(100)).Return(seats, nil)

	result, err := service.ListSeats(ctx, 100)

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestQueryService_CountAvailable(t *testing.T) {
	ctx := context.Background()
	store := new(MockSeatStore)
	service := NewQueryService(store, nil)

	store.On("CountAvailable", mock.Anything, int64(100)).Return(42, nil)

	count, err := service.CountAvailable(ctx, 100)

	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
