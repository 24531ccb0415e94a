package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

// SeatHandler は座席照会のハンドラー
type SeatHandler struct {
	service QueryServiceInterface
}

func NewSeatHandler(s QueryServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatResponse struct {
	SeatID     int64     `json:"seat_id"`
	FlightID   int64     `json:"flight_id"`
	SeatNumber string    `json:"seat_number"`
	Class      string    `json:"class"`
	Status     string    `json:"status"`
	BookingID  *int64    `json:"booking_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SeatStatusResponse struct {
	SeatNumber string `json:"seat_number"`
	Status     string `json:"status"`
	BookingID  *int64 `json:"booking_id,omitempty"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		SeatID: s.SeatID, FlightID: s.FlightID, SeatNumber: s.SeatNumber,
		Class: s.Class, Status: string(s.Status), BookingID: s.BookingID,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// paramInt64 はパスパラメーターをint64として取得する
func paramInt64(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "無効な"+name)
	}
	return v, nil
}

// ListByFlight はフライトの座席一覧を取得する
// available=true の場合は空席の座席番号のみを返す
func (h *SeatHandler) ListByFlight(c echo.Context) error {
	flightID, err := paramInt64(c, "flight_id")
	if err != nil {
		return err
	}

	if c.QueryParam("available") == "true" {
		seatNumbers, err := h.service.ListAvailable(c.Request().Context(), flightID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"flight_id": flightID,
			"available": seatNumbers,
		})
	}

	seats, err := h.service.ListSeats(c.Request().Context(), flightID)
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountAvailable はフライトの空席数を取得する
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	flightID, err := paramInt64(c, "flight_id")
	if err != nil {
		return err
	}
	count, err := h.service.CountAvailable(c.Request().Context(), flightID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// GetStatus は単一座席の状態を取得する
func (h *SeatHandler) GetStatus(c echo.Context) error {
	flightID, err := paramInt64(c, "flight_id")
	if err != nil {
		return err
	}
	seatNumber := c.Param("seat_number")

	status, err := h.service.GetStatus(c.Request().Context(), flightID, seatNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SeatStatusResponse{
		SeatNumber: seatNumber,
		Status:     string(status.Status),
		BookingID:  status.BookingID,
	})
}
