package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BookingHandler は座席確保・解放のハンドラー
type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type BookSeatsRequest struct {
	FlightID    int64    `json:"flight_id" validate:"required,min=1"`
	SeatNumbers []string `json:"seat_numbers" validate:"required,min=1,dive,required"`
}

type ChangeSeatsRequest struct {
	FlightID int64    `json:"flight_id" validate:"required,min=1"`
	From     []string `json:"from" validate:"required,min=1,dive,required"`
	To       []string `json:"to" validate:"required,min=1,dive,required"`
}

type CancelSeatsRequest struct {
	SeatNumbers []string `json:"seat_numbers"`
}

// Book は予約に対して座席を確保する
// 指定座席のいずれかが確保済みの場合は全体が失敗する
func (h *BookingHandler) Book(c echo.Context) error {
	bookingID, err := paramInt64(c, "booking_id")
	if err != nil {
		return err
	}
	var req BookSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.BookSeats(c.Request().Context(), req.FlightID, bookingID, req.SeatNumbers); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"booking_id": bookingID,
		"flight_id":  req.FlightID,
		"seats":      req.SeatNumbers,
	})
}

// Change は予約の座席を別の座席へ振り替える
// 解放と確保は単一のトランザクションで行われる
func (h *BookingHandler) Change(c echo.Context) error {
	bookingID, err := paramInt64(c, "booking_id")
	if err != nil {
		return err
	}
	var req ChangeSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.ChangeSeats(c.Request().Context(), bookingID, req.FlightID, req.From, req.To); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"booking_id": bookingID,
		"flight_id":  req.FlightID,
		"seats":      req.To,
	})
}

// Cancel は予約が保持する座席を解放する
// 既に解放済みの座席があっても成功する（冪等）
func (h *BookingHandler) Cancel(c echo.Context) error {
	bookingID, err := paramInt64(c, "booking_id")
	if err != nil {
		return err
	}
	var req CancelSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	if err := h.service.CancelSeats(c.Request().Context(), bookingID, req.SeatNumbers); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
