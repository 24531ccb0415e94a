package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/application"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

// InventoryHandler は座席マップ管理のハンドラー
type InventoryHandler struct {
	service InventoryServiceInterface
}

func NewInventoryHandler(s InventoryServiceInterface) *InventoryHandler {
	return &InventoryHandler{service: s}
}

type ProvisionSeatsRequest struct {
	Rows    int    `json:"rows" validate:"required,min=1,max=100"`
	Letters string `json:"letters" validate:"required,max=26"`
	Class   string `json:"class"`
}

type UpdateSeatRequest struct {
	SeatNumber *string `json:"seat_number"`
	Class      *string `json:"class"`
}

// Provision はフライトの座席マップを一括作成する
func (h *InventoryHandler) Provision(c echo.Context) error {
	flightID, err := paramInt64(c, "flight_id")
	if err != nil {
		return err
	}
	var req ProvisionSeatsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	seats, err := h.service.ProvisionSeats(c.Request().Context(), application.ProvisionSeatsInput{
		FlightID: flightID,
		Rows:     req.Rows,
		Letters:  req.Letters,
		Class:    req.Class,
	})
	if err != nil {
		return err
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Update は座席の属性を部分更新する
func (h *InventoryHandler) Update(c echo.Context) error {
	seatID, err := paramInt64(c, "seat_id")
	if err != nil {
		return err
	}
	var req UpdateSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}

	if err := h.service.UpdateSeat(c.Request().Context(), seatID, seat.SeatUpdate{
		SeatNumber: req.SeatNumber,
		Class:      req.Class,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete は空席の座席を削除する
// 確保中の座席は削除できない
func (h *InventoryHandler) Delete(c echo.Context) error {
	seatID, err := paramInt64(c, "seat_id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSeat(c.Request().Context(), seatID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
