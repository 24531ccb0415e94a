package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error string   `json:"error"`
	Code  int      `json:"code,omitempty"`
	Seats []string `json:"seats,omitempty"`
}

// statusFromError はドメインエラーをHTTPステータスコードへ変換する
func statusFromError(err error) int {
	switch {
	case errors.Is(err, seat.ErrSeatNotFound):
		return http.StatusNotFound
	case errors.Is(err, seat.ErrSeatConflict):
		return http.StatusConflict
	case errors.Is(err, seat.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, seat.ErrNoUpdateFields),
		errors.Is(err, seat.ErrInvalidFlightID),
		errors.Is(err, seat.ErrInvalidBookingID),
		errors.Is(err, seat.ErrInvalidSeatID),
		errors.Is(err, seat.ErrNoSeatsSpecified),
		errors.Is(err, seat.ErrSeatNumberRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
		seats   []string
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		code = statusFromError(err)
		if code != http.StatusInternalServerError {
			message = err.Error()
		}

		// 競合・未検出エラーは対象の座席番号をレスポンスに含める
		var conflictErr *seat.ConflictError
		var notFoundErr *seat.NotFoundError
		switch {
		case errors.As(err, &conflictErr):
			seats = conflictErr.SeatNumbers
		case errors.As(err, &notFoundErr):
			seats = notFoundErr.SeatNumbers
		}
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	// JSONレスポンスを返す
	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Code:  code,
		Seats: seats,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
