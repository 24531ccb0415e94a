package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"座席未検出は404", seat.ErrSeatNotFound, http.StatusNotFound},
		{"ラップされた未検出も404", fmt.Errorf("照会失敗: %w", seat.ErrSeatNotFound), http.StatusNotFound},
		{"未検出の型エラーも404", &seat.NotFoundError{SeatNumbers: []string{"12A"}}, http.StatusNotFound},
		{"座席競合は409", seat.ErrSeatConflict, http.StatusConflict},
		{"競合の型エラーも409", &seat.ConflictError{SeatNumbers: []string{"12A"}}, http.StatusConflict},
		{"ストア障害は503", fmt.Errorf("更新失敗: %w: %w", seat.ErrStoreUnavailable, errors.New("connection refused")), http.StatusServiceUnavailable},
		{"不正なフライトIDは400", seat.ErrInvalidFlightID, http.StatusBadRequest},
		{"不正な予約IDは400", seat.ErrInvalidBookingID, http.StatusBadRequest},
		{"座席指定なしは400", seat.ErrNoSeatsSpecified, http.StatusBadRequest},
		{"更新フィールドなしは400", seat.ErrNoUpdateFields, http.StatusBadRequest},
		{"未知のエラーは500", errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestCustomHTTPErrorHandler(t *testing.T) {
	newContext := func() (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/flights/101/seats/12A", nil)
		rec := httptest.NewRecorder()
		return e.NewContext(req, rec), rec
	}

	t.Run("ドメインエラーをステータスコードへ変換する", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(seat.ErrSeatNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("競合エラーは対象座席を含める", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(&seat.ConflictError{SeatNumbers: []string{"12A", "12B"}}, c)

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"12A", "12B"}, resp.Seats)
	})

	t.Run("echo.HTTPErrorのコードを維持する", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト"), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "無効なリクエスト")
	})

	t.Run("未知のエラーは詳細を漏らさない", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(errors.New("secret internal detail"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret internal detail")
	})
}
