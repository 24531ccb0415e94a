package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServer はE2Eテスト用のサーバー
type TestServer struct {
	Echo *echo.Echo
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// TestE2E_HealthCheck はヘルスチェックをテスト
func TestE2E_HealthCheck(t *testing.T) {
	server := getTestServer(t)

	rec := server.Request("GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp["status"])
}

// TestE2E_CompleteBookingJourney は座席作成から解放までの一連の流れをテスト
func TestE2E_CompleteBookingJourney(t *testing.T) {
	server := getTestServer(t)

	const flightID = 101
	const bookingID = 5001

	// 1. 座席マップ一括作成（2行 × ABC = 6席）
	t.Run("座席マップ作成", func(t *testing.T) {
		body := map[string]interface{}{
			"rows":    2,
			"letters": "ABC",
			"class":   "economy",
		}

		path := fmt.Sprintf("/api/v1/flights/%d/seats/bulk", flightID)
		rec := server.Request("POST", path, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp []map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		require.Len(t, resp, 6)
	})

	// 2. 空席数確認
	t.Run("空席数確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/flights/%d/seats/count", flightID)
		rec := server.Request("GET", path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(6), resp["count"])
	})

	// 3. 座席確保
	t.Run("座席確保", func(t *testing.T) {
		body := map[string]interface{}{
			"flight_id":    flightID,
			"seat_numbers": []string{"1A", "1B"},
		}

		path := fmt.Sprintf("/api/v1/bookings/%d/seats", bookingID)
		rec := server.Request("POST", path, body)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	// 4. 確保済み座席の状態確認
	t.Run("座席状態確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/flights/%d/seats/1A", flightID)
		rec := server.Request("GET", path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, "BOOKED", resp["status"])
		assert.Equal(t, float64(bookingID), resp["booking_id"])
	})

	// 5. 空席数が減っていることを確認
	t.Run("空席数減少確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/flights/%d/seats/count", flightID)
		rec := server.Request("GET", path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(4), resp["count"])
	})

	// 6. 座席振替（1B → 2C）
	t.Run("座席振替", func(t *testing.T) {
		body := map[string]interface{}{
			"flight_id": flightID,
			"from":      []string{"1B"},
			"to":        []string{"2C"},
		}

		path := fmt.Sprintf("/api/v1/bookings/%d/seats", bookingID)
		rec := server.Request("PUT", path, body)
		require.Equal(t, http.StatusOK, rec.Code)

		// 振替元は空席に戻る
		statusRec := server.Request("GET", fmt.Sprintf("/api/v1/flights/%d/seats/1B", flightID), nil)
		var statusResp map[string]interface{}
		json.Unmarshal(statusRec.Body.Bytes(), &statusResp)
		assert.Equal(t, "AVAILABLE", statusResp["status"])
	})

	// 7. 座席解放
	t.Run("座席解放", func(t *testing.T) {
		body := map[string]interface{}{
			"seat_numbers": []string{"1A", "2C"},
		}

		path := fmt.Sprintf("/api/v1/bookings/%d/seats", bookingID)
		rec := server.Request("DELETE", path, body)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	// 8. 全席が空席に戻る
	t.Run("全席解放確認", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/flights/%d/seats/count", flightID)
		rec := server.Request("GET", path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Equal(t, float64(6), resp["count"])
	})
}

// TestE2E_BookingConflict は座席競合をテスト
func TestE2E_BookingConflict(t *testing.T) {
	server := getTestServer(t)

	const flightID = 202

	// セットアップ: 1席だけのフライト
	body := map[string]interface{}{"rows": 1, "letters": "A", "class": "first"}
	rec := server.Request("POST", fmt.Sprintf("/api/v1/flights/%d/seats/bulk", flightID), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("予約Aが確保成功", func(t *testing.T) {
		body := map[string]interface{}{
			"flight_id":    flightID,
			"seat_numbers": []string{"1A"},
		}
		rec := server.Request("POST", "/api/v1/bookings/7001/seats", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("予約Bは409で失敗", func(t *testing.T) {
		body := map[string]interface{}{
			"flight_id":    flightID,
			"seat_numbers": []string{"1A"},
		}
		rec := server.Request("POST", "/api/v1/bookings/7002/seats", body)
		require.Equal(t, http.StatusConflict, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Contains(t, resp["seats"], "1A")
	})

	t.Run("複数席指定で1席でも競合すれば全体が失敗", func(t *testing.T) {
		// 1席フライトに追加席を作る
		extra := map[string]interface{}{"rows": 1, "letters": "B", "class": "first"}
		rec := server.Request("POST", fmt.Sprintf("/api/v1/flights/%d/seats/bulk", flightID), extra)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := map[string]interface{}{
			"flight_id":    flightID,
			"seat_numbers": []string{"1A", "1B"},
		}
		rec = server.Request("POST", "/api/v1/bookings/7003/seats", body)
		require.Equal(t, http.StatusConflict, rec.Code)

		// 空席だった1Bは巻き込まれずに残る
		statusRec := server.Request("GET", fmt.Sprintf("/api/v1/flights/%d/seats/1B", flightID), nil)
		var statusResp map[string]interface{}
		json.Unmarshal(statusRec.Body.Bytes(), &statusResp)
		assert.Equal(t, "AVAILABLE", statusResp["status"])
	})
}

// TestE2E_MissingSeat は存在しない座席の確保をテスト
func TestE2E_MissingSeat(t *testing.T) {
	server := getTestServer(t)

	const flightID = 303

	body := map[string]interface{}{"rows": 1, "letters": "AB", "class": "economy"}
	rec := server.Request("POST", fmt.Sprintf("/api/v1/flights/%d/seats/bulk", flightID), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("存在しない座席は404", func(t *testing.T) {
		body := map[string]interface{}{
			"flight_id":    flightID,
			"seat_numbers": []string{"99Z"},
		}
		rec := server.Request("POST", "/api/v1/bookings/8001/seats", body)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp map[string]interface{}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		assert.Contains(t, resp["seats"], "99Z")
	})

	t.Run("解放は冪等で常に成功", func(t *testing.T) {
		body := map[string]interface{}{
			"seat_numbers": []string{"1A"},
		}
		// 確保していない座席の解放も204
		rec := server.Request("DELETE", "/api/v1/bookings/8002/seats", body)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}
