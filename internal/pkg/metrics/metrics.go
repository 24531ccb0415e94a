package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 座席確保系操作の総数（operation: book/swap/release, status: success, conflict, not_found, error）
	SeatClaimsTotal *prometheus.CounterVec

	// 「BOOKED ⇔ booking_idあり」に違反している行数（監査ワーカーが更新）
	InconsistentSeats prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SeatClaimsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_claims_total",
				Help: "Total number of seat claim/swap/release attempts",
			},
			[]string{"operation", "status"},
		),
		InconsistentSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "seat_inconsistent_rows",
				Help: "Number of seat rows violating the status/booking invariant",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SeatClaimsTotal,
		m.InconsistentSeats,
	)

	return m
}

// ObserveClaim は座席操作の結果を記録する
// nilレシーバでも安全に呼べる（メトリクス未初期化のテスト用）
func (m *Metrics) ObserveClaim(operation, status string) {
	if m == nil {
		return
	}
	m.SeatClaimsTotal.WithLabelValues(operation, status).Inc()
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
