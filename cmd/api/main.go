package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/api"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/api/handler"
	custommw "github.com/sanosuguru/go-flight-seat-inventory/internal/api/middleware"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/application"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/config"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-flight-seat-inventory/internal/infrastructure/redis"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/metrics"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/worker"
)

func main() {
	defer logger.Sync()

	cfg := config.Load()

	// メトリクス初期化
	m := metrics.Init()

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Ping(ctx, db); err != nil {
		logger.Fatal("データベース疎通確認エラー", zap.Error(err))
	}

	// マイグレーション実行
	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続（空席キャッシュ用・接続できない場合はキャッシュなしで稼働）
	var cache *redisinfra.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		logger.Warn("Redis接続エラー（キャッシュなしで稼働）", zap.Error(err))
		redisClient.Close()
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient, cfg.Cache.TTL)
		defer redisClient.Close()
	}

	// ストアとサービス
	store := postgres.NewSeatStore(db)
	queryService := application.NewQueryService(store, cache)
	bookingService := application.NewBookingService(store, cache, m)
	inventoryService := application.NewInventoryService(store, cache)

	// ハンドラー
	seatHandler := handler.NewSeatHandler(queryService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	healthHandler := handler.NewHealthHandler()

	// Echo設定
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ルーティング
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	// 座席照会
	v1.GET("/flights/:flight_id/seats", seatHandler.ListByFlight)
	v1.GET("/flights/:flight_id/seats/count", seatHandler.CountAvailable)
	v1.GET("/flights/:flight_id/seats/:seat_number", seatHandler.GetStatus)

	// 座席確保・振替・解放
	v1.POST("/bookings/:booking_id/seats", bookingHandler.Book)
	v1.PUT("/bookings/:booking_id/seats", bookingHandler.Change)
	v1.DELETE("/bookings/:booking_id/seats", bookingHandler.Cancel)

	// 座席マップ管理
	v1.POST("/flights/:flight_id/seats/bulk", inventoryHandler.Provision)
	v1.PATCH("/seats/:seat_id", inventoryHandler.Update)
	v1.DELETE("/seats/:seat_id", inventoryHandler.Delete)

	// 整合性監査ワーカー起動
	auditorCtx, auditorCancel := context.WithCancel(context.Background())
	defer auditorCancel()
	auditor := worker.NewConsistencyAuditor(inventoryService, m, cfg.Audit.Interval)
	go auditor.Start(auditorCtx)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	logger.Info("サーバー起動", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// ワーカー停止
	auditorCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
