package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/logger"
	"github.com/sanosuguru/go-flight-seat-inventory/internal/pkg/metrics"
)

// InconsistencyCounter は不整合座席を数えるインターフェース
type InconsistencyCounter interface {
	CountInconsistentSeats(ctx context.Context) (int, error)
}

// ConsistencyAuditor は「BOOKED ⇔ booking_idあり」の不変条件を定期監査するワーカー
// 条件付きUPDATEにより不整合行は生まれないはずで、検出された場合はバグか手動操作の痕跡
type ConsistencyAuditor struct {
	inventoryService InconsistencyCounter
	metrics          *metrics.Metrics
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
}

// NewConsistencyAuditor は新しい監査ワーカーを作成
func NewConsistencyAuditor(is InconsistencyCounter, m *metrics.Metrics, interval time.Duration) *ConsistencyAuditor {
	return &ConsistencyAuditor{
		inventoryService: is,
		metrics:          m,
		interval:         interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start は監査ワーカーを開始
func (a *ConsistencyAuditor) Start(ctx context.Context) {
	logger.Info("整合性監査ワーカー開始",
		zap.Duration("interval", a.interval),
	)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer close(a.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("整合性監査ワーカー停止（コンテキストキャンセル）")
			return
		case <-a.stopCh:
			logger.Info("整合性監査ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			a.audit(ctx)
		}
	}
}

// Stop は監査ワーカーを停止
func (a *ConsistencyAuditor) Stop() {
	close(a.stopCh)
	<-a.doneCh
}

// audit は不整合行を数えてメトリクスに反映する
func (a *ConsistencyAuditor) audit(ctx context.Context) {
	log := logger.Get()
	log.Debug("座席整合性の監査開始")

	count, err := a.inventoryService.CountInconsistentSeats(ctx)
	if err != nil {
		log.Error("座席整合性の監査失敗", zap.Error(err))
		return
	}

	if a.metrics != nil {
		a.metrics.InconsistentSeats.Set(float64(count))
	}

	if count > 0 {
		log.Warn("不整合な座席を検出", zap.Int("count", count))
	} else {
		log.Debug("不整合な座席なし")
	}
}
