package seat

import "context"

// Store は座席ストアのインターフェース
// 座席レコードの唯一の所有者であり、複数座席にまたがる更新は
// すべて単一のアトミックな単位として実行される
type Store interface {
	// CreateBulk は複数の座席を一括作成する（在庫プロビジョニング用）
	CreateBulk(ctx context.Context, seats []*Seat) error

	// ListByFlight はフライトの全座席を座席番号順で取得する
	ListByFlight(ctx context.Context, flightID int64) ([]*Seat, error)

	// ListAvailable はフライトの空席番号を座席番号順で取得する
	// 該当なしの場合は空スライスを返す（エラーではない）
	ListAvailable(ctx context.Context, flightID int64) ([]string, error)

	// CountAvailable はフライトの空席数を取得する
	CountAvailable(ctx context.Context, flightID int64) (int, error)

	// GetStatus は単一座席の状態と予約IDを取得する
	GetStatus(ctx context.Context, flightID int64, seatNumber string) (*SeatStatus, error)

	// TryClaim は指定座席すべてをAVAILABLEからBOOKEDへ全件一括で遷移させる
	// 条件付き書き込み（現在AVAILABLEの行のみ更新）のため、
	// 同一座席への並行確保が両方成功することはない
	// 1席でもAVAILABLEでなければ ConflictError、存在しなければ NotFoundError
	TryClaim(ctx context.Context, flightID int64, seatNumbers []string, bookingID int64) error

	// Release は予約が保持する座席をAVAILABLEに戻し、影響したフライトIDを返す
	// 既に解放済みの座席は黙ってスキップされる（冪等）
	Release(ctx context.Context, bookingID int64, seatNumbers []string) ([]int64, error)

	// Swap は旧座席の解放と新座席の確保を単一トランザクションで実行する
	// 新座席の確保に失敗した場合は旧座席を保持したままロールバックする
	Swap(ctx context.Context, bookingID, flightID int64, oldSeats, newSeats []string) error

	// UpdateFields は管理者による座席の部分更新を実行する
	// 更新フィールドが空の場合は ErrNoUpdateFields
	UpdateFields(ctx context.Context, seatID int64, update SeatUpdate) error

	// Delete は座席レコードを削除する
	// BOOKED状態の座席は削除できず ErrSeatConflict を返す
	Delete(ctx context.Context, seatID int64) error

	// CountInconsistent は「BOOKED ⇔ booking_idあり」に違反する行数を返す（監査用）
	CountInconsistent(ctx context.Context) (int, error)
}
