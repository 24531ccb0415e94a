package seat

import (
	"errors"
	"fmt"
	"strings"
)

// Seat ドメインのエラー定義
//
// NotFound / Conflict / Validation はドメインとして想定内の結果であり、
// 呼び出し側の修正なしにリトライしても解決しない。
// ErrStoreUnavailable のみ一時障害でありリトライ可能。
var (
	ErrSeatNotFound       = errors.New("座席が見つかりません")
	ErrSeatConflict       = errors.New("座席の状態が競合しています")
	ErrNoUpdateFields     = errors.New("更新するフィールドがありません")
	ErrInvalidFlightID    = errors.New("フライトIDは正の整数である必要があります")
	ErrInvalidBookingID   = errors.New("予約IDは正の整数である必要があります")
	ErrInvalidSeatID      = errors.New("座席IDは正の整数である必要があります")
	ErrNoSeatsSpecified   = errors.New("座席番号が指定されていません")
	ErrSeatNumberRequired = errors.New("座席番号は必須です")
	ErrStoreUnavailable   = errors.New("座席ストアが利用できません")
)

// ConflictError はAVAILABLEでなかったために確保できなかった座席番号を保持する
// errors.Is(err, ErrSeatConflict) で判定できる
type ConflictError struct {
	SeatNumbers []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("座席は既に確保されています: %s", strings.Join(e.SeatNumbers, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrSeatConflict
}

// NotFoundError はフライトに存在しなかった座席番号を保持する
// errors.Is(err, ErrSeatNotFound) で判定できる
type NotFoundError struct {
	SeatNumbers []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("座席が存在しません: %s", strings.Join(e.SeatNumbers, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrSeatNotFound
}

// IsRetryable はエラーがリトライで解決しうるかを返す
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
