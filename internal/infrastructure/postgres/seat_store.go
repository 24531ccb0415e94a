package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-flight-seat-inventory/internal/domain/seat"
)

type seatRow struct {
	SeatID     int64     `db:"seat_id"`
	FlightID   int64     `db:"flight_id"`
	SeatNumber string    `db:"seat_number"`
	Class      string    `db:"class"`
	Status     string    `db:"status"`
	BookingID  *int64    `db:"booking_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *seatRow) toEntity() *seat.Seat {
	return &seat.Seat{
		SeatID: r.SeatID, FlightID: r.FlightID, SeatNumber: r.SeatNumber,
		Class: r.Class, Status: seat.Status(r.Status), BookingID: r.BookingID,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// SeatStore はPostgreSQLを使用した座席ストア
// 永続ストアが唯一の同期点であり、アプリケーション側のロックは持たない
type SeatStore struct {
	db *sqlx.DB
}

func NewSeatStore(db *sqlx.DB) *SeatStore {
	return &SeatStore{db: db}
}

// storeError はドライバ由来の障害を ErrStoreUnavailable として分類する
func storeError(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, seat.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *SeatStore) CreateBulk(ctx context.Context, seats []*seat.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 500
	for i := 0; i < len(seats); i += batchSize {
		end := i + batchSize
		if end > len(seats) {
			end = len(seats)
		}
		if err := s.createBulkBatch(ctx, seats[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeatStore) createBulkBatch(ctx context.Context, seats []*seat.Seat) error {
	query := `INSERT INTO seats (flight_id, seat_number, class, status, created_at, updated_at) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	placeholders := make([]string, 0, len(seats))

	for i, se := range seats {
		base := i * 6
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args, se.FlightID, se.SeatNumber, se.Class, string(se.Status), se.CreatedAt, se.UpdatedAt)
	}

	query += strings.Join(placeholders, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("座席番号が重複しています: %w", seat.ErrSeatConflict)
		}
		return storeError("座席一括作成に失敗", err)
	}
	return nil
}

func (s *SeatStore) ListByFlight(ctx context.Context, flightID int64) ([]*seat.Seat, error) {
	query := `SELECT seat_id, flight_id, seat_number, class, status, booking_id, created_at, updated_at FROM seats WHERE flight_id = $1 ORDER BY seat_number`
	var rows []seatRow
	if err := s.db.SelectContext(ctx, &rows, query, flightID); err != nil {
		return nil, storeError("座席一覧取得に失敗", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = row.toEntity()
	}
	return seats, nil
}

func (s *SeatStore) ListAvailable(ctx context.Context, flightID int64) ([]string, error) {
	query := `SELECT seat_number FROM seats WHERE flight_id = $1 AND status = 'AVAILABLE' ORDER BY seat_number`
	seatNumbers := []string{}
	if err := s.db.SelectContext(ctx, &seatNumbers, query, flightID); err != nil {
		return nil, storeError("空席一覧取得に失敗", err)
	}
	return seatNumbers, nil
}

func (s *SeatStore) CountAvailable(ctx context.Context, flightID int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM seats WHERE flight_id = $1 AND status = 'AVAILABLE'`, flightID); err != nil {
		return 0, storeError("空席数取得に失敗", err)
	}
	return count, nil
}

func (s *SeatStore) GetStatus(ctx context.Context, flightID int64, seatNumber string) (*seat.SeatStatus, error) {
	query := `SELECT status, booking_id FROM seats WHERE flight_id = $1 AND seat_number = $2`
	var row struct {
		Status    string `db:"status"`
		BookingID *int64 `db:"booking_id"`
	}
	if err := s.db.GetContext(ctx, &row, query, flightID, seatNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &seat.NotFoundError{SeatNumbers: []string{seatNumber}}
		}
		return nil, storeError("座席状態取得に失敗", err)
	}
	return &seat.SeatStatus{Status: seat.Status(row.Status), BookingID: row.BookingID}, nil
}

func (s *SeatStore) TryClaim(ctx context.Context, flightID int64, seatNumbers []string, bookingID int64) error {
	if len(seatNumbers) == 0 {
		return nil
	}
	return runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return claimTx(ctx, tx, flightID, seatNumbers, bookingID)
	})
}

// claimTx は指定座席の全件確保をトランザクション内で実行する
// 行ロックで存在と状態を検査したうえで、条件付きUPDATEの件数一致を検証する
func claimTx(ctx context.Context, tx *sqlx.Tx, flightID int64, seatNumbers []string, bookingID int64) error {
	var locked []struct {
		SeatNumber string `db:"seat_number"`
		Status     string `db:"status"`
	}
	lockQuery := `SELECT seat_number, status FROM seats WHERE flight_id = $1 AND seat_number = ANY($2) FOR UPDATE`
	if err := tx.SelectContext(ctx, &locked, lockQuery, flightID, pq.Array(seatNumbers)); err != nil {
		return storeError("座席ロック取得に失敗", err)
	}

	statusBySeat := make(map[string]string, len(locked))
	for _, row := range locked {
		statusBySeat[row.SeatNumber] = row.Status
	}

	var missing, taken []string
	for _, sn := range seatNumbers {
		status, ok := statusBySeat[sn]
		switch {
		case !ok:
			missing = append(missing, sn)
		case status != string(seat.StatusAvailable):
			taken = append(taken, sn)
		}
	}
	if len(missing) > 0 {
		return &seat.NotFoundError{SeatNumbers: missing}
	}
	if len(taken) > 0 {
		return &seat.ConflictError{SeatNumbers: taken}
	}

	// 条件付き書き込み: 現在AVAILABLEの行のみ遷移させ、0件や不足はConflict扱い
	update := `UPDATE seats SET status = 'BOOKED', booking_id = $1, updated_at = NOW() WHERE flight_id = $2 AND seat_number = ANY($3) AND status = 'AVAILABLE'`
	result, err := tx.ExecContext(ctx, update, bookingID, flightID, pq.Array(seatNumbers))
	if err != nil {
		return storeError("座席確保に失敗", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("更新件数の取得に失敗", err)
	}
	if int(rows) != len(seatNumbers) {
		return &seat.ConflictError{SeatNumbers: seatNumbers}
	}
	return nil
}

func (s *SeatStore) Release(ctx context.Context, bookingID int64, seatNumbers []string) ([]int64, error) {
	if len(seatNumbers) == 0 {
		return nil, nil
	}
	// 対象予約がBOOKEDで保持している座席のみ解放する（解放済みはno-op）
	query := `UPDATE seats SET status = 'AVAILABLE', booking_id = NULL, updated_at = NOW() WHERE booking_id = $1 AND seat_number = ANY($2) AND status = 'BOOKED' RETURNING flight_id`
	var flightIDs []int64
	if err := s.db.SelectContext(ctx, &flightIDs, query, bookingID, pq.Array(seatNumbers)); err != nil {
		return nil, storeError("座席解放に失敗", err)
	}
	return uniqueInt64(flightIDs), nil
}

func (s *SeatStore) Swap(ctx context.Context, bookingID, flightID int64, oldSeats, newSeats []string) error {
	return runInTx(ctx, s.db, func(tx *sqlx.Tx) error {
		release := `UPDATE seats SET status = 'AVAILABLE', booking_id = NULL, updated_at = NOW() WHERE booking_id = $1 AND seat_number = ANY($2) AND status = 'BOOKED'`
		if _, err := tx.ExecContext(ctx, release, bookingID, pq.Array(oldSeats)); err != nil {
			return storeError("旧座席解放に失敗", err)
		}
		if len(newSeats) == 0 {
			return nil
		}
		// 新座席の確保に失敗するとトランザクションごとロールバックされ、旧座席は保持されたまま
		return claimTx(ctx, tx, flightID, newSeats, bookingID)
	})
}

func (s *SeatStore) UpdateFields(ctx context.Context, seatID int64, update seat.SeatUpdate) error {
	if update.IsEmpty() {
		return seat.ErrNoUpdateFields
	}
	query, args := buildSeatUpdate(seatID, update)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("座席番号が重複しています: %w", seat.ErrSeatConflict)
		}
		return storeError("座席更新に失敗", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("更新件数の取得に失敗", err)
	}
	if rows == 0 {
		return seat.ErrSeatNotFound
	}
	return nil
}

// buildSeatUpdate は部分更新のUPDATE文を構築する
// 値はすべてバインドパラメータで渡す
func buildSeatUpdate(seatID int64, u seat.SeatUpdate) (string, []interface{}) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if u.SeatNumber != nil {
		args = append(args, *u.SeatNumber)
		sets = append(sets, fmt.Sprintf("seat_number = $%d", len(args)))
	}
	if u.Class != nil {
		args = append(args, *u.Class)
		sets = append(sets, fmt.Sprintf("class = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, seatID)
	query := fmt.Sprintf("UPDATE seats SET %s WHERE seat_id = $%d", strings.Join(sets, ", "), len(args))
	return query, args
}

func (s *SeatStore) Delete(ctx context.Context, seatID int64) error {
	// BOOKED状態の行は条件で除外され、確保中の座席が黙って消えることはない
	result, err := s.db.ExecContext(ctx, `DELETE FROM seats WHERE seat_id = $1 AND status = 'AVAILABLE'`, seatID)
	if err != nil {
		return storeError("座席削除に失敗", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeError("削除件数の取得に失敗", err)
	}
	if rows == 1 {
		return nil
	}

	// 0件の場合、存在しないのか確保中で削除できないのかを区別する
	var status string
	err = s.db.GetContext(ctx, &status, `SELECT status FROM seats WHERE seat_id = $1`, seatID)
	if errors.Is(err, sql.ErrNoRows) {
		return seat.ErrSeatNotFound
	}
	if err != nil {
		return storeError("座席取得に失敗", err)
	}
	return fmt.Errorf("確保中の座席は削除できません: %w", seat.ErrSeatConflict)
}

func (s *SeatStore) CountInconsistent(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM seats WHERE (status = 'BOOKED' AND booking_id IS NULL) OR (status = 'AVAILABLE' AND booking_id IS NOT NULL)`
	var count int
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return 0, storeError("整合性検査に失敗", err)
	}
	return count, nil
}

func uniqueInt64(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	result := make([]int64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

var _ seat.Store = (*SeatStore)(nil)
