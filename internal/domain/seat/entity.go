package seat

import "time"

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// Seat は座席エンティティを表す
// 1フライトの1物理座席につき1レコード
type Seat struct {
	SeatID     int64
	FlightID   int64
	SeatNumber string
	Class      string
	Status     Status
	BookingID  *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSeat は新しい座席を作成する
func NewSeat(flightID int64, seatNumber, class string) *Seat {
	now := time.Now()
	return &Seat{
		FlightID:   flightID,
		SeatNumber: seatNumber,
		Class:      class,
		Status:     StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsAvailable は座席が確保可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// Claim は座席を予約に紐付けてBOOKED状態にする
func (s *Seat) Claim(bookingID int64) error {
	if s.Status != StatusAvailable {
		return &ConflictError{SeatNumbers: []string{s.SeatNumber}}
	}
	s.Status = StatusBooked
	s.BookingID = &bookingID
	s.UpdatedAt = time.Now()
	return nil
}

// Release は座席を解放してAVAILABLE状態に戻す
func (s *Seat) Release() {
	s.Status = StatusAvailable
	s.BookingID = nil
	s.UpdatedAt = time.Now()
}

// IsConsistent は「BOOKED ⇔ booking_idあり」の整合性が保たれているかを返す
func (s *Seat) IsConsistent() bool {
	return (s.Status == StatusBooked) == (s.BookingID != nil)
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.FlightID <= 0 {
		return ErrInvalidFlightID
	}
	if s.SeatNumber == "" {
		return ErrSeatNumberRequired
	}
	return nil
}

// SeatStatus は単一座席の照会結果を表す
type SeatStatus struct {
	Status    Status
	BookingID *int64
}

// SeatUpdate は管理者による座席の部分更新を表す
// nilのフィールドは変更しない
type SeatUpdate struct {
	SeatNumber *string
	Class      *string
}

// IsEmpty は更新対象のフィールドが1つもないかを返す
func (u SeatUpdate) IsEmpty() bool {
	return u.SeatNumber == nil && u.Class == nil
}
