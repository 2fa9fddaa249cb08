package model

import (
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo allows any edit except leaving the terminal cancelled state.
func (s Status) CanTransitionTo(next Status) bool {
	if s == StatusCancelled {
		return next == StatusCancelled
	}
	return next.Valid()
}

type Reservation struct {
	ID              int64           `json:"id" db:"id"`
	RoomID          int64           `json:"roomId" db:"room_id"`
	GuestUserID     int64           `json:"guestUserId" db:"guest_user_id"`
	CreatedByUserID int64           `json:"createdByUserId" db:"created_by_user_id"`
	StartDate       Date            `json:"startDate" db:"start_date"`
	EndDate         Date            `json:"endDate" db:"end_date"`
	Status          Status          `json:"status" db:"status"`
	TotalPrice      decimal.Decimal `json:"totalPrice" db:"total_price"`
}

func (r Reservation) Stay() Stay {
	return Stay{Start: r.StartDate, End: r.EndDate}
}

// ReservationDetail is a reservation joined with its guest, room and creator for staff views.
type ReservationDetail struct {
	Reservation
	GuestName    string `json:"guestName" db:"guest_name"`
	GuestEmail   string `json:"guestEmail" db:"guest_email"`
	RoomNumber   string `json:"roomNumber" db:"room_number"`
	CreatorName  string `json:"creatorName" db:"creator_name"`
	CreatorEmail string `json:"creatorEmail" db:"creator_email"`
}

// OccupiedRange is what clients need to draw a room calendar.
type OccupiedRange struct {
	ID        int64  `json:"id" db:"id"`
	StartDate Date   `json:"startDate" db:"start_date"`
	EndDate   Date   `json:"endDate" db:"end_date"`
	Status    Status `json:"status" db:"status"`
}

// TotalPrice is the nightly rate times the number of nights of the stay.
func TotalPrice(nightly decimal.Decimal, stay Stay) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(int64(stay.Nights())))
}

type CreateReservationRequest struct {
	RoomID      int64  `json:"roomId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	GuestUserID *int64 `json:"guestUserId,omitempty"`
}

type UpdateReservationRequest struct {
	RoomID    int64  `json:"roomId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Status    Status `json:"status"`
}

type ReservationFilter struct {
	GuestUserID *int64
	RoomID      *int64
}

type ListReservations struct {
	Items []Reservation `json:"items"`
}

type ListReservationDetails struct {
	Items []ReservationDetail `json:"items"`
}

type Availability struct {
	RoomID   int64           `json:"roomId"`
	Occupied []OccupiedRange `json:"occupied"`
}
