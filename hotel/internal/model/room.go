package model

import (
	"github.com/shopspring/decimal"
)

type Room struct {
	ID           int64           `json:"id" db:"id"`
	Number       string          `json:"number" db:"number"`
	Type         string          `json:"type" db:"type"`
	NightlyPrice decimal.Decimal `json:"nightlyPrice" db:"nightly_price"`
	Description  string          `json:"description" db:"description"`
	Features     []string        `json:"features" db:"features"`
	Images       []string        `json:"images" db:"images"`
	Available    bool            `json:"available" db:"available"`
}

type CreateRoomRequest struct {
	Number       string          `json:"number" validate:"required"`
	Type         string          `json:"type" validate:"required"`
	NightlyPrice decimal.Decimal `json:"nightlyPrice"`
	Description  string          `json:"description"`
	Features     []string        `json:"features"`
	Images       []string        `json:"images"`
}

type UpdateRoomRequest struct {
	CreateRoomRequest
	Available *bool `json:"available" validate:"required"`
}

type ListRooms struct {
	Items []Room `json:"items"`
}
