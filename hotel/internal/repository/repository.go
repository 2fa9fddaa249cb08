package repository

import (
	"context"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	sq "github.com/Masterminds/squirrel"
)

type ReservationRepository interface {
	// RunInRoomLock runs fn inside a transaction holding the lock of roomID.
	// Repository calls made with the context passed to fn join that transaction.
	RunInRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context) error) error
	// FindOverlapping returns the id of a confirmed reservation of roomID overlapping stay, ignoring excludeID.
	FindOverlapping(ctx context.Context, roomID int64, stay model.Stay, excludeID int64) (int64, bool, error)
	CreateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	UpdateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	ListByGuest(ctx context.Context, guestUserID int64) ([]model.Reservation, error)
	ListDetailed(ctx context.Context, filter model.ReservationFilter) ([]model.ReservationDetail, error)
	ListOccupied(ctx context.Context, roomID int64) ([]model.OccupiedRange, error)
}

type RoomRepository interface {
	ListRooms(ctx context.Context, available *bool) ([]model.Room, error)
	GetRoom(ctx context.Context, id int64) (model.Room, error)
	CreateRoom(ctx context.Context, room model.Room) (model.Room, error)
	UpdateRoom(ctx context.Context, room model.Room) (model.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ExistsAdmin(ctx context.Context) (bool, error)
}

const (
	reservationTableName = `reservations`
	roomTableName        = `rooms`
	userTableName        = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
