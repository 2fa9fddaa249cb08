package handler

import (
	"context"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/hotel/internal/service"
	"github.com/Astemirdum/hotel-service/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	Create(ctx context.Context, p auth.Principal, req model.CreateReservationRequest) (model.Reservation, error)
	ListMine(ctx context.Context, userID int64) ([]model.Reservation, error)
	ListAll(ctx context.Context, p auth.Principal, filter model.ReservationFilter) ([]model.ReservationDetail, error)
	CheckAvailability(ctx context.Context, roomID int64) (model.Availability, error)
	Update(ctx context.Context, p auth.Principal, id int64, req model.UpdateReservationRequest) (model.Reservation, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

type RoomService interface {
	List(ctx context.Context, available *bool) (model.ListRooms, error)
	Get(ctx context.Context, id int64) (model.Room, error)
	Create(ctx context.Context, req model.CreateRoomRequest) (model.Room, error)
	Update(ctx context.Context, id int64, req model.UpdateRoomRequest) (model.Room, error)
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Status(ctx context.Context, p auth.Principal) (model.User, error)
	List(ctx context.Context) (model.ListUsers, error)
	Get(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

var (
	_ ReservationService = (*service.ReservationService)(nil)
	_ RoomService        = (*service.RoomService)(nil)
	_ UserService        = (*service.UserService)(nil)
)
