package service

import (
	"context"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/hotel/internal/repository"
	"go.uber.org/zap"
)

type RoomService struct {
	repo repository.RoomRepository
	log  *zap.Logger
}

func NewRoomService(repo repository.RoomRepository, log *zap.Logger) *RoomService {
	return &RoomService{
		repo: repo,
		log:  log.Named("room"),
	}
}

func (s *RoomService) List(ctx context.Context, available *bool) (model.ListRooms, error) {
	rooms, err := s.repo.ListRooms(ctx, available)
	if err != nil {
		return model.ListRooms{}, err
	}
	return model.ListRooms{Items: rooms}, nil
}

func (s *RoomService) Get(ctx context.Context, id int64) (model.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *RoomService) Create(ctx context.Context, req model.CreateRoomRequest) (model.Room, error) {
	if !req.NightlyPrice.IsPositive() {
		return model.Room{}, errs.Validation("nightlyPrice must be positive")
	}
	room, err := s.repo.CreateRoom(ctx, model.Room{
		Number:       req.Number,
		Type:         req.Type,
		NightlyPrice: req.NightlyPrice,
		Description:  req.Description,
		Features:     req.Features,
		Images:       req.Images,
		Available:    true,
	})
	if err != nil {
		return model.Room{}, err
	}
	s.log.Info("room created", zap.Int64("id", room.ID), zap.String("number", room.Number))
	return room, nil
}

func (s *RoomService) Update(ctx context.Context, id int64, req model.UpdateRoomRequest) (model.Room, error) {
	if !req.NightlyPrice.IsPositive() {
		return model.Room{}, errs.Validation("nightlyPrice must be positive")
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	room, err := s.repo.UpdateRoom(ctx, model.Room{
		ID:           id,
		Number:       req.Number,
		Type:         req.Type,
		NightlyPrice: req.NightlyPrice,
		Description:  req.Description,
		Features:     req.Features,
		Images:       req.Images,
		Available:    available,
	})
	if err != nil {
		return model.Room{}, err
	}
	s.log.Info("room updated", zap.Int64("id", room.ID), zap.Bool("available", room.Available))
	return room, nil
}

func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.log.Info("room deleted", zap.Int64("id", id))
	return nil
}
