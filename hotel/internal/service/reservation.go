package service

import (
	"context"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/hotel/internal/repository"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/Astemirdum/hotel-service/pkg/kafka"
	"go.uber.org/zap"
)

const DefaultLeadTimeDays = 7

type ReservationService struct {
	repo         repository.ReservationRepository
	rooms        repository.RoomRepository
	users        repository.UserRepository
	events       EventPublisher
	log          *zap.Logger
	leadTimeDays int
	now          func() time.Time
}

type ReservationOption func(s *ReservationService)

// WithLeadTimeDays sets how many days before check-in a guest may still cancel.
func WithLeadTimeDays(days int) ReservationOption {
	return func(s *ReservationService) {
		if days >= 0 {
			s.leadTimeDays = days
		}
	}
}

func WithClock(now func() time.Time) ReservationOption {
	return func(s *ReservationService) {
		s.now = now
	}
}

func NewReservationService(
	repo repository.ReservationRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	events EventPublisher,
	log *zap.Logger,
	opts ...ReservationOption,
) *ReservationService {
	s := &ReservationService{
		repo:         repo,
		rooms:        rooms,
		users:        users,
		events:       events,
		log:          log.Named("reservation"),
		leadTimeDays: DefaultLeadTimeDays,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReservationService) Create(ctx context.Context, p auth.Principal, req model.CreateReservationRequest) (model.Reservation, error) {
	if req.RoomID <= 0 {
		return model.Reservation{}, errs.Validation("roomId is required")
	}
	stay, err := model.ParseStay(req.StartDate, req.EndDate)
	if err != nil {
		return model.Reservation{}, errs.Validation(err.Error())
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return model.Reservation{}, err
	}
	if !room.Available {
		return model.Reservation{}, errs.NotFound("room %d is not available", room.ID)
	}

	guestID := p.ID
	if p.Role.HasStaffPrivilege() && req.GuestUserID != nil {
		guestID = *req.GuestUserID
		if _, err := s.users.GetUser(ctx, guestID); err != nil {
			return model.Reservation{}, err
		}
	}

	var created model.Reservation
	err = s.repo.RunInRoomLock(ctx, room.ID, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, room.ID, stay, 0); err != nil {
			return err
		}
		var err error
		created, err = s.repo.CreateReservation(ctx, model.Reservation{
			RoomID:          room.ID,
			GuestUserID:     guestID,
			CreatedByUserID: p.ID,
			StartDate:       stay.Start,
			EndDate:         stay.End,
			Status:          model.StatusConfirmed,
			TotalPrice:      model.TotalPrice(room.NightlyPrice, stay),
		})
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.log.Info("reservation created",
		zap.Int64("id", created.ID),
		zap.Int64("room", created.RoomID),
		zap.Int64("guest", created.GuestUserID),
		zap.Int64("actor", p.ID))
	s.publish(ctx, kafka.ReservationCreated, created, p.ID)
	return created, nil
}

func (s *ReservationService) ListMine(ctx context.Context, userID int64) ([]model.Reservation, error) {
	return s.repo.ListByGuest(ctx, userID)
}

func (s *ReservationService) ListAll(ctx context.Context, p auth.Principal, filter model.ReservationFilter) ([]model.ReservationDetail, error) {
	if !p.Role.HasStaffPrivilege() {
		return nil, errs.Forbidden("only staff can list all reservations")
	}
	return s.repo.ListDetailed(ctx, filter)
}

func (s *ReservationService) CheckAvailability(ctx context.Context, roomID int64) (model.Availability, error) {
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return model.Availability{}, err
	}
	occupied, err := s.repo.ListOccupied(ctx, roomID)
	if err != nil {
		return model.Availability{}, err
	}
	return model.Availability{RoomID: roomID, Occupied: occupied}, nil
}

func (s *ReservationService) Update(ctx context.Context, p auth.Principal, id int64, req model.UpdateReservationRequest) (model.Reservation, error) {
	if !p.Role.HasStaffPrivilege() {
		return model.Reservation{}, errs.Forbidden("only staff can edit reservations")
	}
	if req.RoomID <= 0 {
		return model.Reservation{}, errs.Validation("roomId is required")
	}
	stay, err := model.ParseStay(req.StartDate, req.EndDate)
	if err != nil {
		return model.Reservation{}, errs.Validation(err.Error())
	}
	if req.Status != "" && !req.Status.Valid() {
		return model.Reservation{}, errs.Validation("unknown status %q", req.Status)
	}
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return model.Reservation{}, err
	}

	var updated model.Reservation
	err = s.repo.RunInRoomLock(ctx, room.ID, func(ctx context.Context) error {
		current, err := s.repo.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		status := req.Status
		if status == "" {
			status = current.Status
		}
		if !current.Status.CanTransitionTo(status) {
			return errs.Validation("reservation %d is cancelled and cannot become %s", id, status)
		}
		if status != model.StatusCancelled {
			if err := s.checkOverlap(ctx, room.ID, stay, id); err != nil {
				return err
			}
		}
		updated, err = s.repo.UpdateReservation(ctx, model.Reservation{
			ID:         id,
			RoomID:     room.ID,
			StartDate:  stay.Start,
			EndDate:    stay.End,
			Status:     status,
			TotalPrice: model.TotalPrice(room.NightlyPrice, stay),
		})
		return err
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.log.Info("reservation updated",
		zap.Int64("id", updated.ID),
		zap.Int64("room", updated.RoomID),
		zap.String("status", string(updated.Status)),
		zap.Int64("actor", p.ID))
	s.publish(ctx, kafka.ReservationUpdated, updated, p.ID)
	return updated, nil
}

func (s *ReservationService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	res, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.canDelete(p, res); err != nil {
		return err
	}
	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return err
	}

	s.log.Info("reservation deleted", zap.Int64("id", id), zap.Int64("actor", p.ID))
	s.publish(ctx, kafka.ReservationDeleted, res, p.ID)
	return nil
}

func (s *ReservationService) canDelete(p auth.Principal, res model.Reservation) error {
	if p.Role.HasStaffPrivilege() {
		return nil
	}
	if res.GuestUserID != p.ID {
		return errs.Forbidden("reservation %d belongs to another guest", res.ID)
	}
	today := model.DateOf(s.now())
	if left := today.DaysUntil(res.StartDate); left < s.leadTimeDays {
		return errs.Forbidden("reservations can be cancelled only %d days before check-in, %d days left",
			s.leadTimeDays, left)
	}
	return nil
}

func (s *ReservationService) checkOverlap(ctx context.Context, roomID int64, stay model.Stay, excludeID int64) error {
	blocking, found, err := s.repo.FindOverlapping(ctx, roomID, stay, excludeID)
	if err != nil {
		return err
	}
	if found {
		return &errs.ConflictError{ReservationID: blocking}
	}
	return nil
}

func (s *ReservationService) publish(ctx context.Context, typ kafka.EventType, res model.Reservation, actorID int64) {
	event := kafka.ReservationEvent{
		Type:          typ,
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		GuestUserID:   res.GuestUserID,
		StartDate:     res.StartDate.String(),
		EndDate:       res.EndDate.String(),
		Status:        string(res.Status),
		TotalPrice:    res.TotalPrice.StringFixed(2),
		ActorID:       actorID,
		Timestamp:     s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publish reservation event",
			zap.String("type", string(typ)),
			zap.Int64("id", res.ID),
			zap.Error(err))
	}
}
