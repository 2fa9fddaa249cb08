package repository

import (
	"context"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var roomColumns = []string{"id", "number", "type", "nightly_price", "description", "features", "images", "available"}

type roomRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRoomRepository(db *pgxpool.Pool, log *zap.Logger) *roomRepository {
	return &roomRepository{
		db:  db,
		log: log.Named("repo"),
	}
}

func (r *roomRepository) ListRooms(ctx context.Context, available *bool) ([]model.Room, error) {
	q := qb.Select(roomColumns...).
		From(roomTableName).
		OrderBy("number")
	if available != nil {
		q = q.Where(sq.Eq{"available": *available})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListRooms")
	}
	rooms, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Room])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return rooms, nil
}

func (r *roomRepository) GetRoom(ctx context.Context, id int64) (model.Room, error) {
	query, args, err := qb.Select(roomColumns...).
		From(roomTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Room{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Room{}, errors.Wrap(err, "GetRoom")
	}
	room, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Room])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Room{}, errs.NotFound("room %d not found", id)
		}
		return model.Room{}, errors.Wrap(err, "pgx.CollectOneRow")
	}
	return room, nil
}

func (r *roomRepository) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	q := `insert into rooms (number, type, nightly_price, description, features, images, available)
	values (@number, @type, @nightly_price, @description, @features, @images, @available)
	returning ` + columnList(roomColumns)
	rows, err := r.db.Query(ctx, q, roomArgs(room))
	if err != nil {
		return model.Room{}, errors.Wrap(err, "CreateRoom")
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Room])
	if err != nil {
		r.log.Error("CreateRoom", zap.String("number", room.Number), zap.Error(err))
		return model.Room{}, mapPgError(err, "room")
	}
	return created, nil
}

func (r *roomRepository) UpdateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	q := `update rooms set number = @number, type = @type, nightly_price = @nightly_price,
		description = @description, features = @features, images = @images, available = @available
	where id = @id
	returning ` + columnList(roomColumns)
	args := roomArgs(room)
	args["id"] = room.ID
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Room{}, errors.Wrap(err, "UpdateRoom")
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Room])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Room{}, errs.NotFound("room %d not found", room.ID)
		}
		return model.Room{}, mapPgError(err, "room")
	}
	return updated, nil
}

func (r *roomRepository) DeleteRoom(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `delete from rooms where id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return mapPgError(err, "room")
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("room %d not found", id)
	}
	return nil
}

func roomArgs(room model.Room) pgx.NamedArgs {
	features, images := room.Features, room.Images
	if features == nil {
		features = []string{}
	}
	if images == nil {
		images = []string{}
	}
	return pgx.NamedArgs{
		"number":        room.Number,
		"type":          room.Type,
		"nightly_price": room.NightlyPrice,
		"description":   room.Description,
		"features":      features,
		"images":        images,
		"available":     room.Available,
	}
}
