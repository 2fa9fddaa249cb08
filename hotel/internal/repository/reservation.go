package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// roomLockNamespace is the first key of pg_advisory_xact_lock, the room id is the second.
const roomLockNamespace int32 = 0x484f54 // "HOT"

var reservationColumns = []string{
	"id", "room_id", "guest_user_id", "created_by_user_id", "start_date", "end_date", "status", "total_price",
}

type reservationRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewReservationRepository(db *sqlx.DB, log *zap.Logger) *reservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.Named("repo"),
	}
}

func (r *reservationRepository) conn(ctx context.Context) queryer {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db
}

func (r *reservationRepository) RunInRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return errors.New("nested room lock")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Warn("rollback", zap.Error(rbErr))
			}
			return
		}
		err = errors.Wrap(tx.Commit(), "commit")
	}()

	// ids above math.MaxInt32 wrap onto the key of a lower id, which only adds contention.
	if _, err = tx.ExecContext(ctx, `select pg_advisory_xact_lock($1, $2)`, roomLockNamespace, int32(roomID)); err != nil {
		return errors.Wrap(err, "advisory lock")
	}
	return fn(withTx(ctx, tx))
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, roomID int64, stay model.Stay, excludeID int64) (int64, bool, error) {
	q := qb.Select("id").
		From(reservationTableName).
		Where(sq.Eq{"room_id": roomID, "status": model.StatusConfirmed}).
		Where(sq.Gt{"end_date": stay.Start}).
		Where(sq.Lt{"start_date": stay.End}).
		OrderBy("start_date").
		Limit(1)
	if excludeID != 0 {
		q = q.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, false, err
	}
	var id int64
	if err := r.conn(ctx).GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "FindOverlapping")
	}
	return id, true, nil
}

func (r *reservationRepository) CreateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationTableName).
		Columns("room_id", "guest_user_id", "created_by_user_id", "start_date", "end_date", "status", "total_price").
		Values(res.RoomID, res.GuestUserID, res.CreatedByUserID, res.StartDate, res.EndDate, res.Status, res.TotalPrice).
		Suffix("returning " + columnList(reservationColumns)).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var created model.Reservation
	if err := r.conn(ctx).GetContext(ctx, &created, query, args...); err != nil {
		r.log.Error("CreateReservation", zap.String("q", query), zap.Any("args", args))
		return model.Reservation{}, mapPgError(err, "reservation")
	}
	return created, nil
}

func (r *reservationRepository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.conn(ctx).GetContext(ctx, &res, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.NotFound("reservation %d not found", id)
		}
		return model.Reservation{}, errors.Wrap(err, "GetReservation")
	}
	return res, nil
}

func (r *reservationRepository) UpdateReservation(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Update(reservationTableName).
		SetMap(map[string]interface{}{
			"room_id":     res.RoomID,
			"start_date":  res.StartDate,
			"end_date":    res.EndDate,
			"status":      res.Status,
			"total_price": res.TotalPrice,
		}).
		Where(sq.Eq{"id": res.ID}).
		Suffix("returning " + columnList(reservationColumns)).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var updated model.Reservation
	if err := r.conn(ctx).GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.NotFound("reservation %d not found", res.ID)
		}
		r.log.Error("UpdateReservation", zap.String("q", query), zap.Any("args", args))
		return model.Reservation{}, mapPgError(err, "reservation")
	}
	return updated, nil
}

func (r *reservationRepository) DeleteReservation(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(reservationTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "DeleteReservation")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("reservation %d not found", id)
	}
	return nil
}

func (r *reservationRepository) ListByGuest(ctx context.Context, guestUserID int64) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"guest_user_id": guestUserID}).
		OrderBy("start_date desc", "id desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Reservation, 0)
	if err := r.conn(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListByGuest")
	}
	return items, nil
}

func (r *reservationRepository) ListDetailed(ctx context.Context, filter model.ReservationFilter) ([]model.ReservationDetail, error) {
	q := qb.Select(
		"r.id", "r.room_id", "r.guest_user_id", "r.created_by_user_id",
		"r.start_date", "r.end_date", "r.status", "r.total_price",
		"g.name as guest_name", "g.email as guest_email",
		"rm.number as room_number",
		"c.name as creator_name", "c.email as creator_email",
	).
		From(reservationTableName + " r").
		Join(userTableName + " g on g.id = r.guest_user_id").
		Join(roomTableName + " rm on rm.id = r.room_id").
		Join(userTableName + " c on c.id = r.created_by_user_id").
		OrderBy("r.start_date desc", "r.id desc")

	if filter.GuestUserID != nil {
		q = q.Where(sq.Eq{"r.guest_user_id": *filter.GuestUserID})
	}
	if filter.RoomID != nil {
		q = q.Where(sq.Eq{"r.room_id": *filter.RoomID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.ReservationDetail, 0)
	if err := r.conn(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		r.log.Error("ListDetailed", zap.String("q", query), zap.Any("args", args))
		return nil, errors.Wrap(err, "ListDetailed")
	}
	return items, nil
}

func (r *reservationRepository) ListOccupied(ctx context.Context, roomID int64) ([]model.OccupiedRange, error) {
	query, args, err := qb.Select("id", "start_date", "end_date", "status").
		From(reservationTableName).
		Where(sq.Eq{"room_id": roomID, "status": []model.Status{model.StatusConfirmed, model.StatusPending}}).
		OrderBy("start_date", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.OccupiedRange, 0)
	if err := r.conn(ctx).SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.Wrap(err, "ListOccupied")
	}
	return items, nil
}
