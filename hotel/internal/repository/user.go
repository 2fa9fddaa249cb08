package repository

import (
	"context"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var userColumns = []string{"id", "email", "phone", "name", "password_hash", "role"}

type userRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, log *zap.Logger) *userRepository {
	return &userRepository{
		db:  db,
		log: log.Named("repo"),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	q := `insert into users (email, phone, name, password_hash, role)
	values (@email, @phone, @name, @password_hash, @role)
	returning ` + columnList(userColumns)
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"email":         u.Email,
		"phone":         u.Phone,
		"name":          u.Name,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
	})
	if err != nil {
		return model.User{}, errors.Wrap(err, "CreateUser")
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, mapPgError(err, "user")
	}
	return created, nil
}

func (r *userRepository) GetUser(ctx context.Context, id int64) (model.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id}, func() error { return errs.NotFound("user %d not found", id) })
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email}, func() error { return errs.NotFound("user %s not found", email) })
}

func (r *userRepository) getBy(ctx context.Context, where sq.Eq, notFound func() error) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(userTableName).
		Where(where).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, errors.Wrap(err, "GetUser")
	}
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, notFound()
		}
		return model.User{}, errors.Wrap(err, "pgx.CollectOneRow")
	}
	return u, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(userTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "ListUsers")
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	q := `update users set email = @email, phone = @phone, name = @name, password_hash = @password_hash, role = @role
	where id = @id
	returning ` + columnList(userColumns)
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"id":            u.ID,
		"email":         u.Email,
		"phone":         u.Phone,
		"name":          u.Name,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
	})
	if err != nil {
		return model.User{}, errors.Wrap(err, "UpdateUser")
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.NotFound("user %d not found", u.ID)
		}
		return model.User{}, mapPgError(err, "user")
	}
	return updated, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `delete from users where id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return mapPgError(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("user %d not found", id)
	}
	return nil
}

func (r *userRepository) ExistsAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `select exists(select 1 from users where role = @role)`,
		pgx.NamedArgs{"role": auth.RoleAdmin}).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "ExistsAdmin")
	}
	return exists, nil
}
