package repository

import (
	"strings"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// mapPgError turns constraint violations into conflicts so handlers answer 409 instead of 500.
func mapPgError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return errs.Conflict("%s already exists", entity)
	case pgerrcode.ForeignKeyViolation:
		if strings.Contains(pgErr.Message, "still referenced") || strings.Contains(pgErr.Detail, "still referenced") {
			return errs.Conflict("%s is referenced by existing reservations", entity)
		}
		return errs.NotFound("%s references a missing record", entity)
	case pgerrcode.CheckViolation:
		return errs.Validation("%s violates constraint %s", entity, pgErr.ConstraintName)
	}
	return err
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}
