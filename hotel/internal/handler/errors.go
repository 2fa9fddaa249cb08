package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	mw "github.com/Astemirdum/hotel-service/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// httpError maps the service error taxonomy onto statuses. Internal failures are logged, not exposed.
func (h *Handler) httpError(err error) *echo.HTTPError {
	var conflict *errs.ConflictError
	switch {
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, mw.ErrorResponse{
			Message:                  conflict.Error(),
			Code:                     mw.CodeConflict,
			ConflictingReservationID: conflict.ReservationID,
		})
	case errors.Is(err, errs.ErrValidation):
		return mw.NewHTTPError(http.StatusBadRequest, mw.CodeBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return mw.NewHTTPError(http.StatusNotFound, mw.CodeNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return mw.NewHTTPError(http.StatusConflict, mw.CodeConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return mw.NewHTTPError(http.StatusForbidden, mw.CodeForbidden, err.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		return mw.NewHTTPError(http.StatusUnauthorized, mw.CodeUnauthenticated, err.Error())
	}
	h.log.Error("internal error", zap.Error(err))
	return mw.NewHTTPError(http.StatusInternalServerError, mw.CodeInternal, "internal error")
}

func badRequest(message string) *echo.HTTPError {
	return mw.NewHTTPError(http.StatusBadRequest, mw.CodeBadRequest, message)
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

func queryID(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, badRequest("invalid " + name)
	}
	return &id, nil
}
