package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInternal        = "INTERNAL"
)

type ErrorResponse struct {
	Message                  string `json:"message"`
	Code                     string `json:"code"`
	ConflictingReservationID int64  `json:"conflictingReservationId,omitempty"`
}

func NewHTTPError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorResponse{Message: message, Code: code})
}
