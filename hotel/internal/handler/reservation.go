package handler

import (
	"net/http"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	mw "github.com/Astemirdum/hotel-service/pkg/middleware"
	"github.com/labstack/echo/v4"
)

func principal(c echo.Context) (auth.Principal, error) {
	p, err := auth.GetPrincipal(c.Request().Context())
	if err != nil {
		return auth.Principal{}, mw.NewHTTPError(http.StatusUnauthorized, mw.CodeUnauthenticated, err.Error())
	}
	return p, nil
}

func (h *Handler) CreateReservation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	ctx := c.Request().Context()
	res, err := h.reservationSvc.Create(ctx, p, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListMyReservations(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.reservationSvc.ListMine(c.Request().Context(), p.ID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ListReservations{Items: items})
}

func (h *Handler) ListReservations(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var filter model.ReservationFilter
	if filter.GuestUserID, err = queryID(c, "guestUserId"); err != nil {
		return err
	}
	if filter.RoomID, err = queryID(c, "roomId"); err != nil {
		return err
	}
	items, err := h.reservationSvc.ListAll(c.Request().Context(), p, filter)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.ListReservationDetails{Items: items})
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		return err
	}
	availability, err := h.reservationSvc.CheckAvailability(c.Request().Context(), roomID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, availability)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	res, err := h.reservationSvc.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reservationSvc.Delete(c.Request().Context(), p, id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
