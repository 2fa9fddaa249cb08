package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) ListRooms(c echo.Context) error {
	var available *bool
	if raw := c.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest("invalid available")
		}
		available = &v
	}
	rooms, err := h.roomSvc.List(c.Request().Context(), available)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	room, err := h.roomSvc.Get(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var req model.CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	room, err := h.roomSvc.Create(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	room, err := h.roomSvc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *Handler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roomSvc.Delete(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
