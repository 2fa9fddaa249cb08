package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	mw "github.com/Astemirdum/hotel-service/pkg/middleware"
	"github.com/labstack/echo/v4"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	u, err := h.userSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	resp, err := h.userSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     mw.TokenCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		MaxAge:   int(resp.ExpiresIn),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	claims, ok := mw.GetClaims(c)
	if !ok {
		return mw.NewHTTPError(http.StatusUnauthorized, mw.CodeUnauthenticated, "token required")
	}
	if err := h.userSvc.Logout(c.Request().Context(), claims); err != nil {
		return h.httpError(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     mw.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Status(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	u, err := h.userSvc.Status(c.Request().Context(), p)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.userSvc.List(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.userSvc.Get(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	u, err := h.userSvc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userSvc.Delete(c.Request().Context(), p, id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
